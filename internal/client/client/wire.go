package client

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/securematch/internal/client/models"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Meta   json.RawMessage `json:"meta"`
	Error  *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchMeta is the meta block of a search response. Counters the server
// may omit are pointers.
type SearchMeta struct {
	ExecutionTimeMs         float64 `json:"execution_time_ms"`
	TotalMatches            *int    `json:"total_matches"`
	ReturnedCount           *int    `json:"returned_count"`
	Truncated               bool    `json:"truncated"`
	SignatureVerificationMs float64 `json:"signature_verification_ms"`
	AuditLogID              flexID  `json:"audit_log_id"`
	SearchesLastHour        int     `json:"searches_last_hour"`
	KeyVersionUsed          int     `json:"key_version_used"`
	ResponsePadded          bool    `json:"response_padded"`
}

// SearchResponse is a decoded search reply. For external searches Results
// holds padding and opaque ciphertexts and must not be shown.
type SearchResponse struct {
	Results []models.Record
	Meta    SearchMeta
}

type searchData struct {
	Results []models.Record `json:"results"`
}

type auditorDTO struct {
	ID         flexID `json:"id"`
	Name       string `json:"name"`
	KeyVersion int    `json:"key_version"`
}

func (a auditorDTO) record() models.AuditorRecord {
	v := a.KeyVersion
	if v <= 0 {
		v = 1
	}
	return models.AuditorRecord{ID: string(a.ID), Name: a.Name, ActiveKeyVersion: v}
}

type metricsData struct {
	Auditors      []auditorDTO         `json:"auditors"`
	SystemMetrics models.SystemMetrics `json:"system_metrics"`
}

type createAuditorRequest struct {
	Name string `json:"name"`
}

type createAuditorData struct {
	PrivateKey string `json:"private_key"`
	AuditorID  flexID `json:"auditor_id"`
	ID         flexID `json:"id"`
}

// CreatedAuditor is returned once by CreateAuditor. The private key is not
// retrievable again.
type CreatedAuditor struct {
	ID         string
	Name       string
	PrivateKey []byte
}

// flexID decodes identifiers the server emits either as JSON numbers or
// strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}
