package models

import (
	"bytes"
	"errors"
	"strings"

	"github.com/dmitrijs2005/securematch/internal/common"
)

// AuditorRecord is the server's view of an external auditor. The client
// only receives it and never mutates it.
type AuditorRecord struct {
	ID               string
	Name             string
	ActiveKeyVersion int
}

// AuditorSession binds the selected auditor to the raw private key material
// pasted by the user. It only ever lives in memory.
type AuditorSession struct {
	auditor AuditorRecord
	key     []byte
}

var (
	ErrNoAuditor     = errors.New("auditor record is required")
	ErrNoKeyMaterial = errors.New("private key material is required")
)

// NewAuditorSession constructs a session. Both an auditor id and non-empty
// key material are required. The key bytes are copied.
func NewAuditorSession(auditor AuditorRecord, keyMaterial []byte) (*AuditorSession, error) {
	if strings.TrimSpace(auditor.ID) == "" {
		return nil, ErrNoAuditor
	}
	if len(bytes.TrimSpace(keyMaterial)) == 0 {
		return nil, ErrNoKeyMaterial
	}
	key := make([]byte, len(keyMaterial))
	copy(key, keyMaterial)
	return &AuditorSession{auditor: auditor, key: key}, nil
}

// Auditor returns the bound auditor record.
func (s *AuditorSession) Auditor() AuditorRecord {
	if s == nil {
		return AuditorRecord{}
	}
	return s.auditor
}

// KeyMaterial returns the private key bytes. Callers must not retain them.
func (s *AuditorSession) KeyMaterial() []byte {
	if s == nil {
		return nil
	}
	return s.key
}

// Complete reports whether the session carries both an auditor and a key.
func (s *AuditorSession) Complete() bool {
	return s != nil && s.auditor.ID != "" && len(s.key) > 0
}

// Wipe zeroes the key material and detaches it from the session.
func (s *AuditorSession) Wipe() {
	if s == nil {
		return
	}
	common.WipeByteArray(s.key)
	s.key = nil
	s.auditor = AuditorRecord{}
}

// String never prints key material.
func (s *AuditorSession) String() string {
	if s == nil {
		return "<no session>"
	}
	return "auditor " + s.auditor.ID + " (" + s.auditor.Name + ")"
}
