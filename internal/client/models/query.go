package models

// SearchQuery is a single search invocation request. Field is only used by
// the internal role.
type SearchQuery struct {
	Role       Role
	RawKeyword string
	Field      Field
}

// TrapdoorPayload is the internal search body: one field mapped to the raw
// keyword, sent verbatim.
type TrapdoorPayload map[Field]string

// NewTrapdoorPayload builds the single-entry internal payload.
func NewTrapdoorPayload(f Field, rawKeyword string) TrapdoorPayload {
	return TrapdoorPayload{f: rawKeyword}
}

// SignedQueryPayload is the external search body. KeywordHash and Signature
// must both be derived from the same invocation's keyword.
type SignedQueryPayload struct {
	AuditorID   string `json:"auditor_id"`
	KeywordHash string `json:"keyword_hash"`
	Signature   string `json:"signature"`
}
