package models

// Record is one decrypted document returned to the internal role.
type Record map[string]any

// SearchResultView is the role-gated outcome of a search. It is either an
// *InternalResult or an *ExternalResult.
type SearchResultView interface {
	Role() Role
	MatchExists() bool
	Matches() int
	ExecutionTimeMs() int64
	isSearchResultView()
}

// InternalResult carries decrypted records.
type InternalResult struct {
	Records       []Record
	TotalMatches  int
	ReturnedCount int
	Truncated     bool
	ElapsedMs     int64
}

func (r *InternalResult) Role() Role             { return RoleInternal }
func (r *InternalResult) MatchExists() bool      { return r.TotalMatches > 0 }
func (r *InternalResult) Matches() int           { return r.TotalMatches }
func (r *InternalResult) ExecutionTimeMs() int64 { return r.ElapsedMs }
func (*InternalResult) isSearchResultView()      {}

// ExternalResult exposes metadata only. There is deliberately no field that
// could carry record payloads.
type ExternalResult struct {
	TotalMatches     int
	ElapsedMs        int64
	Truncated        bool
	KeyVersionUsed   int
	SearchesLastHour int
}

func (r *ExternalResult) Role() Role             { return RoleExternal }
func (r *ExternalResult) MatchExists() bool      { return r.TotalMatches > 0 }
func (r *ExternalResult) Matches() int           { return r.TotalMatches }
func (r *ExternalResult) ExecutionTimeMs() int64 { return r.ElapsedMs }
func (*ExternalResult) isSearchResultView()      {}

// MatchLabel renders the "match exists" column.
func MatchLabel(v SearchResultView) string {
	if v != nil && v.MatchExists() {
		return "YES"
	}
	return "NO"
}
