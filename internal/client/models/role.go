// Package models defines the client-side data model of the SecureMatch
// search protocol: roles, auditor identities, queries, wire payloads,
// result views and the per-invocation progress log.
package models

import "fmt"

// Role determines which protocol path and which operations are available.
type Role int

const (
	RoleUnselected Role = iota
	RoleInternal
	RoleExternalSelecting
	RoleExternal
)

func (r Role) String() string {
	switch r {
	case RoleUnselected:
		return "unselected"
	case RoleInternal:
		return "internal"
	case RoleExternalSelecting:
		return "external-selecting"
	case RoleExternal:
		return "external"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Capability names a permitted operation of a role.
type Capability string

const (
	CapUpload         Capability = "upload"
	CapStorage        Capability = "storage"
	CapSearchDecrypt  Capability = "search_decrypt"
	CapSearchPEKS     Capability = "search_peks"
	CapMetricsFull    Capability = "metrics_full"
	CapMetricsLimited Capability = "metrics_limited"
	CapManageAuditors Capability = "manage_auditors"
)

// Capabilities lists what the role may do. ExternalSelecting has no search
// capability until an identity has been authenticated.
func (r Role) Capabilities() []Capability {
	switch r {
	case RoleInternal:
		return []Capability{CapUpload, CapStorage, CapSearchDecrypt, CapMetricsFull, CapManageAuditors}
	case RoleExternalSelecting:
		return []Capability{CapMetricsLimited}
	case RoleExternal:
		return []Capability{CapSearchPEKS, CapMetricsLimited}
	default:
		return nil
	}
}

// Can reports whether the role has capability c.
func (r Role) Can(c Capability) bool {
	for _, have := range r.Capabilities() {
		if have == c {
			return true
		}
	}
	return false
}

// Protocol returns the search protocol label shown for the role.
func (r Role) Protocol() string {
	switch r {
	case RoleInternal:
		return "SSE"
	case RoleExternal, RoleExternalSelecting:
		return "PEKS"
	default:
		return ""
	}
}
