// Package identity keeps the active auditor session in memory. Nothing in
// it is ever written to disk.
package identity

import (
	"sync"

	"github.com/dmitrijs2005/securematch/internal/client/models"
)

// Store holds at most one AuditorSession. The access machine is its only
// writer; everything else reads.
type Store struct {
	mu      sync.RWMutex
	session *models.AuditorSession
}

func NewStore() *Store {
	return &Store{}
}

// Set installs s as the active session. A previously held session is wiped.
func (st *Store) Set(s *models.AuditorSession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session != nil && st.session != s {
		st.session.Wipe()
	}
	st.session = s
}

// Session returns the active session or nil.
func (st *Store) Session() *models.AuditorSession {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.session
}

// Clear wipes and drops the active session.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session != nil {
		st.session.Wipe()
		st.session = nil
	}
}
