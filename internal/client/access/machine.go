// Package access implements the role state machine that decides which
// search protocol is reachable:
//
//	Unselected --ChooseInternal--> Internal
//	Unselected --ChooseExternal--> ExternalSelecting   (fetches auditors)
//	ExternalSelecting --Authenticate(record, key)--> External
//	any --Logout--> Unselected                          (wipes the session)
package access

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/securematch/internal/client/identity"
	"github.com/dmitrijs2005/securematch/internal/client/models"
	"github.com/dmitrijs2005/securematch/internal/logging"
)

var (
	ErrInvalidTransition = errors.New("transition not allowed")
	ErrUnknownAuditor    = errors.New("unknown auditor")
)

// AuditorLister fetches the auditors an external user may sign as.
type AuditorLister interface {
	ListAuditors(ctx context.Context) ([]models.AuditorRecord, error)
}

type Machine struct {
	mu       sync.Mutex
	role     models.Role
	auditors []models.AuditorRecord
	fetchErr error

	lister AuditorLister
	store  *identity.Store
	log    logging.Logger
}

func NewMachine(lister AuditorLister, store *identity.Store, log logging.Logger) *Machine {
	return &Machine{lister: lister, store: store, log: log}
}

func (m *Machine) transitionErr(op string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, m.role)
}

// ChooseInternal enters the internal role.
func (m *Machine) ChooseInternal(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.role != models.RoleUnselected {
		return m.transitionErr("choose internal")
	}
	m.role = models.RoleInternal
	m.log.Info(ctx, "role selected", "role", m.role)
	return nil
}

// ChooseExternal enters auditor selection and loads the auditor list. A
// failed fetch leaves the list empty and is reported by FetchError; the
// transition itself still succeeds.
func (m *Machine) ChooseExternal(ctx context.Context) error {
	m.mu.Lock()
	if m.role != models.RoleUnselected {
		err := m.transitionErr("choose external")
		m.mu.Unlock()
		return err
	}
	m.role = models.RoleExternalSelecting
	m.auditors = nil
	m.fetchErr = nil
	m.mu.Unlock()

	m.log.Info(ctx, "role selected", "role", models.RoleExternalSelecting)
	m.RefreshAuditors(ctx)
	return nil
}

// RefreshAuditors reloads the auditor list while selecting.
func (m *Machine) RefreshAuditors(ctx context.Context) {
	list, err := m.lister.ListAuditors(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.role != models.RoleExternalSelecting {
		return
	}
	if err != nil {
		m.auditors = nil
		m.fetchErr = err
		m.log.Warn(ctx, "auditor list unavailable", "error", err)
		return
	}
	m.auditors = append([]models.AuditorRecord(nil), list...)
	m.fetchErr = nil
}

// FindAuditor looks an id up in the fetched list.
func (m *Machine) FindAuditor(id string) (models.AuditorRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.auditors {
		if a.ID == id {
			return a, nil
		}
	}
	return models.AuditorRecord{}, fmt.Errorf("%w: %q", ErrUnknownAuditor, id)
}

// Authenticate binds record and key material into the active session. On
// any failure the machine stays in ExternalSelecting. material is copied,
// so callers should wipe their own buffer afterwards.
func (m *Machine) Authenticate(ctx context.Context, record models.AuditorRecord, material []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.role != models.RoleExternalSelecting {
		return m.transitionErr("authenticate")
	}

	session, err := models.NewAuditorSession(record, material)
	if err != nil {
		return err
	}
	m.store.Set(session)
	m.role = models.RoleExternal
	m.log.Info(ctx, "auditor authenticated", "auditor", record.ID, "key_version", record.ActiveKeyVersion)
	return nil
}

// Logout returns to Unselected from any state and wipes the session.
func (m *Machine) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.role
	m.store.Clear()
	m.role = models.RoleUnselected
	m.auditors = nil
	m.fetchErr = nil
	if prev != models.RoleUnselected {
		m.log.Info(ctx, "logged out", "from", prev)
	}
}

// State is the current role.
func (m *Machine) State() models.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

// Session is the active auditor session, only ever non-nil in External.
func (m *Machine) Session() *models.AuditorSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.role != models.RoleExternal {
		return nil
	}
	return m.store.Session()
}

// Auditors returns a copy of the fetched auditor list.
func (m *Machine) Auditors() []models.AuditorRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AuditorRecord(nil), m.auditors...)
}

// FetchError is the last auditor-list fetch failure, if any.
func (m *Machine) FetchError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchErr
}
