// Package storage provides an in-memory relational store with real
// transaction semantics. It backs STORAGE_DRIVER=memory and the service tests.
//
// All tables live in one snapshot. RunInTx serializes writers, runs fn against
// a private copy of the snapshot, and publishes the copy only when fn returns
// nil; on error the copy is discarded, so a failed unit of work leaves no
// trace. Reads outside a transaction see the last committed snapshot.
package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	certModels "medid/internal/certification/models"
	"medid/internal/identity/models"
	id "medid/pkg/domain"
)

type tables struct {
	credentials    map[id.CredentialID]models.Credential
	identities     map[id.IdentityID]models.Identity
	patients       map[id.PatientID]models.PatientProfile
	medical        map[id.MedicalProfileID]models.MedicalProfile
	administrators map[id.AdminID]models.Administrator
	requests       map[id.RequestID]certModels.Request
}

func newTables() *tables {
	return &tables{
		credentials:    make(map[id.CredentialID]models.Credential),
		identities:     make(map[id.IdentityID]models.Identity),
		patients:       make(map[id.PatientID]models.PatientProfile),
		medical:        make(map[id.MedicalProfileID]models.MedicalProfile),
		administrators: make(map[id.AdminID]models.Administrator),
		requests:       make(map[id.RequestID]certModels.Request),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.credentials {
		c.credentials[k] = v
	}
	for k, v := range t.identities {
		c.identities[k] = v
	}
	for k, v := range t.patients {
		c.patients[k] = v
	}
	for k, v := range t.medical {
		c.medical[k] = v
	}
	for k, v := range t.administrators {
		c.administrators[k] = v
	}
	for k, v := range t.requests {
		c.requests[k] = v
	}
	return c
}

// Memory is the in-memory store. The zero value is not usable; call New.
type Memory struct {
	writeMu sync.Mutex   // held for the duration of a write transaction
	mu      sync.RWMutex // guards state
	state   *tables
}

func New() *Memory {
	return &Memory{state: newTables()}
}

type txKey struct{}

type memTx struct {
	owner *Memory
	t     *tables
}

func (m *Memory) txFrom(ctx context.Context) (*tables, bool) {
	tx, ok := ctx.Value(txKey{}).(*memTx)
	if !ok || tx.owner != m {
		return nil, false
	}
	return tx.t, true
}

// RunInTx runs fn as one atomic unit of work. Nested calls join the outer
// transaction.
func (m *Memory) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := m.txFrom(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	working := m.state.clone()
	m.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, &memTx{owner: m, t: working})); err != nil {
		return err
	}
	// A context that expired mid-transaction rolls back like a failed commit.
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = working
	m.mu.Unlock()
	return nil
}

func (m *Memory) read(ctx context.Context, fn func(t *tables) error) error {
	if t, ok := m.txFrom(ctx); ok {
		return fn(t)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(m.state)
}

func (m *Memory) write(ctx context.Context, fn func(t *tables) error) error {
	if t, ok := m.txFrom(ctx); ok {
		return fn(t)
	}
	return m.RunInTx(ctx, func(txCtx context.Context) error {
		t, _ := m.txFrom(txCtx)
		return fn(t)
	})
}

func sameContact(a, b string) bool {
	return strings.EqualFold(a, b)
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneAdminID(p *id.AdminID) *id.AdminID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
