package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"medid/internal/documents"
)

// Ledger is an in-process orphaned-document ledger.
type Ledger struct {
	mu      sync.Mutex
	orphans map[string]*documents.Orphan
}

func NewLedger() *Ledger {
	return &Ledger{orphans: make(map[string]*documents.Orphan)}
}

func (l *Ledger) Record(_ context.Context, o *documents.Orphan) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *o
	l.orphans[o.ID] = &cp
	return nil
}

// ListPending returns unresolved orphans, fewest attempts first, then oldest.
func (l *Ledger) ListPending(_ context.Context, limit int) ([]*documents.Orphan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*documents.Orphan
	for _, o := range l.orphans {
		if o.ResolvedAt == nil && o.AbandonedAt == nil {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts < out[j].Attempts
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *Ledger) MarkResolved(_ context.Context, ids []string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if o, ok := l.orphans[id]; ok {
			t := at
			o.ResolvedAt = &t
		}
	}
	return nil
}

func (l *Ledger) MarkAttempted(_ context.Context, ids []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if o, ok := l.orphans[id]; ok {
			o.Attempts++
		}
	}
	return nil
}

func (l *Ledger) MarkAbandoned(_ context.Context, ids []string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if o, ok := l.orphans[id]; ok && o.ResolvedAt == nil {
			t := at
			o.Attempts++
			o.AbandonedAt = &t
		}
	}
	return nil
}
