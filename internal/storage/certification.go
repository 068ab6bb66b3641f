package storage

import (
	"context"
	"fmt"
	"sort"

	certModels "medid/internal/certification/models"
	id "medid/pkg/domain"
	"medid/pkg/platform/sentinel"
)

func cloneRequest(r certModels.Request) certModels.Request {
	r.ReviewedAt = cloneTime(r.ReviewedAt)
	r.ReviewedBy = cloneAdminID(r.ReviewedBy)
	return r
}

func (m *Memory) CreateRequest(ctx context.Context, r *certModels.Request) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.requests[r.ID]; ok {
			return fmt.Errorf("certification request %s: %w", r.ID, sentinel.ErrConflict)
		}
		if r.ReviewedBy != nil {
			if _, ok := t.administrators[*r.ReviewedBy]; !ok {
				return fmt.Errorf("reviewer %s: %w", r.ReviewedBy, sentinel.ErrInvalidState)
			}
		}
		t.requests[r.ID] = cloneRequest(*r)
		return nil
	})
}

func (m *Memory) FindRequest(ctx context.Context, requestID id.RequestID) (*certModels.Request, error) {
	var out *certModels.Request
	err := m.read(ctx, func(t *tables) error {
		r, ok := t.requests[requestID]
		if !ok {
			return sentinel.ErrNotFound
		}
		cp := cloneRequest(r)
		out = &cp
		return nil
	})
	return out, err
}

func requestView(t *tables, r certModels.Request) *certModels.RequestView {
	v := &certModels.RequestView{Request: cloneRequest(r)}
	if ident, ok := t.identities[r.IdentityID]; ok {
		v.SubmitterName = ident.DisplayName
		v.SubmitterContact = ident.Contact
	}
	if r.ReviewedBy != nil {
		if a, ok := t.administrators[*r.ReviewedBy]; ok {
			v.ReviewerAccessLevel = a.AccessLevel
		}
	}
	return v
}

func (m *Memory) FindRequestView(ctx context.Context, requestID id.RequestID) (*certModels.RequestView, error) {
	var out *certModels.RequestView
	err := m.read(ctx, func(t *tables) error {
		r, ok := t.requests[requestID]
		if !ok {
			return sentinel.ErrNotFound
		}
		out = requestView(t, r)
		return nil
	})
	return out, err
}

// ListRequestViews returns every request, newest first.
func (m *Memory) ListRequestViews(ctx context.Context) ([]*certModels.RequestView, error) {
	var out []*certModels.RequestView
	err := m.read(ctx, func(t *tables) error {
		for _, r := range t.requests {
			out = append(out, requestView(t, r))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (m *Memory) UpdateRequest(ctx context.Context, r *certModels.Request) error {
	return m.write(ctx, func(t *tables) error {
		existing, ok := t.requests[r.ID]
		if !ok {
			return sentinel.ErrNotFound
		}
		if r.ReviewedBy != nil {
			if _, ok := t.administrators[*r.ReviewedBy]; !ok {
				return fmt.Errorf("reviewer %s: %w", r.ReviewedBy, sentinel.ErrInvalidState)
			}
		}
		updated := cloneRequest(*r)
		updated.IdentityID = existing.IdentityID
		updated.CreatedAt = existing.CreatedAt
		t.requests[r.ID] = updated
		return nil
	})
}

func (m *Memory) DeleteRequest(ctx context.Context, requestID id.RequestID) error {
	return m.write(ctx, func(t *tables) error {
		if _, ok := t.requests[requestID]; !ok {
			return sentinel.ErrNotFound
		}
		delete(t.requests, requestID)
		return nil
	})
}
