package ports

import (
	"context"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// ListClientsFilter carries the scoping rules for a client listing.
type ListClientsFilter struct {
	UserID      string // empty = no filter (admin); non-empty = records created by this user
	WithCreator bool   // resolve Client.Creator from the users collection
}

// ClientRepository defines persistence operations for measurement records.
type ClientRepository interface {
	// Create inserts the record; a duplicate email or phone yields domain.ErrClientExists.
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	List(ctx context.Context, filter ListClientsFilter) ([]*domain.Client, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id string) (*domain.Client, error)
}
