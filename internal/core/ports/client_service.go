package ports

import (
	"context"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// ClientInput carries all data needed to create a measurement record.
type ClientInput struct {
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Notes        string
	Measurements domain.Measurements
}

// ClientPatch is a partial update of a measurement record. Nil fields are kept.
type ClientPatch struct {
	CustomerName *string
	Email        *string
	Phone        *string
	Address      *string
	Notes        *string
	Measurements domain.Measurements
}

// Empty reports whether the patch changes nothing.
func (p ClientPatch) Empty() bool {
	m := p.Measurements
	return p.CustomerName == nil && p.Email == nil && p.Phone == nil && p.Address == nil && p.Notes == nil &&
		m.Shoulder == nil && m.Chest == nil && m.Waist == nil && m.Hips == nil &&
		m.SleeveLength == nil && m.Length == nil && m.Neck == nil && m.Cuff == nil
}

// ClientService defines use-case operations for measurement records.
type ClientService interface {
	CreateMeasurement(ctx context.Context, caller domain.Identity, input ClientInput) (*domain.Client, error)
	ListClients(ctx context.Context, caller domain.Identity) ([]*domain.Client, error)
	UpdateClient(ctx context.Context, targetID string, patch ClientPatch) (*domain.Client, error)
	RemoveClient(ctx context.Context, caller domain.Identity, targetID string) (*domain.Client, error)
}
