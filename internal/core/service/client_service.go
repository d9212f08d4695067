package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stitchboard/tailor-admin/internal/api/metrics"
	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

// ClientService implements ports.ClientService.
type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger, now: time.Now}
}

// CreateMeasurement stores a new record attributed to the caller. A record
// sharing the email or phone of an existing one is rejected by the store.
func (s *ClientService) CreateMeasurement(ctx context.Context, caller domain.Identity, input ports.ClientInput) (*domain.Client, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, domain.ErrCustomerNameRequired
	}

	now := s.now().UTC()
	client := &domain.Client{
		CustomerName: customerName,
		Email:        normalizeEmail(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Notes:        input.Notes,
		Measurements: input.Measurements,
		UserID:       caller.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, client)
	if err != nil {
		if !errors.Is(err, domain.ErrClientExists) {
			s.logger.Error().Err(err).Msg("failed to create client")
		}
		return nil, err
	}

	metrics.ClientRecordsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("client_id", created.ID).Str("user_id", caller.UserID).Msg("client created")
	return created, nil
}

// ListClients returns every record, with creators resolved, to an admin and
// only self-created records to a tailor.
func (s *ClientService) ListClients(ctx context.Context, caller domain.Identity) ([]*domain.Client, error) {
	var filter ports.ListClientsFilter
	switch caller.Role {
	case domain.RoleAdmin:
		filter.WithCreator = true
	case domain.RoleTailor:
		filter.UserID = caller.UserID
	default:
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, filter)
}

// UpdateClient merges patch into the stored record.
func (s *ClientService) UpdateClient(ctx context.Context, targetID string, patch ports.ClientPatch) (*domain.Client, error) {
	if patch.CustomerName != nil {
		v := strings.TrimSpace(*patch.CustomerName)
		if v == "" {
			return nil, domain.ErrCustomerNameRequired
		}
		patch.CustomerName = &v
	}
	if patch.Email != nil {
		v := normalizeEmail(*patch.Email)
		patch.Email = &v
	}
	if patch.Phone != nil {
		v := strings.TrimSpace(*patch.Phone)
		patch.Phone = &v
	}

	updated, err := s.repo.Update(ctx, targetID, patch)
	if err != nil {
		return nil, err
	}

	metrics.ClientRecordsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("client_id", targetID).Msg("client updated")
	return updated, nil
}

func (s *ClientService) RemoveClient(ctx context.Context, caller domain.Identity, targetID string) (*domain.Client, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	deleted, err := s.repo.Delete(ctx, targetID)
	if err != nil {
		return nil, err
	}

	metrics.ClientRecordsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("client_id", targetID).Str("caller_id", caller.UserID).Msg("client deleted")
	return deleted, nil
}
