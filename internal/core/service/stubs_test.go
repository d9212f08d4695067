package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *update.Email {
				return nil, domain.ErrUserExists
			}
		}
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.RecoveryTokenHash = ""
	u.RecoveryTokenExpiry = time.Time{}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string, keepRole domain.Role) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || u.Role == keepRole {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return u, nil
}

func (r *stubUserRepo) SetRecoveryToken(_ context.Context, id, tokenHash string, expiry time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RecoveryTokenHash = tokenHash
	u.RecoveryTokenExpiry = expiry
	return nil
}

func (r *stubUserRepo) ClearRecoveryToken(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RecoveryTokenHash = ""
	u.RecoveryTokenExpiry = time.Time{}
	return nil
}

func (r *stubUserRepo) FindByRecoveryToken(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.RecoveryTokenHash != "" && u.RecoveryTokenHash == tokenHash && u.RecoveryTokenExpiry.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) RedeemRecoveryToken(_ context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	for _, u := range r.users {
		if u.RecoveryTokenHash != "" && u.RecoveryTokenHash == tokenHash && u.RecoveryTokenExpiry.After(now) {
			u.PasswordHash = passwordHash
			u.RecoveryTokenHash = ""
			u.RecoveryTokenExpiry = time.Time{}
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// In-memory session revoker
// ---------------------------------------------------------------------------

type stubRevoker struct {
	revoked  map[string]time.Time
	checkErr error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.revoked[tokenID] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.checkErr != nil {
		return false, r.checkErr
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

// ---------------------------------------------------------------------------
// In-memory client repository
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	clients    map[string]*domain.Client
	nextID     int
	lastFilter ports.ListClientsFilter
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) taken(excludeID, email, phone string) bool {
	for _, c := range r.clients {
		if c.ID == excludeID {
			continue
		}
		if (email != "" && c.Email == email) || (phone != "" && c.Phone == phone) {
			return true
		}
	}
	return false
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if r.taken("", c.Email, c.Phone) {
		return nil, domain.ErrClientExists
	}
	r.nextID++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.nextID)
	r.clients[clone.ID] = &clone
	out := clone
	return &out, nil
}

// List mirrors the scoping the Mongo repository applies.
func (r *stubClientRepo) List(_ context.Context, f ports.ListClientsFilter) ([]*domain.Client, error) {
	r.lastFilter = f
	var out []*domain.Client
	for _, c := range r.clients {
		if f.UserID != "" && c.UserID != f.UserID {
			continue
		}
		clone := *c
		if f.WithCreator {
			clone.Creator = &domain.Creator{ID: c.UserID}
		}
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, id string, p ports.ClientPatch) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	email, phone := "", ""
	if p.Email != nil {
		email = *p.Email
	}
	if p.Phone != nil {
		phone = *p.Phone
	}
	if r.taken(id, email, phone) {
		return nil, domain.ErrClientExists
	}
	if p.CustomerName != nil {
		c.CustomerName = *p.CustomerName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Measurements.Chest != nil {
		c.Measurements.Chest = p.Measurements.Chest
	}
	if p.Measurements.Waist != nil {
		c.Measurements.Waist = p.Measurements.Waist
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	delete(r.clients, id)
	return c, nil
}
