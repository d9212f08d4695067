package handler

import (
	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

// toUserResponse never copies the password hash or recovery fields.
func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toClientResponse(c *domain.Client) clientResponse {
	m := c.Measurements
	resp := clientResponse{
		ID:           c.ID,
		CustomerName: c.CustomerName,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		Notes:        c.Notes,
		Shoulder:     m.Shoulder,
		Chest:        m.Chest,
		Waist:        m.Waist,
		Hips:         m.Hips,
		SleeveLength: m.SleeveLength,
		Length:       m.Length,
		Neck:         m.Neck,
		Cuff:         m.Cuff,
		UserID:       c.UserID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Creator != nil {
		resp.Creator = &creatorResponse{ID: c.Creator.ID, Name: c.Creator.Name, Email: c.Creator.Email}
	}
	return resp
}

func toClientResponses(clients []*domain.Client) []clientResponse {
	out := make([]clientResponse, len(clients))
	for i, c := range clients {
		out[i] = toClientResponse(c)
	}
	return out
}

func (m MeasurementFields) toDomain() domain.Measurements {
	return domain.Measurements{
		Shoulder:     m.Shoulder,
		Chest:        m.Chest,
		Waist:        m.Waist,
		Hips:         m.Hips,
		SleeveLength: m.SleeveLength,
		Length:       m.Length,
		Neck:         m.Neck,
		Cuff:         m.Cuff,
	}
}

func (r createClientRequest) toInput() ports.ClientInput {
	return ports.ClientInput{
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		Notes:        r.Notes,
		Measurements: r.MeasurementFields.toDomain(),
	}
}

func (r updateClientRequest) toPatch() ports.ClientPatch {
	return ports.ClientPatch{
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		Notes:        r.Notes,
		Measurements: r.MeasurementFields.toDomain(),
	}
}
