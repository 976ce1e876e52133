package http

import (
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
)

type pageResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func newPageResponse[S, T any](p listing.Page[S], convert func(S) T) pageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, convert(item))
	}
	return pageResponse[T]{
		Items:      items,
		Page:       p.Number,
		PageSize:   p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

type storeSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

type eventResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Store           storeSummaryResponse `json:"store"`
	StartsAt        time.Time            `json:"starts_at"`
	Formats         []string             `json:"formats"`
	EntryFeeCents   int                  `json:"entry_fee_cents"`
	Capacity        int                  `json:"capacity"`
	RegisteredCount int                  `json:"registered_count"`
	SpotsLeft       *int                 `json:"spots_left"`
	CreatedBy       string               `json:"created_by,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func toEventResponse(e domain.Event) eventResponse {
	formats := make([]string, len(e.Formats))
	for i, f := range e.Formats {
		formats[i] = string(f)
	}
	resp := eventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Store: storeSummaryResponse{
			ID:    e.Store.ID,
			Name:  e.Store.Name,
			City:  e.Store.City,
			State: e.Store.State,
		},
		StartsAt:        e.StartsAt,
		Formats:         formats,
		EntryFeeCents:   e.EntryFeeCents,
		Capacity:        e.Capacity,
		RegisteredCount: e.RegisteredCount,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if !e.Unlimited() {
		left := e.Capacity - e.RegisteredCount
		if left < 0 {
			left = 0
		}
		resp.SpotsLeft = &left
	}
	return resp
}

type storeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Website   string    `json:"website"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStoreResponse(s domain.Store) storeResponse {
	return storeResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		State:     s.State,
		Zip:       s.Zip,
		Website:   s.Website,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type registrationResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRegistrationResponse(r domain.Registration) registrationResponse {
	return registrationResponse{
		ID:          r.ID,
		EventID:     r.EventID,
		UserID:      r.UserID,
		DisplayName: r.DisplayName,
		CreatedAt:   r.CreatedAt,
	}
}
