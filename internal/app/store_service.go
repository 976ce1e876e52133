package app

import (
	"context"
	"strings"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/clock"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
)

type StoreRepository interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	GetStore(ctx context.Context, id string) (domain.Store, error)
	CreateStore(ctx context.Context, store domain.Store) error
	UpdateStore(ctx context.Context, store domain.Store) error
	DeleteStore(ctx context.Context, id string) error
}

type StoreService struct {
	repo  StoreRepository
	clock clock.Clock
}

func NewStoreService(repo StoreRepository, clk clock.Clock) *StoreService {
	return &StoreService{
		repo:  repo,
		clock: clk,
	}
}

// StoreInput is the editable part of a store.
type StoreInput struct {
	Name    string `validate:"required,max=120"`
	Address string `validate:"max=200"`
	City    string `validate:"required,max=80"`
	State   string `validate:"len=2,alpha"`
	Zip     string `validate:"omitempty,len=5,numeric"`
	Website string `validate:"omitempty,max=300,http_url"`
	Phone   string `validate:"max=32"`
}

var storeRules = fieldRules{
	"Name.required":    domain.ErrStoreNameRequired,
	"Name.max":         domain.ErrStoreNameTooLong,
	"City.required":    domain.ErrStoreCityRequired,
	"State.len":        domain.ErrInvalidState,
	"State.alpha":      domain.ErrInvalidState,
	"Zip.len":          domain.ErrInvalidZip,
	"Zip.numeric":      domain.ErrInvalidZip,
	"Website.max":      domain.ErrInvalidWebsite,
	"Website.http_url": domain.ErrInvalidWebsite,
}

func (in StoreInput) normalize() StoreInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.ToUpper(strings.TrimSpace(in.State))
	in.Zip = strings.TrimSpace(in.Zip)
	in.Website = strings.TrimSpace(in.Website)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// StoreQuery selects one page of stores.
type StoreQuery struct {
	Filter StoreFilter
	Sort   string
	Page   listing.Request
}

func (s *StoreService) ListStores(ctx context.Context, q StoreQuery) (listing.Page[domain.Store], error) {
	stores, err := s.repo.ListStores(ctx)
	if err != nil {
		return listing.Page[domain.Store]{}, err
	}
	return applyListing(stores, q.Filter.predicate(), storeSorter, q.Sort, q.Page)
}

func (s *StoreService) GetStore(ctx context.Context, id string) (domain.Store, error) {
	if id == "" {
		return domain.Store{}, domain.ErrInvalidID
	}
	return s.repo.GetStore(ctx, id)
}

func (s *StoreService) CreateStore(ctx context.Context, actor Actor, in StoreInput) (domain.Store, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Store{}, err
	}
	in = in.normalize()
	if err := check(in, storeRules); err != nil {
		return domain.Store{}, err
	}

	now := s.clock.Now()
	store := domain.Store{
		ID:        newID(),
		Name:      in.Name,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Zip:       in.Zip,
		Website:   in.Website,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateStore(ctx, store); err != nil {
		return domain.Store{}, err
	}
	return store, nil
}

func (s *StoreService) UpdateStore(ctx context.Context, actor Actor, id string, in StoreInput) (domain.Store, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Store{}, err
	}
	existing, err := s.GetStore(ctx, id)
	if err != nil {
		return domain.Store{}, err
	}
	in = in.normalize()
	if err := check(in, storeRules); err != nil {
		return domain.Store{}, err
	}

	existing.Name = in.Name
	existing.Address = in.Address
	existing.City = in.City
	existing.State = in.State
	existing.Zip = in.Zip
	existing.Website = in.Website
	existing.Phone = in.Phone
	existing.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateStore(ctx, existing); err != nil {
		return domain.Store{}, err
	}
	return existing, nil
}

func (s *StoreService) DeleteStore(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteStore(ctx, id)
}
