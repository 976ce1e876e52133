package app

import (
	"context"
	"strings"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/clock"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

type UserService struct {
	repo  UserRepository
	clock clock.Clock
}

func NewUserService(repo UserRepository, clk clock.Clock) *UserService {
	return &UserService{
		repo:  repo,
		clock: clk,
	}
}

// UserQuery selects one page of users.
type UserQuery struct {
	Filter UserFilter
	Sort   string
	Page   listing.Request
}

func (s *UserService) ListUsers(ctx context.Context, actor Actor, q UserQuery) (listing.Page[domain.User], error) {
	if err := requireAdmin(actor); err != nil {
		return listing.Page[domain.User]{}, err
	}
	if q.Filter.Role != "" && !q.Filter.Role.Valid() {
		return listing.Page[domain.User]{}, domain.ErrInvalidRole
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return listing.Page[domain.User]{}, err
	}
	return applyListing(users, q.Filter.predicate(), userSorter, q.Sort, q.Page)
}

func (s *UserService) GetUser(ctx context.Context, actor Actor, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrInvalidID
	}
	if err := requireSelfOrAdmin(actor, id); err != nil {
		return domain.User{}, err
	}
	return s.repo.GetUser(ctx, id)
}

type ProfileInput struct {
	DisplayName string `validate:"required,max=64"`
}

var profileRules = fieldRules{
	"DisplayName.required": domain.ErrDisplayNameRequired,
	"DisplayName.max":      domain.ErrDisplayNameTooLong,
}

func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, id string, in ProfileInput) (domain.User, error) {
	user, err := s.GetUser(ctx, actor, id)
	if err != nil {
		return domain.User{}, err
	}
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := check(in, profileRules); err != nil {
		return domain.User{}, err
	}

	user.DisplayName = in.DisplayName
	user.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// SetRole changes a user's role. Admins cannot change their own role;
// re-asserting it is a no-op.
func (s *UserService) SetRole(ctx context.Context, actor Actor, id string, role domain.Role) (domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.User{}, err
	}
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}
	if id == actor.ID && role != actor.Role {
		return domain.User{}, domain.ErrCannotDemoteSelf
	}
	user, err := s.GetUser(ctx, actor, id)
	if err != nil {
		return domain.User{}, err
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	user.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == "" {
		return domain.ErrInvalidID
	}
	if id == actor.ID {
		return domain.ErrCannotDeleteSelf
	}
	return s.repo.DeleteUser(ctx, id)
}
