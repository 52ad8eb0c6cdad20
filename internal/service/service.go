package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Marga-Ghale/charge-tracker/internal/config"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")

	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrCommitteeNotFound    = fmt.Errorf("committee %w", ErrNotFound)
	ErrChargeNotFound       = fmt.Errorf("charge %w", ErrNotFound)
	ErrActionNotFound       = fmt.Errorf("action %w", ErrNotFound)
	ErrNoteNotFound         = fmt.Errorf("note %w", ErrNotFound)
	ErrMinuteNotFound       = fmt.Errorf("minute %w", ErrNotFound)
	ErrInvitationNotFound   = fmt.Errorf("invitation %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrNotMember            = fmt.Errorf("membership %w", ErrNotFound)

	ErrInvalidTitle    = fmt.Errorf("title: %w", ErrInvalidInput)
	ErrInvalidPriority = fmt.Errorf("priority: %w", ErrInvalidInput)
	ErrInvalidStatus   = fmt.Errorf("status: %w", ErrInvalidInput)
	ErrInvalidRole     = fmt.Errorf("role: %w", ErrInvalidInput)
	ErrHeadRemoval     = fmt.Errorf("committee head cannot be removed: %w", ErrInvalidInput)

	ErrCommitteeExists = fmt.Errorf("committee: %w", ErrConflict)
	ErrAlreadyMember   = fmt.Errorf("membership: %w", ErrConflict)
	ErrInviteExists    = fmt.Errorf("invitation: %w", ErrConflict)
	ErrRequestExists   = fmt.Errorf("join request: %w", ErrConflict)

	ErrInviteFailed  = errors.New("invitation could not be created")
	ErrRequestFailed = errors.New("join request could not be created")
)

// Cache is the read-through cache for hot lists. *db.RedisDB satisfies it.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateCache(ctx context.Context, pattern string) error
}

const (
	CacheKeyCommittees    = "committees"
	CacheKeyPublicCharges = "charges:public"
	cacheTTL              = 5 * time.Minute
)

type noCache struct{}

func (noCache) GetCache(context.Context, string, interface{}) error {
	return errors.New("cache disabled")
}
func (noCache) SetCache(context.Context, string, interface{}, time.Duration) error { return nil }
func (noCache) InvalidateCache(context.Context, string) error                      { return nil }

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth          AuthService
	User          UserService
	Permission    PermissionService
	Committee     CommitteeService
	Member        MemberService
	Charge        ChargeService
	Action        ActionService
	Note          NoteService
	CommitteeNote CommitteeNoteService
	Minute        MinuteService
	Invitation    InvitationService
	Notification  NotificationService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config        *config.Config
	Repos         *repository.Repositories
	Authenticator Authenticator
	Cache         Cache // optional
}

func NewServices(deps *ServiceDeps) *Services {
	cache := deps.Cache
	if cache == nil {
		cache = noCache{}
	}
	repos := deps.Repos
	perms := NewPermissionService(repos.MemberRepo)

	return &Services{
		Auth:          NewAuthService(deps.Config, repos.UserRepo, deps.Authenticator),
		User:          NewUserService(repos.UserRepo),
		Permission:    perms,
		Committee:     NewCommitteeService(repos.CommitteeRepo, repos.UserRepo, perms, cache),
		Member:        NewMemberService(repos.CommitteeRepo, repos.MemberRepo, repos.UserRepo, repos.InvitationRepo, perms),
		Charge:        NewChargeService(repos.ChargeRepo, repos.CommitteeRepo, perms, cache),
		Action:        NewActionService(repos.ActionRepo, repos.ChargeRepo, repos.CommitteeRepo, repos.UserRepo, perms),
		Note:          NewNoteService(repos.NoteRepo, repos.ActionRepo, repos.ChargeRepo, repos.CommitteeRepo, perms),
		CommitteeNote: NewCommitteeNoteService(repos.CommitteeNoteRepo, repos.CommitteeRepo, perms),
		Minute:        NewMinuteService(repos.MinuteRepo, repos.CommitteeRepo, repos.ChargeRepo, perms),
		Invitation:    NewInvitationService(repos.InvitationRepo, repos.CommitteeRepo, repos.MemberRepo, repos.UserRepo, perms),
		Notification:  NewNotificationService(repos.NotificationRepo),
	}
}

// committeeAccess loads a committee and the caller's standing in it.
func committeeAccess(ctx context.Context, committees repository.CommitteeRepository, perms PermissionService,
	user *repository.User, committeeID string) (*repository.Committee, Access, error) {
	committee, err := committees.FindByID(ctx, committeeID)
	if err != nil {
		return nil, Access{}, err
	}
	if committee == nil {
		return nil, Access{}, ErrCommitteeNotFound
	}
	access, err := perms.Resolve(ctx, user, committee)
	if err != nil {
		return nil, Access{}, err
	}
	return committee, access, nil
}
