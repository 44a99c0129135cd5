package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/log"
	"github.com/suPer8Hu/godchat/internal/session"
	"github.com/suPer8Hu/godchat/internal/users"
)

var (
	ErrMissingFields      = fmt.Errorf("%w: email and password required", common.ErrValidation)
	ErrInvalidCredentials = common.ErrInvalidCredentials
)

type UserRepo interface {
	Create(ctx context.Context, email, passwordHash string) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id uint64) (*users.User, error)
}

type Options struct {
	Secret string
	TTL    time.Duration
	// HashCost <= 0 uses bcrypt.DefaultCost.
	HashCost int
}

// Session is an opened login. Token goes into the client cookie.
type Session struct {
	Token     string
	ID        string
	UserID    uint64
	Email     string
	ExpiresAt time.Time
}

type Service struct {
	users UserRepo
	store session.Store
	opts  Options
}

func NewService(users UserRepo, store session.Store, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &Service{users: users, store: store, opts: opts}
}

func (s *Service) TTL() time.Duration { return s.opts.TTL }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	l := log.Ctx(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, users.ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password, s.opts.HashCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	u, err := s.users.Create(ctx, email, hash)
	if err != nil {
		// a concurrent registration can still win the unique index
		if !errors.Is(err, users.ErrEmailTaken) {
			l.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	l.Info().Uint64(log.FieldUserID, u.ID).Msg("user registered")
	return s.open(ctx, u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.open(ctx, u)
}

// Logout removes the session behind token. Empty or forged tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := parseIgnoringExpiry(token, s.opts.Secret)
	if err != nil {
		return nil
	}
	return s.store.Delete(ctx, claims.SessionID)
}

// CurrentUser resolves token to a user. It returns (nil, nil) whenever there
// is no valid session or the user row is gone; only storage failures error.
func (s *Service) CurrentUser(ctx context.Context, token string) (*users.User, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := ParseSessionToken(token, s.opts.Secret)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("rejected session token")
		return nil, nil
	}

	data, err := s.store.Load(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	u, err := s.users.FindByID(ctx, data.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) open(ctx context.Context, u *users.User) (*Session, error) {
	sid, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sid, session.Data{UserID: u.ID, Email: u.Email}, s.opts.TTL); err != nil {
		return nil, err
	}
	token, err := SignSessionToken(sid, s.opts.Secret, s.opts.TTL)
	if err != nil {
		_ = s.store.Delete(ctx, sid)
		return nil, err
	}
	return &Session{
		Token:     token,
		ID:        sid,
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: time.Now().Add(s.opts.TTL),
	}, nil
}
