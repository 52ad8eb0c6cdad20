package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Marga-Ghale/charge-tracker/internal/config"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

// Identity is what a directory (LDAP) or an IdP assertion (SAML) says about a user.
type Identity struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// Authenticator verifies a username/password pair. It returns
// ErrInvalidCredentials when the directory rejects them.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*Identity, error)
}

type AuthService interface {
	// Login authenticates against the directory, creating the user on first login.
	Login(ctx context.Context, username, password string) (*repository.User, string, error)
	// LoginFromAssertion signs in a user vouched for by the SAML IdP.
	LoginFromAssertion(ctx context.Context, id Identity) (*repository.User, string, error)
	// ResolveToken maps a bearer token to its user.
	ResolveToken(ctx context.Context, token string) (*repository.User, error)
	ValidateToken(token string) (*jwt.Token, error)
	GetUserIDFromToken(token *jwt.Token) (string, error)
	GenerateToken(userID string) (string, error)
}

type authService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	authn    Authenticator
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, authn Authenticator) AuthService {
	return &authService{cfg: cfg, userRepo: userRepo, authn: authn}
}

func (s *authService) Login(ctx context.Context, username, password string) (*repository.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || s.authn == nil {
		return nil, "", ErrInvalidCredentials
	}

	id, err := s.authn.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("directory lookup: %w", err)
	}
	return s.signIn(ctx, *id)
}

func (s *authService) LoginFromAssertion(ctx context.Context, id Identity) (*repository.User, string, error) {
	if strings.TrimSpace(id.Username) == "" {
		return nil, "", ErrInvalidCredentials
	}
	return s.signIn(ctx, id)
}

func (s *authService) signIn(ctx context.Context, id Identity) (*repository.User, string, error) {
	user, err := s.userRepo.FindByID(ctx, id.Username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		user = &repository.User{
			ID:        id.Username,
			FirstName: id.FirstName,
			LastName:  id.LastName,
			Email:     id.Email,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return nil, "", fmt.Errorf("failed to create user: %w", err)
			}
			// Created concurrently by another login.
			if user, err = s.userRepo.FindByID(ctx, id.Username); err != nil || user == nil {
				return nil, "", fmt.Errorf("failed to load user: %w", err)
			}
		}
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) ResolveToken(ctx context.Context, tokenString string) (*repository.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := s.GetUserIDFromToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

func (s *authService) GetUserIDFromToken(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (s *authService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(time.Hour * time.Duration(s.cfg.JWTExpiry)).Unix(),
		"iat": now.Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
