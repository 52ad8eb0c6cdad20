package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"regexp"

	"github.com/go-ldap/ldap/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// LDAPAuthenticator binds as uid=<username>,<BaseDN> and reads the user's
// profile attributes from the same entry.
type LDAPAuthenticator struct {
	URL        string
	BaseDN     string
	SkipVerify bool
}

func NewLDAPAuthenticator(url, baseDN string) *LDAPAuthenticator {
	return &LDAPAuthenticator{URL: url, BaseDN: baseDN}
}

func (a *LDAPAuthenticator) connect() (*ldap.Conn, error) {
	conn, err := ldap.DialURL(a.URL, ldap.DialWithTLSConfig(&tls.Config{InsecureSkipVerify: a.SkipVerify}))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}
	return conn, nil
}

func (a *LDAPAuthenticator) Authenticate(_ context.Context, username, password string) (*Identity, error) {
	if !usernamePattern.MatchString(username) || password == "" {
		return nil, ErrInvalidCredentials
	}

	conn, err := a.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	userDN := fmt.Sprintf("uid=%s,%s", username, a.BaseDN)
	if err := conn.Bind(userDN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("bind failed: %w", err)
	}

	req := ldap.NewSearchRequest(
		userDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		fmt.Sprintf("(uid=%s)", ldap.EscapeFilter(username)),
		[]string{"uid", "givenName", "sn", "mail"},
		nil,
	)
	result, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search user: %w", err)
	}
	if len(result.Entries) == 0 {
		return nil, ErrInvalidCredentials
	}

	entry := result.Entries[0]
	id := &Identity{
		Username:  firstNonEmpty(entry.GetAttributeValue("uid"), username),
		FirstName: entry.GetAttributeValue("givenName"),
		LastName:  entry.GetAttributeValue("sn"),
		Email:     entry.GetAttributeValue("mail"),
	}
	return id, nil
}

// LocalAuthenticator checks bcrypt hashes stored on seeded users. It exists
// for development environments without a directory.
type LocalAuthenticator struct {
	userRepo repository.UserRepository
}

func NewLocalAuthenticator(userRepo repository.UserRepository) *LocalAuthenticator {
	return &LocalAuthenticator{userRepo: userRepo}
}

func (a *LocalAuthenticator) Authenticate(ctx context.Context, username, password string) (*Identity, error) {
	user, err := a.userRepo.FindByID(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{
		Username:  user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
