package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"freightdash/internal/metrics"
	"freightdash/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateAccount   = errors.New("duplicate account")
)

// AuthService is the credential directory: a fixed account table built at
// startup.
type AuthService struct {
	accounts map[string]model.Account
}

func NewAuthService(accounts []model.Account) (*AuthService, error) {
	m := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		if _, dup := m[a.AccountID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, a.AccountID)
		}
		m[a.AccountID] = a
	}
	return &AuthService{accounts: m}, nil
}

// Authenticate returns the tenant of accountID when secret matches. Unknown
// accounts and wrong secrets fail with the same error.
func (s *AuthService) Authenticate(accountID, secret string) (string, error) {
	account, ok := s.accounts[accountID]
	if !ok || !secretMatches(account.Secret, secret) {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return "", ErrInvalidCredentials
	}
	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	return account.Tenant, nil
}

func (s *AuthService) Len() int { return len(s.accounts) }

// secretMatches compares plaintext secrets exactly; stored bcrypt hashes are
// checked with bcrypt.
func secretMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
