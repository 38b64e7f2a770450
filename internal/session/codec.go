package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "freightdash_session"

var ErrInvalidToken = errors.New("invalid session token")

// Codec carries State between requests as a signed JWT, either in a cookie
// (HTML pages) or in an Authorization: Bearer header (API clients).
type Codec struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithSecureCookie marks issued cookies Secure.
func (c *Codec) WithSecureCookie(secure bool) *Codec {
	c.secure = secure
	return c
}

func (c *Codec) Issue(st State) (string, error) {
	if !st.Authenticated {
		return "", fmt.Errorf("%w: anonymous state", ErrInvalidToken)
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    st.AccountID,
		"tenant": st.Tenant,
		"jti":    uuid.NewString(),
		"iat":    jwt.NewNumericDate(now),
		"exp":    jwt.NewNumericDate(now.Add(c.ttl)),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *Codec) Parse(tokenString string) (State, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return Anonymous(), fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Anonymous(), fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	account, _ := claims["sub"].(string)
	tenant, _ := claims["tenant"].(string)
	if account == "" || tenant == "" {
		return Anonymous(), fmt.Errorf("%w: missing subject or tenant", ErrInvalidToken)
	}
	return State{Authenticated: true, AccountID: account, Tenant: tenant}, nil
}

// FromRequest decodes the state of r. A missing or bad token yields Anonymous.
func (c *Codec) FromRequest(r *http.Request) State {
	tokenString := bearerToken(r)
	if tokenString == "" {
		if cookie, err := r.Cookie(CookieName); err == nil {
			tokenString = cookie.Value
		}
	}
	if tokenString == "" {
		return Anonymous()
	}
	st, err := c.Parse(tokenString)
	if err != nil {
		return Anonymous()
	}
	return st
}

// Save writes st as the session cookie; an anonymous state clears it.
func (c *Codec) Save(w http.ResponseWriter, st State) error {
	if !st.Authenticated {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	token, err := c.Issue(st)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
