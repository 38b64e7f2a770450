package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBad = errors.New("bad credentials")

type staticAuth map[string][2]string

func (a staticAuth) Authenticate(id, secret string) (string, error) {
	entry, ok := a[id]
	if !ok || entry[0] != secret {
		return "", errBad
	}
	return entry[1], nil
}

func TestLoginLogout(t *testing.T) {
	auth := staticAuth{"biyork@client.com": {"demo123", "Biyork"}}

	st, err := Login(Anonymous(), auth, "biyork@client.com", "demo123")
	require.NoError(t, err)
	assert.Equal(t, State{Authenticated: true, AccountID: "biyork@client.com", Tenant: "Biyork"}, st)

	failed, err := Login(Anonymous(), auth, "biyork@client.com", "nope")
	require.ErrorIs(t, err, errBad)
	assert.Equal(t, Anonymous(), failed)

	assert.Equal(t, Anonymous(), Logout(st))
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	st := State{Authenticated: true, AccountID: "aspen@client.com", Tenant: "Aspen Clean"}

	token, err := codec.Issue(st)
	require.NoError(t, err)

	got, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestCodec_Rejects(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	st := State{Authenticated: true, AccountID: "aspen@client.com", Tenant: "Aspen Clean"}

	other, err := NewCodec("other-secret", time.Hour).Issue(st)
	require.NoError(t, err)
	_, err = codec.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	stale := NewCodec("secret", time.Hour)
	stale.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := stale.Issue(st)
	require.NoError(t, err)
	_, err = codec.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Issue(Anonymous())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_CookieAndBearer(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	st := State{Authenticated: true, AccountID: "santova@client.com", Tenant: "Santova Logistics"}

	rec := httptest.NewRecorder()
	require.NoError(t, codec.Save(rec, st))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, st, codec.FromRequest(req))

	token, err := codec.Issue(st)
	require.NoError(t, err)
	api := httptest.NewRequest(http.MethodGet, "/api/user/orders", nil)
	api.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, st, codec.FromRequest(api))

	api.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, Anonymous(), codec.FromRequest(api))

	assert.Equal(t, Anonymous(), codec.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestCodec_SaveAnonymousClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewCodec("secret", time.Hour).Save(rec, Anonymous()))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
