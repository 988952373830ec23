package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodPost, "/register", url.Values{
		"username": {"ann"},
		"password": {"hunter2"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[AuthStatus](t, rec)
	assert.True(t, status.LoggedIn)
	require.NotNil(t, status.Player)
	assert.Equal(t, "ann", status.Player.Username)

	auth := cookieNamed(rec.Result().Cookies(), "auth")
	sign := cookieNamed(rec.Result().Cookies(), "sign")
	require.NotNil(t, auth)
	require.NotNil(t, sign)
	assert.False(t, auth.HttpOnly)
	assert.True(t, sign.HttpOnly)
	assert.Equal(t, 1, strings.Count(auth.Value, "."))

	rec = e.do(http.MethodPost, "/register", url.Values{
		"username": {"ann"},
		"password": {"other"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrUsernameTaken.Error())
}

func TestRegisterBadBody(t *testing.T) {
	e := newTestEnv(t)

	cases := map[string]url.Values{
		"empty":         {},
		"no password":   {"username": {"ann"}},
		"long name":     {"username": {strings.Repeat("a", maxUsernameLength+1)}, "password": {"x"}},
		"long password": {"username": {"ann"}, "password": {strings.Repeat("p", 73)}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			rec := e.do(http.MethodPost, "/register", form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	e.register("ann", "hunter2")

	rec := e.do(http.MethodPost, "/login", url.Values{
		"username": {"ann"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodPost, "/login", url.Values{
		"username": {"bob"},
		"password": {"hunter2"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodPost, "/login", url.Values{
		"username": {"ann"},
		"password": {"hunter2"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	assert.NotNil(t, cookieNamed(cookies, "auth"))

	rec = e.do(http.MethodGet, "/auth/status", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[AuthStatus](t, rec)
	assert.True(t, status.LoggedIn)
	assert.Equal(t, "ann", status.Player.Username)
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register("ann", "hunter2")

	rec := e.do(http.MethodPost, "/logout", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[AuthStatus](t, rec).LoggedIn)
	for _, c := range rec.Result().Cookies() {
		assert.Negative(t, c.MaxAge, c.Name)
	}

	rec = e.do(http.MethodGet, "/auth/status", nil)
	status := decode[AuthStatus](t, rec)
	assert.False(t, status.LoggedIn)
	assert.Nil(t, status.Player)
}
