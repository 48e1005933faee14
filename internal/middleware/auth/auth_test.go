package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func sign(t *testing.T, claims jwt.MapClaims, key []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func userToken(t *testing.T, userID uint, role string) string {
	return sign(t, jwt.MapClaims{
		"sub":  float64(userID),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, secret)
}

func run(mw echo.MiddlewareFunc, decorate func(*http.Request)) (*httptest.ResponseRecorder, Principal, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var p Principal
	err := mw(func(c echo.Context) error {
		var err error
		p, err = FromContext(c)
		return err
	})(c)
	return rec, p, err
}

func TestRequireLoginWithBearerToken(t *testing.T) {
	token := userToken(t, 7, "user")
	_, p, err := run(RequireLogin(secret), func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	require.NoError(t, err)
	require.Equal(t, uint(7), p.UserID)
	require.Equal(t, "user", p.Role)
}

func TestRequireLoginWithCookie(t *testing.T) {
	token := userToken(t, 7, "user")
	_, p, err := run(RequireLogin(secret), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	})
	require.NoError(t, err)
	require.Equal(t, uint(7), p.UserID)
}

func TestRequireLoginMissingToken(t *testing.T) {
	_, _, err := run(RequireLogin(secret), nil)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLoginWrongSecret(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": float64(7), "role": "user"}, []byte("other"))
	_, _, err := run(RequireLogin(secret), func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLoginExpiredToken(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"sub":  float64(7),
		"role": "user",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}, secret)
	_, _, err := run(RequireLogin(secret), func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminOnly(t *testing.T) {
	_, _, err := run(AdminOnly(secret), func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+userToken(t, 7, "user"))
	})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)

	_, p, err := run(AdminOnly(secret), func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+userToken(t, 1, "admin"))
	})
	require.NoError(t, err)
	require.Equal(t, "admin", p.Role)
}
