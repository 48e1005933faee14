package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Principal is the authenticated caller, resolved from the access token and
// threaded explicitly into every handler. Token issuance lives elsewhere;
// this package only validates.
type Principal struct {
	UserID uint
	Role   string
}

const principalKey = "principal"

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func parsePrincipal(c echo.Context, secret []byte) (Principal, error) {
	raw := tokenFromRequest(c)
	if raw == "" {
		return Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	role, _ := claims["role"].(string)

	return Principal{UserID: uint(sub), Role: role}, nil
}

// RequireLogin resolves the principal and stores it on the request context.
func RequireLogin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := parsePrincipal(c, secret)
			if err != nil {
				return err
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// AdminOnly additionally requires the admin role.
func AdminOnly(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := parsePrincipal(c, secret)
			if err != nil {
				return err
			}
			if p.Role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

func FromContext(c echo.Context) (Principal, error) {
	p, ok := c.Get(principalKey).(Principal)
	if !ok {
		return Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "no principal")
	}
	return p, nil
}
