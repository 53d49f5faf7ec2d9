package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/omerfaruksaribal/ShopKit/pkg/identity"
	"github.com/omerfaruksaribal/ShopKit/pkg/tokens"
)

const identityKey = "identity"

var ErrNoIdentity = errors.New("no identity in context")

// IdentityMiddleware trusts access tokens already issued by the auth service.
type IdentityMiddleware struct {
	JWTSecret []byte
}

func NewIdentityMiddleware(secret []byte) *IdentityMiddleware {
	return &IdentityMiddleware{JWTSecret: secret}
}

func (m *IdentityMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, "")
}

func (m *IdentityMiddleware) RequireCustomer(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, identity.RoleCustomer)
}

func (m *IdentityMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, identity.RoleSeller)
}

func (m *IdentityMiddleware) requireRole(next echo.HandlerFunc, role identity.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := accessToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		id, err := tokens.IdentityFromToken(raw, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		if role != "" && id.Role != role {
			return echo.NewHTTPError(http.StatusForbidden, strings.ToLower(string(role))+" access required")
		}

		c.Set(identityKey, id)
		return next(c)
	}
}

func accessToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if ck, err := c.Cookie("accessToken"); err == nil {
		return ck.Value
	}
	return ""
}

func IdentityFrom(c echo.Context) (identity.Identity, error) {
	id, ok := c.Get(identityKey).(identity.Identity)
	if !ok {
		return identity.Identity{}, ErrNoIdentity
	}
	return id, nil
}

func CustomerFrom(c echo.Context) (identity.Customer, error) {
	id, err := IdentityFrom(c)
	if err != nil {
		return identity.Customer{}, err
	}
	return id.Customer()
}

func SellerFrom(c echo.Context) (identity.Seller, error) {
	id, err := IdentityFrom(c)
	if err != nil {
		return identity.Seller{}, err
	}
	return id.Seller()
}
