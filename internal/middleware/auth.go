package middleware

import (
	"context"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/jeetendra29gupta/pizza-order-api/internal/auth"
	apperrors "github.com/jeetendra29gupta/pizza-order-api/internal/errors"
	"github.com/jeetendra29gupta/pizza-order-api/internal/repository"
)

// identityContextKey is where the resolved identity is stored in the echo
// context.
const identityContextKey = "user"

// AuthMiddleware resolves the acting identity for protected routes. The
// staff flag is re-read from the user store on every request so that a
// change takes effect on the next token-bearing request; it is never trusted
// from the token.
type AuthMiddleware struct {
	codec    *auth.TokenCodec
	userRepo repository.UserRepository
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(codec *auth.TokenCodec, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		codec:    codec,
		userRepo: userRepo,
	}
}

// AuthenticateAccess verifies a raw access token and resolves the identity.
// Every failure mode (signature, expiry, malformed, wrong kind, unknown
// subject) collapses to ErrUnauthenticated.
func (m *AuthMiddleware) AuthenticateAccess(ctx context.Context, raw string) (*auth.Identity, error) {
	claims, err := m.codec.Verify(raw)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if claims.Kind != auth.KindAccess {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := m.userRepo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	return &auth.Identity{
		Username: user.Username,
		IsStaff:  user.IsStaff,
	}, nil
}

// Handler returns an echo middleware that authenticates the Bearer token and
// stores the resolved identity in the request context.
func (m *AuthMiddleware) Handler() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, rawToken string) (interface{}, error) {
			return m.AuthenticateAccess(c.Request().Context(), rawToken)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Verification internals are never leaked to the client.
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// IdentityFrom extracts the identity resolved by Handler from the echo
// context.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(*auth.Identity)
	if !ok || identity == nil {
		return auth.Identity{}, false
	}
	return *identity, true
}
