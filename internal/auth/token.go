package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two token flavours issued by the codec. Access
// tokens authorize API calls; refresh tokens authorize only token renewal.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

var (
	// ErrMalformed is returned when a token cannot be parsed into the
	// expected claim shape.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature is returned when the token signature does not
	// verify against the configured key and algorithm.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired is returned when the token is past its expiry.
	ErrExpired = errors.New("token has expired")
)

// Claims represents the signed token payload.
type Claims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed, expiring tokens. It is stateless
// and context free; kind enforcement is a caller-level check so the same
// Verify serves both access and refresh flows.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec creates a codec for the given secret and HMAC algorithm
// (HS256, HS384 or HS512). Access and refresh TTLs are independent.
func NewTokenCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Issue produces a signed token for the subject with the TTL configured for
// the given kind.
func (c *TokenCodec) Issue(subject string, kind TokenKind) (string, error) {
	var ttl time.Duration
	switch kind {
	case KindAccess:
		ttl = c.accessTTL
	case KindRefresh:
		ttl = c.refreshTTL
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := time.Now()
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString(c.secret)
}

// Verify checks the signature and expiry of a token and returns its claims.
// It fails with ErrMalformed, ErrInvalidSignature or ErrExpired. A
// valid-but-wrong-kind token is not a codec failure; callers check Kind.
func (c *TokenCodec) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, mapValidationError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// mapValidationError converts jwt parse failures into the codec's typed
// errors.
func mapValidationError(err error) error {
	var verr *jwt.ValidationError
	if !errors.As(err, &verr) {
		return ErrMalformed
	}
	switch {
	case verr.Errors&jwt.ValidationErrorMalformed != 0:
		return ErrMalformed
	case verr.Errors&jwt.ValidationErrorSignatureInvalid != 0,
		verr.Errors&jwt.ValidationErrorUnverifiable != 0:
		return ErrInvalidSignature
	case verr.Errors&jwt.ValidationErrorExpired != 0:
		return ErrExpired
	default:
		return ErrMalformed
	}
}
