package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jeetendra29gupta/pizza-order-api/internal/auth"
	apperrors "github.com/jeetendra29gupta/pizza-order-api/internal/errors"
	"github.com/jeetendra29gupta/pizza-order-api/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec("test-secret", "HS256", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return codec
}

func TestAuthMiddleware_AuthenticateAccess(t *testing.T) {
	codec := newTestCodec(t)

	accessToken, err := codec.Issue("alice", auth.KindAccess)
	require.NoError(t, err)
	refreshToken, err := codec.Issue("alice", auth.KindRefresh)
	require.NoError(t, err)
	orphanToken, err := codec.Issue("ghost", auth.KindAccess)
	require.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		setupMock    func(*MockUserRepository)
		wantIdentity *auth.Identity
	}{
		{
			name:  "valid access token",
			token: accessToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					Username: "alice",
					IsStaff:  false,
				}, nil)
			},
			wantIdentity: &auth.Identity{Username: "alice", IsStaff: false},
		},
		{
			name:  "staff flag re-resolved from store",
			token: accessToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					Username: "alice",
					IsStaff:  true,
				}, nil)
			},
			wantIdentity: &auth.Identity{Username: "alice", IsStaff: true},
		},
		{
			name:         "refresh token rejected",
			token:        refreshToken,
			setupMock:    func(m *MockUserRepository) {},
			wantIdentity: nil,
		},
		{
			name:         "garbage token rejected",
			token:        "not-a-token",
			setupMock:    func(m *MockUserRepository) {},
			wantIdentity: nil,
		},
		{
			name:  "subject no longer exists",
			token: orphanToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			wantIdentity: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			m := NewAuthMiddleware(codec, mockRepo)
			identity, err := m.AuthenticateAccess(context.Background(), tt.token)

			if tt.wantIdentity == nil {
				assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
				assert.Nil(t, identity)
			} else {
				require.NoError(t, err)
				assert.Equal(t, *tt.wantIdentity, *identity)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthMiddleware_Handler(t *testing.T) {
	codec := newTestCodec(t)

	accessToken, err := codec.Issue("alice", auth.KindAccess)
	require.NoError(t, err)
	refreshToken, err := codec.Issue("alice", auth.KindRefresh)
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
		Username: "alice",
		IsStaff:  false,
	}, nil)

	m := NewAuthMiddleware(codec, mockRepo)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "identity missing")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"username": identity.Username,
			"is_staff": identity.IsStaff,
		})
	}, m.Handler())

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid access token", authHeader: "Bearer " + accessToken, wantStatus: http.StatusOK},
		{name: "refresh token rejected", authHeader: "Bearer " + refreshToken, wantStatus: http.StatusUnauthorized},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"username":"alice"`)
			}
		})
	}
}
