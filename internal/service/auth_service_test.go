package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentmarket/internal/config"
	"rentmarket/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshToken, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret",
		AccessTokenDuration:  2 * time.Hour,
		RefreshTokenDuration: 168 * time.Hour,
	}
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Username:    "budi",
		FullName:    "Budi Santoso",
		Email:       "budi@example.com",
		Password:    "secret123",
		PhoneNumber: "081234567890",
		UserType:    "personal",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешная регистрация выдает рабочую пару токенов", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, authTestConfig())

		repo.On("GetUserByUsername", ctx, "budi").Return(nil, models.ErrNotFound)
		repo.On("GetUserByEmail", ctx, "budi@example.com").Return(nil, models.ErrNotFound)
		repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User"), "secret123").
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).UserID = "u-1"
			}).
			Return(nil)

		user, accessToken, refreshToken, err := svc.Register(ctx, registerRequest())

		require.NoError(t, err)
		assert.Equal(t, "u-1", user.UserID)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, refreshToken, user.RefreshToken)

		// access token подписан нашим секретом и несет идентичность
		token, err := svc.ValidateToken(accessToken)
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "u-1", claims["userId"])
		assert.Equal(t, "budi@example.com", claims["email"])
		assert.Equal(t, "budi", claims["username"])
	})

	t.Run("Занятый username дает ErrAuth с кодом", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, authTestConfig())

		repo.On("GetUserByUsername", ctx, "budi").Return(&models.User{UserID: "u-0"}, nil)

		_, _, _, err := svc.Register(ctx, registerRequest())

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrAuth)
		assert.Contains(t, err.Error(), CodeUsernameAlreadyInUse)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Занятый email дает ErrAuth с кодом", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, authTestConfig())

		repo.On("GetUserByUsername", ctx, "budi").Return(nil, models.ErrNotFound)
		repo.On("GetUserByEmail", ctx, "budi@example.com").Return(&models.User{UserID: "u-0"}, nil)

		_, _, _, err := svc.Register(ctx, registerRequest())

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrAuth)
		assert.Contains(t, err.Error(), CodeEmailAlreadyInUse)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешный вход обновляет refresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, authTestConfig())

		user := &models.User{UserID: "u-1", Username: "budi", Email: "budi@example.com"}
		repo.On("VerifyPassword", ctx, "budi@example.com", "secret123").Return(user, nil)
		repo.On("UpdateRefreshToken", ctx, "u-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil)

		_, accessToken, refreshToken, err := svc.Login(ctx, "budi@example.com", "secret123")

		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		repo.AssertExpectations(t)
	})

	t.Run("Неверный пароль и неизвестный email дают один и тот же код", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, authTestConfig())

		repo.On("VerifyPassword", ctx, "budi@example.com", "wrong").Return(nil, models.ErrAuth)
		repo.On("VerifyPassword", ctx, "nobody@example.com", "secret123").Return(nil, models.ErrNotFound)

		_, _, _, errWrongPassword := svc.Login(ctx, "budi@example.com", "wrong")
		_, _, _, errUnknownEmail := svc.Login(ctx, "nobody@example.com", "secret123")

		assert.ErrorIs(t, errWrongPassword, models.ErrAuth)
		assert.ErrorIs(t, errUnknownEmail, models.ErrAuth)
		assert.Contains(t, errWrongPassword.Error(), CodeInvalidCredential)
		assert.Contains(t, errUnknownEmail.Error(), CodeInvalidCredential)
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("Токен ротируется при каждом обновлении", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, authTestConfig())

		user := &models.User{UserID: "u-1", Username: "budi", Email: "budi@example.com"}
		repo.On("GetUserByRefreshToken", ctx, "old-token").Return(user, nil)

		var rotated string
		repo.On("UpdateRefreshToken", ctx, "u-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) { rotated = args.String(2) }).
			Return(nil)

		_, _, newRefreshToken, err := svc.RefreshTokens(ctx, "old-token")

		require.NoError(t, err)
		assert.NotEqual(t, "old-token", newRefreshToken)
		assert.Equal(t, rotated, newRefreshToken)
	})

	t.Run("Просроченный токен отклоняется", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, authTestConfig())

		repo.On("GetUserByRefreshToken", ctx, "stale").Return(nil, models.ErrAuth)

		_, _, _, err := svc.RefreshTokens(ctx, "stale")

		assert.ErrorIs(t, err, models.ErrAuth)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	t.Run("Чужая подпись отклоняется", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), authTestConfig())

		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "u-1",
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		signed, err := foreign.SignedString([]byte("another-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)

		assert.ErrorIs(t, err, models.ErrAuth)
	})

	t.Run("Просроченный токен отклоняется", func(t *testing.T) {
		cfg := authTestConfig()
		svc := NewAuthService(new(MockUserRepository), cfg)

		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "u-1",
			"exp":    time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := expired.SignedString([]byte(cfg.JWTSecretKey))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)

		assert.ErrorIs(t, err, models.ErrAuth)
	})
}
