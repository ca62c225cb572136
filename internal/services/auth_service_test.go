package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/revocation"
	"feira/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testJWTSecret = []byte("test_jwt_secret")

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockVendorRepository)
	authService := services.NewAuthService(mockRepo, revocation.NewMemoryStore(), testJWTSecret, time.Hour)

	in := services.RegisterInput{
		Name:      "Maria",
		Email:     "maria@feira.com",
		Phone:     "11999990000",
		Password:  "password123",
		StoreName: "banca-da-maria",
	}

	mockRepo.On("GetByEmail", ctx, in.Email).Return(nil, notFound(in.Email)).Once()
	mockRepo.On("GetByStoreName", ctx, in.StoreName).Return(nil, notFound(in.StoreName)).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(v *models.Vendor) bool {
		return v.Email == in.Email && v.PasswordHash != in.Password && services.VerifyPassword(in.Password, v.PasswordHash)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Vendor).ID = "vendor-1"
	}).Return(nil).Once()

	res, err := authService.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, "vendor-1", res.Vendor.ID)
	assert.NotEmpty(t, res.AccessToken)
	mockRepo.AssertExpectations(t)

	claims, err := authService.ValidateToken(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", claims.VendorID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockVendorRepository)
	authService := services.NewAuthService(mockRepo, revocation.NewMemoryStore(), testJWTSecret, time.Hour)

	mockRepo.On("GetByEmail", ctx, "taken@feira.com").Return(&models.Vendor{ID: "v"}, nil).Once()

	_, err := authService.Register(ctx, services.RegisterInput{Email: "taken@feira.com", Password: "x", StoreName: "s"})
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateStoreName(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockVendorRepository)
	authService := services.NewAuthService(mockRepo, revocation.NewMemoryStore(), testJWTSecret, time.Hour)

	mockRepo.On("GetByEmail", ctx, "new@feira.com").Return(nil, notFound("new@feira.com")).Once()
	mockRepo.On("GetByStoreName", ctx, "banca").Return(&models.Vendor{ID: "v"}, nil).Once()

	_, err := authService.Register(ctx, services.RegisterInput{Email: "new@feira.com", Password: "x", StoreName: "banca"})
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Contains(t, err.Error(), "already taken")
}

func TestAuthService_Register_RaceOnCreate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockVendorRepository)
	authService := services.NewAuthService(mockRepo, revocation.NewMemoryStore(), testJWTSecret, time.Hour)

	mockRepo.On("GetByEmail", ctx, "a@b.c").Return(nil, notFound("a@b.c")).Once()
	mockRepo.On("GetByStoreName", ctx, "s").Return(nil, notFound("s")).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("vendor a@b.c: %w", repositories.ErrDuplicate)).Once()

	_, err := authService.Register(ctx, services.RegisterInput{Email: "a@b.c", Password: "x", StoreName: "s"})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockVendorRepository)
	authService := services.NewAuthService(mockRepo, revocation.NewMemoryStore(), testJWTSecret, time.Hour)

	hash, err := services.HashPassword("password123")
	require.NoError(t, err)
	vendor := &models.Vendor{ID: "vendor-1", Email: "maria@feira.com", PasswordHash: hash}

	// Successful login
	mockRepo.On("GetByEmail", ctx, "maria@feira.com").Return(vendor, nil)
	res, err := authService.Login(ctx, "maria@feira.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	// Wrong password and unknown email fail with the same error
	_, errWrongPassword := authService.Login(ctx, "maria@feira.com", "wrong")
	mockRepo.On("GetByEmail", ctx, "ghost@feira.com").Return(nil, notFound("ghost@feira.com"))
	_, errUnknownEmail := authService.Login(ctx, "ghost@feira.com", "password123")

	assert.ErrorIs(t, errWrongPassword, services.ErrUnauthenticated)
	assert.ErrorIs(t, errUnknownEmail, services.ErrUnauthenticated)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()
	authService := services.NewAuthService(new(MockVendorRepository), revocation.NewMemoryStore(), testJWTSecret, time.Hour)

	token, err := authService.IssueToken("vendor-1")
	require.NoError(t, err)

	claims, err := authService.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", claims.VendorID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)

	t.Run("malformed", func(t *testing.T) {
		_, err := authService.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := services.NewAuthService(new(MockVendorRepository), revocation.NewMemoryStore(), []byte("other"), time.Hour)
		forged, err := other.IssueToken("vendor-1")
		require.NoError(t, err)
		_, err = authService.ValidateToken(ctx, forged)
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"vendor_id": "vendor-1",
			"jti":       "j",
			"iat":       time.Now().Add(-2 * time.Hour).Unix(),
			"exp":       time.Now().Add(-time.Hour).Unix(),
		})
		s, err := expired.SignedString(testJWTSecret)
		require.NoError(t, err)
		_, err = authService.ValidateToken(ctx, s)
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"vendor_id": "vendor-1",
			"jti":       "j",
			"exp":       time.Now().Add(time.Hour).Unix(),
		})
		s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = authService.ValidateToken(ctx, s)
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("missing vendor claim", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"jti": "j",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		s, err := tok.SignedString(testJWTSecret)
		require.NoError(t, err)
		_, err = authService.ValidateToken(ctx, s)
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})
}

func TestAuthService_ResolveVendorAndLogout(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockVendorRepository)
	authService := services.NewAuthService(mockRepo, revocation.NewMemoryStore(), testJWTSecret, time.Hour)

	token, err := authService.IssueToken("vendor-1")
	require.NoError(t, err)

	mockRepo.On("GetByID", ctx, "vendor-1").Return(&models.Vendor{ID: "vendor-1"}, nil).Once()
	vendor, claims, err := authService.ResolveVendor(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", vendor.ID)

	require.NoError(t, authService.Logout(ctx, claims))
	_, _, err = authService.ResolveVendor(ctx, token)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "revoked")

	// Token for a vendor that no longer exists
	orphan, err := authService.IssueToken("vendor-gone")
	require.NoError(t, err)
	mockRepo.On("GetByID", ctx, "vendor-gone").Return(nil, notFound("vendor-gone")).Once()
	_, _, err = authService.ResolveVendor(ctx, orphan)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "vendor not found")
	mockRepo.AssertExpectations(t)
}
