package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feira/internal/logging"
	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/revocation"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields of a new vendor account.
type RegisterInput struct {
	Name      string
	Email     string
	Phone     string
	Password  string
	StoreName string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	Vendor      models.Vendor `json:"vendor"`
}

// TokenClaims is the validated content of an access token.
type TokenClaims struct {
	VendorID  string
	ID        string // jti
	ExpiresAt time.Time
}

// AuthService handles vendor accounts and access tokens.
type AuthService struct {
	vendorRepo repositories.VendorRepository
	revoked    revocation.Store
	jwtSecret  []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(vendorRepo repositories.VendorRepository, revoked revocation.Store, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		vendorRepo: vendorRepo,
		revoked:    revoked,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a vendor account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.StoreName = strings.TrimSpace(in.StoreName)
	if in.Email == "" || in.StoreName == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email, nome_loja and senha are required", ErrValidation)
	}

	if err := s.ensureFree(ctx, s.vendorRepo.GetByEmail, in.Email, "email %s already registered"); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.vendorRepo.GetByStoreName, in.StoreName, "store name %s already taken"); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	vendor := &models.Vendor{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashed,
		StoreName:    in.StoreName,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email or store name already registered", ErrConflict)
		}
		return nil, fmt.Errorf("failed to register vendor: %w", err)
	}

	logging.FromContext(ctx).Info("vendor registered", "vendor_id", vendor.ID, "nome_loja", vendor.StoreName)
	return s.signIn(vendor)
}

func (s *AuthService) ensureFree(ctx context.Context, lookup func(context.Context, string) (*models.Vendor, error), key, msg string) error {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return fmt.Errorf("%w: "+msg, ErrConflict, key)
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check vendor: %w", err)
	}
}

// Login authenticates a vendor. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	vendor, err := s.vendorRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	if !VerifyPassword(password, vendor.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	}
	return s.signIn(vendor)
}

func (s *AuthService) signIn(vendor *models.Vendor) (*AuthResult, error) {
	token, err := s.IssueToken(vendor.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, TokenType: "bearer", Vendor: *vendor}, nil
}

// IssueToken signs an HS256 token for vendorID valid for the configured TTL.
func (s *AuthService) IssueToken(vendorID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"vendor_id": vendorID,
		"jti":       uuid.New().String(),
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims if valid.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", ErrUnauthenticated, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	vendorID, _ := mc["vendor_id"].(string)
	jti, _ := mc["jti"].(string)
	exp, hasExp := mc["exp"].(float64)
	if vendorID == "" || jti == "" || !hasExp {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthenticated)
	}

	revoked, err := s.revoked.IsRevoked(ctx, jti)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	return &TokenClaims{
		VendorID:  vendorID,
		ID:        jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// ResolveVendor validates the token and loads the vendor it was issued to.
func (s *AuthService) ResolveVendor(ctx context.Context, tokenString string) (*models.Vendor, *TokenClaims, error) {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, nil, err
	}
	vendor, err := s.vendorRepo.GetByID(ctx, claims.VendorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: vendor not found", ErrUnauthenticated)
		}
		return nil, nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	return vendor, claims, nil
}

// Logout revokes the token described by claims until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *TokenClaims) error {
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	logging.FromContext(ctx).Info("vendor logged out", "vendor_id", claims.VendorID)
	return nil
}
