package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	pkgauth "github.com/evjoints/admin-backend/pkg/auth"
	"github.com/evjoints/admin-backend/pkg/config"
	"github.com/evjoints/admin-backend/pkg/db/models"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// mapOTPStore is an in-memory stand-in for the Redis store.
type mapOTPStore struct {
	codes map[string]string
}

func newMapOTPStore() *mapOTPStore {
	return &mapOTPStore{codes: make(map[string]string)}
}

func (s *mapOTPStore) Save(_ context.Context, mobile, code string) error {
	s.codes[mobile] = code
	return nil
}

func (s *mapOTPStore) Get(_ context.Context, mobile string) (string, error) {
	code, ok := s.codes[mobile]
	if !ok {
		return "", ErrOTPNotFound
	}
	return code, nil
}

func (s *mapOTPStore) Delete(_ context.Context, mobile string) error {
	delete(s.codes, mobile)
	return nil
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`
CREATE TABLE IF NOT EXISTS vendor (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT,
  email TEXT,
  mobile TEXT NOT NULL UNIQUE,
  pan TEXT,
  gst_no TEXT
);`).Error)
	return conn
}

func newAuthService(t *testing.T, conn *gorm.DB, store OTPStore) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Vendors:  NewRepository(conn),
		OTPStore: store,
		JWTConfig: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "evjoints-admin",
			ExpirationMinutes: 30,
		},
		OTPConfig: config.OTPConfig{TTL: 5 * time.Minute, Digits: 6},
		Logger:    logger.New(logger.Options{ServiceName: "auth-test"}),
	})
	require.NoError(t, err)
	return svc
}

func seedVendor(t *testing.T, conn *gorm.DB, mobile string) models.Vendor {
	t.Helper()
	name := "Asha Patel"
	email := "asha@evjoints.in"
	vendor := models.Vendor{Name: &name, Email: &email, Mobile: mobile}
	require.NoError(t, conn.Create(&vendor).Error)
	return vendor
}

func TestLoginStoresOTPForRegisteredVendor(t *testing.T) {
	conn := setupAuthTestDB(t)
	store := newMapOTPStore()
	svc := newAuthService(t, conn, store)
	seedVendor(t, conn, "9876543210")

	resp, err := svc.Login(context.Background(), LoginRequest{Mobile: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", resp.Mobile)
	assert.Equal(t, 300, resp.ExpiresIn)

	code, ok := store.codes["9876543210"]
	require.True(t, ok, "an OTP must be pending after login")
	assert.Len(t, code, 6)
}

func TestLoginRejectsUnknownMobile(t *testing.T) {
	conn := setupAuthTestDB(t)
	store := newMapOTPStore()
	svc := newAuthService(t, conn, store)

	_, err := svc.Login(context.Background(), LoginRequest{Mobile: "9000000000"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.As(err).Code())
	assert.Empty(t, store.codes)
}

func TestVerifyOTPMintsTokenAndConsumesCode(t *testing.T) {
	conn := setupAuthTestDB(t)
	store := newMapOTPStore()
	svc := newAuthService(t, conn, store)
	vendor := seedVendor(t, conn, "9876543210")
	store.codes["9876543210"] = "123456"

	resp, err := svc.VerifyOTP(context.Background(), VerifyRequest{Mobile: "9876543210", OTP: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, vendor.ID, resp.Vendor.ID)
	assert.Equal(t, "Asha Patel", resp.Vendor.Name)

	claims, err := pkgauth.ParseAccessToken(config.JWTConfig{
		Secret:            "secret",
		Issuer:            "evjoints-admin",
		ExpirationMinutes: 30,
	}, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, vendor.ID, claims.VendorID)
	assert.Equal(t, "9876543210", claims.Mobile)

	_, ok := store.codes["9876543210"]
	assert.False(t, ok, "a verified OTP must not be reusable")
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	conn := setupAuthTestDB(t)
	store := newMapOTPStore()
	svc := newAuthService(t, conn, store)
	seedVendor(t, conn, "9876543210")
	store.codes["9876543210"] = "123456"

	_, err := svc.VerifyOTP(context.Background(), VerifyRequest{Mobile: "9876543210", OTP: "654321"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.As(err).Code())

	_, ok := store.codes["9876543210"]
	assert.True(t, ok, "a failed attempt keeps the code pending")
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	conn := setupAuthTestDB(t)
	store := newMapOTPStore()
	svc := newAuthService(t, conn, store)
	seedVendor(t, conn, "9876543210")

	_, err := svc.VerifyOTP(context.Background(), VerifyRequest{Mobile: "9876543210", OTP: "123456"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.As(err).Code())
}

func TestResendReplacesPendingCode(t *testing.T) {
	conn := setupAuthTestDB(t)
	store := newMapOTPStore()
	svc := newAuthService(t, conn, store)
	seedVendor(t, conn, "9876543210")
	store.codes["9876543210"] = "111111"

	_, err := svc.ResendOTP(context.Background(), LoginRequest{Mobile: "9876543210"})
	require.NoError(t, err)

	code := store.codes["9876543210"]
	require.Len(t, code, 6)
}

func TestGenerateCodeLength(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
