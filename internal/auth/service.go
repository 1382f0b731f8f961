package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	pkgauth "github.com/evjoints/admin-backend/pkg/auth"
	"github.com/evjoints/admin-backend/pkg/config"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
)

const invalidOTPMessage = "invalid or expired OTP"

// Service drives the vendor OTP login flow.
type Service struct {
	vendors Repository
	otp     OTPStore
	jwtCfg  config.JWTConfig
	otpCfg  config.OTPConfig
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Vendors   Repository
	OTPStore  OTPStore
	JWTConfig config.JWTConfig
	OTPConfig config.OTPConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

// NewService constructs an OTP login service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Vendors == nil {
		return nil, errors.New("vendor repository is required")
	}
	if params.OTPStore == nil {
		return nil, errors.New("otp store is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	otpCfg := params.OTPConfig
	if otpCfg.Digits <= 0 {
		otpCfg.Digits = 6
	}
	if otpCfg.TTL <= 0 {
		otpCfg.TTL = 5 * time.Minute
	}
	return &Service{
		vendors: params.Vendors,
		otp:     params.OTPStore,
		jwtCfg:  params.JWTConfig,
		otpCfg:  otpCfg,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Login generates an OTP for a registered vendor and hands it to the SMS
// channel. Unregistered numbers are rejected before any code is stored.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	return s.dispatchOTP(ctx, req.Mobile)
}

// ResendOTP issues a fresh code, replacing any still-pending one.
func (s *Service) ResendOTP(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	return s.dispatchOTP(ctx, req.Mobile)
}

func (s *Service) dispatchOTP(ctx context.Context, mobile string) (*LoginResponse, error) {
	mobile = strings.TrimSpace(mobile)
	vendor, err := s.vendors.FindByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("looking up vendor: %w", err)
	}
	if vendor == nil {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "mobile number is not registered")
	}

	code, err := generateCode(s.otpCfg.Digits)
	if err != nil {
		return nil, fmt.Errorf("generating otp: %w", err)
	}
	if err := s.otp.Save(ctx, mobile, code); err != nil {
		return nil, err
	}

	// SMS delivery is handled by the gateway; the code never reaches the logs.
	s.logg.Info(s.logg.WithVendorID(ctx, fmt.Sprintf("%d", vendor.ID)), "login OTP dispatched")

	return &LoginResponse{
		Mobile:    mobile,
		ExpiresIn: int(s.otpCfg.TTL.Seconds()),
	}, nil
}

// VerifyOTP checks the submitted code and mints an access token. The code is
// single use: a successful check deletes it.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	mobile := strings.TrimSpace(req.Mobile)

	stored, err := s.otp.Get(ctx, mobile)
	if errors.Is(err, ErrOTPNotFound) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, invalidOTPMessage)
	}
	if err != nil {
		return nil, err
	}
	if stored != strings.TrimSpace(req.OTP) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, invalidOTPMessage)
	}

	vendor, err := s.vendors.FindByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("looking up vendor: %w", err)
	}
	if vendor == nil {
		return nil, apperrors.New(apperrors.CodeUnauthorized, invalidOTPMessage)
	}

	if err := s.otp.Delete(ctx, mobile); err != nil {
		return nil, err
	}

	name := ""
	if vendor.Name != nil {
		name = *vendor.Name
	}
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgauth.AccessTokenPayload{
		VendorID: vendor.ID,
		Mobile:   vendor.Mobile,
		Name:     name,
	})
	if err != nil {
		return nil, fmt.Errorf("minting access token: %w", err)
	}

	email := ""
	if vendor.Email != nil {
		email = *vendor.Email
	}
	return &VerifyResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtCfg.AccessTokenTTL().Seconds()),
		Vendor: VendorSummary{
			ID:     vendor.ID,
			Name:   name,
			Email:  email,
			Mobile: vendor.Mobile,
		},
	}, nil
}

// generateCode draws a uniformly random numeric code of the given length.
func generateCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
