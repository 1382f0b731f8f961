package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	VendorID int64
	Mobile   string
	Name     string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to the dashboard.
type AccessTokenClaims struct {
	VendorID int64  `json:"vendor_id"`
	Mobile   string `json:"mobile"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
