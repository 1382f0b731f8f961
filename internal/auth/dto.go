package auth

// LoginRequest starts the OTP flow for a registered vendor mobile number.
type LoginRequest struct {
	Mobile string `json:"mobile" validate:"required,len=10,numeric"`
}

// VerifyRequest exchanges a delivered OTP for an access token.
type VerifyRequest struct {
	Mobile string `json:"mobile" validate:"required,len=10,numeric"`
	OTP    string `json:"otp" validate:"required"`
}

// LoginResponse acknowledges that an OTP was dispatched.
type LoginResponse struct {
	Mobile    string `json:"mobile"`
	ExpiresIn int    `json:"expiresIn"`
}

// VendorSummary is the signed-in vendor profile returned with the token.
type VendorSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// VerifyResponse carries the minted access token.
type VerifyResponse struct {
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresIn   int           `json:"expiresIn"`
	Vendor      VendorSummary `json:"vendor"`
}
