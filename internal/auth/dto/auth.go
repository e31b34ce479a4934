package dto

// LoginRequest carries the shared household password.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}
