package models

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   Timestamp `json:"expiresAt"`
	Role        string    `json:"role"`
}
