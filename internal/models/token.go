package models

// Token is the response to a successful signin. Tokens are not persisted;
// validity is determined entirely by signature and expiry.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}
