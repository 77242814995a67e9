package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest accepts the refresh token under either key so both
// simplejwt-style clients ("refresh") and newer ones ("refresh_token") work.
type RefreshRequest struct {
	Refresh      string `json:"refresh"`
	RefreshToken string `json:"refresh_token"`
}

// Token returns whichever key the client used.
func (r RefreshRequest) Token() string {
	if r.RefreshToken != "" {
		return r.RefreshToken
	}
	return r.Refresh
}

type RegisterRequest struct {
	Username  string  `json:"username"  validate:"required,min=1,max=150"`
	Email     string  `json:"email"     validate:"required,email,max=254"`
	Password  string  `json:"password"  validate:"required,min=8,max=128"`
	Password2 string  `json:"password2" validate:"required"`
	Role      string  `json:"role"      validate:"omitempty,oneof=SUPERVISOR EMPLOYEE"`
	IDNumber  *string `json:"id_number" validate:"omitempty,max=50"`
	Phone     *string `json:"phone"     validate:"omitempty,max=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TokenResponse carries both the simplejwt key names (access, refresh) and
// the OAuth-style ones so existing clients keep working.
type TokenResponse struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
	Role         string `json:"role"`
	Username     string `json:"username"`
}

type RefreshResponse struct {
	Access       string `json:"access"`
	AccessToken  string `json:"access_token"`
	Refresh      string `json:"refresh,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
}
