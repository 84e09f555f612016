package authsdk

// SignupRequest is the body of POST /v1/auth/signup.
type SignupRequest struct {
	// Username is the unique login identifier (typically an email address)
	Username string `json:"username"`

	// Password is the plaintext secret; it is hashed server-side and never stored
	Password string `json:"password"`

	// PreferredName is the display name shown to other users
	PreferredName string `json:"preferred_name,omitempty"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the principal snapshot returned by signup, login and
// userinfo.
type UserResponse struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	PreferredName string `json:"preferred_name,omitempty"`
	Role          string `json:"role"`
}

// LoginResponse bundles the principal snapshot with a fresh token pair.
// It is returned by both the login and refresh endpoints and has no
// server-side persistence.
type LoginResponse struct {
	User UserResponse `json:"user"`

	// AccessToken is the short-lived JWT used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived JWT exchangeable for a new pair
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// ErrorResponse is the JSON shape of every error body the service writes.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Upstream string `json:"upstream,omitempty"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
