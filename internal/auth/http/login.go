package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharedrop/sharedrop/internal/auth/domain"
	"github.com/sharedrop/sharedrop/internal/auth/service"
	"github.com/sharedrop/sharedrop/pkg/authsdk"
	"github.com/sharedrop/sharedrop/pkg/httpx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

type LoginHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP verifies a username/password pair and returns a token pair.
// Bad credentials come back as a single undifferentiated 401.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrUnauthorized.WriteError(w)
			return
		}
		log.Error("credential verification failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, user)
	if err != nil {
		log.Error("token issuance failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	writeTokenPair(w, http.StatusOK, pair)
}

// writeTokenPair is shared by the login and refresh handlers; both return
// the same response shape.
func writeTokenPair(w http.ResponseWriter, status int, pair *domain.TokenPair) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, status, authsdk.LoginResponse{
		User: authsdk.UserResponse{
			ID:            pair.User.ID,
			Username:      pair.User.Username,
			PreferredName: pair.User.PreferredName,
			Role:          pair.User.Role,
		},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}
