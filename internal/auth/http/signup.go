package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharedrop/sharedrop/internal/auth/service"
	"github.com/sharedrop/sharedrop/pkg/authsdk"
	"github.com/sharedrop/sharedrop/pkg/httpx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

// Password length bounds enforced at signup. The upper bound keeps argon2
// hashing from being handed megabytes of input.
const (
	minPasswordLength = 10
	maxPasswordLength = 128
)

type SignupHandler struct {
	UserService *service.UserService
}

// ServeHTTP registers a new user and returns the stored principal snapshot.
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if req.Username == "" ||
		len(req.Password) < minPasswordLength ||
		len(req.Password) > maxPasswordLength {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Signup(ctx, req.Username, req.Password, req.PreferredName)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			authsdk.ErrDuplicateUsername.WriteError(w)
			return
		}
		log.Error("signup failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		PreferredName: user.PreferredName,
		Role:          user.Role,
	})
}
