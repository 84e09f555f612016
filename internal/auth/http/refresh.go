package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharedrop/sharedrop/internal/auth/service"
	"github.com/sharedrop/sharedrop/pkg/authsdk"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP exchanges a refresh token for a new pair. Every way the token
// can be invalid (bad signature, expired, wrong use, consumed, unknown
// user) maps to the same 401 response.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) || errors.Is(err, service.ErrUserNotFound) {
			authsdk.ErrUnauthorized.WriteError(w)
			return
		}
		log.Error("refresh exchange failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	writeTokenPair(w, http.StatusOK, pair)
}
