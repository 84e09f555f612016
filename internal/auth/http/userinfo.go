package http

import (
	"net/http"
	"strconv"

	"github.com/sharedrop/sharedrop/internal/auth/service"
	"github.com/sharedrop/sharedrop/pkg/authsdk"
	"github.com/sharedrop/sharedrop/pkg/httpx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

type UserInfoHandler struct {
	UserService *service.UserService
}

// ServeHTTP returns the authenticated principal. The subject is taken from
// the verified access token placed in the context by AuthnMiddleware.
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, err := strconv.ParseInt(httpx.UserIDFromCtx(ctx), 10, 64)
	if err != nil {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	user, err := h.UserService.GetUser(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		PreferredName: user.PreferredName,
		Role:          user.Role,
	})
}
