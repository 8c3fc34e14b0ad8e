package api

import (
	"net/http"

	"github.com/learningnavigator/navigator/internal/handler/auth"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	"github.com/learningnavigator/navigator/internal/service/profile"
	"github.com/learningnavigator/navigator/pkg/utils"
)

type noRoleResponse struct {
	Role           *string  `json:"role"`
	Message        string   `json:"message"`
	AvailableRoles []string `json:"available_roles"`
}

// role 优先使用用户在网关里设置的角色，其次是 token 中的 custom:role
func (h *Handler) role(identity auth.Identity) string {
	if role, ok := h.profiles.Role(identity.UserID); ok {
		return role
	}
	return identity.Role
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	role := h.role(identity)
	set, ok := h.recommendations.FindByRole(role)
	if role == "" || !ok {
		utils.RespondJSON(w, http.StatusOK, noRoleResponse{
			Message:        "Please set your role to get personalized recommendations",
			AvailableRoles: h.recommendations.Roles(),
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, recommend.Response{Role: role, Recommendations: set})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	p, ok := h.profiles.Get(identity.UserID)
	if !ok {
		p = profile.Profile{UserID: identity.UserID, Email: identity.Email, Role: identity.Role}
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var payload struct {
		Role string `json:"role"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.profiles.SetRole(identity.UserID, identity.Email, payload.Role)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid role: "+err.Error())
		return
	}

	h.logger.Info().Str("user_id", identity.UserID).Str("role", p.Role).Msg("profile updated")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": p,
	})
}
