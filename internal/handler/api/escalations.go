package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/learningnavigator/navigator/internal/handler/auth"
	"github.com/learningnavigator/navigator/internal/service/escalation"
	"github.com/learningnavigator/navigator/pkg/utils"
)

func (h *Handler) handleEscalate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req escalation.Request
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		req.Email = identity.Email
	}

	q, notified, err := h.escalations.Create(r.Context(), req)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	message := "Admin has been notified successfully."
	if !notified {
		message = "Query stored but notification failed."
	}
	h.logger.Info().Str("query_id", q.ID).Str("user_id", identity.UserID).Msg("query escalated")
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": message,
		"query":   q,
	})
}

func (h *Handler) handleListEscalations(w http.ResponseWriter, r *http.Request) {
	var status escalation.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		var ok bool
		if status, ok = escalation.ParseStatus(raw); !ok {
			utils.RespondError(w, http.StatusBadRequest, "status must be one of pending, in_progress, resolved")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"queries": h.escalations.List(status),
	})
}

func (h *Handler) handleUpdateEscalation(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, ok := escalation.ParseStatus(payload.Status)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "status must be one of pending, in_progress, resolved")
		return
	}

	q, err := h.escalations.SetStatus(chi.URLParam(r, "id"), status)
	if errors.Is(err, escalation.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"query": q})
}
