package api

import (
	"net/http"

	"github.com/learningnavigator/navigator/internal/handler/auth"
	"github.com/learningnavigator/navigator/internal/model/analytics"
	"github.com/learningnavigator/navigator/pkg/utils"
)

func (h *Handler) handleSessionLogs(w http.ResponseWriter, r *http.Request) {
	tf, ok := analytics.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "timeframe must be one of today, weekly, monthly, yearly")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.conversations.SessionLogs(tf))
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb analytics.Feedback
	if err := utils.DecodeJSON(w, r, &fb); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.conversations.SaveFeedback(fb); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity, _ := auth.FromContext(r.Context())
	h.logger.Info().
		Str("session_id", fb.SessionID).
		Str("message_id", fb.MessageID).
		Str("user_id", identity.UserID).
		Str("feedback", fb.Feedback).
		Msg("feedback saved")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Feedback recorded"})
}
