package api

import (
	"net/http"

	"github.com/learningnavigator/navigator/internal/model/document"
	"github.com/learningnavigator/navigator/pkg/utils"
)

func (h *Handler) handleFiles(w http.ResponseWriter, _ *http.Request) {
	files := h.files.Files()
	if files == nil {
		files = []document.File{}
	}
	utils.RespondJSON(w, http.StatusOK, document.Listing{Files: files})
}
