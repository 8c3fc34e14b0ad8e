package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/document"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	"github.com/learningnavigator/navigator/internal/service/conversation"
	"github.com/learningnavigator/navigator/internal/service/escalation"
	"github.com/learningnavigator/navigator/internal/service/profile"
	"github.com/learningnavigator/navigator/internal/service/translate"
)

// Translator backs the translate endpoints. translate.Service satisfies it.
type Translator interface {
	TranslateText(ctx context.Context, text, src, dst string) string
	TranslateBatch(ctx context.Context, texts []string, src, dst string) []translate.Result
}

// FileLister lists the knowledge base documents.
type FileLister interface {
	Files() []document.File
}

// Handler 提供网关的 REST 接口
type Handler struct {
	conversations   *conversation.Service
	recommendations recommend.Store
	profiles        *profile.Store
	escalations     *escalation.Service
	translator      Translator
	files           FileLister
	logger          zerolog.Logger
}

// New creates the REST handler. translator may be nil, in which case texts are
// echoed back untranslated.
func New(conversations *conversation.Service, recommendations recommend.Store, profiles *profile.Store, escalations *escalation.Service, translator Translator, files FileLister) *Handler {
	return &Handler{
		conversations:   conversations,
		recommendations: recommendations,
		profiles:        profiles,
		escalations:     escalations,
		translator:      translator,
		files:           files,
		logger:          logging.Component("api"),
	}
}

// RegisterRoutes 注册 REST 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session-logs", h.handleSessionLogs)
	r.Post("/feedback", h.handleFeedback)

	r.Get("/recommendations", h.handleRecommendations)
	r.Get("/profile", h.handleGetProfile)
	r.Put("/profile", h.handleUpdateProfile)
	r.Post("/profile", h.handleUpdateProfile)

	r.Post("/escalations", h.handleEscalate)
	r.Get("/escalations", h.handleListEscalations)
	r.Patch("/escalations/{id}", h.handleUpdateEscalation)

	r.Post("/translate", h.handleTranslate)
	r.Post("/translate-batch", h.handleTranslateBatch)

	r.Get("/files", h.handleFiles)
}
