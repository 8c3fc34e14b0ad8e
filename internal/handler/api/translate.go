package api

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/learningnavigator/navigator/internal/service/translate"
	"github.com/learningnavigator/navigator/pkg/utils"
)

// maxBatchTexts caps one translate-batch request.
const maxBatchTexts = 200

var supportedLanguages = []interface{}{"en", "es"}

type translateRequest struct {
	Text           string   `json:"text"`
	Texts          []string `json:"texts"`
	SourceLanguage string   `json:"source_language"`
	TargetLanguage string   `json:"target_language"`
}

func (req *translateRequest) normalize() {
	req.SourceLanguage = strings.ToLower(strings.TrimSpace(req.SourceLanguage))
	req.TargetLanguage = strings.ToLower(strings.TrimSpace(req.TargetLanguage))
	if req.SourceLanguage == "" {
		req.SourceLanguage = "en"
	}
}

func (req *translateRequest) languageRules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&req.SourceLanguage, validation.Required, validation.In(supportedLanguages...)),
		validation.Field(&req.TargetLanguage, validation.Required, validation.In(supportedLanguages...)),
	}
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.normalize()

	rules := append(req.languageRules(), validation.Field(&req.Text, validation.Required))
	if err := validation.ValidateStruct(&req, rules...); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	translated := req.Text
	if h.translator != nil {
		translated = h.translator.TranslateText(r.Context(), req.Text, req.SourceLanguage, req.TargetLanguage)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"translated_text": translated})
}

func (h *Handler) handleTranslateBatch(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.normalize()

	rules := append(req.languageRules(), validation.Field(&req.Texts, validation.Required, validation.Length(1, maxBatchTexts)))
	if err := validation.ValidateStruct(&req, rules...); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var results []translate.Result
	if h.translator != nil {
		results = h.translator.TranslateBatch(r.Context(), req.Texts, req.SourceLanguage, req.TargetLanguage)
	} else {
		results = make([]translate.Result, len(req.Texts))
		for i, text := range req.Texts {
			results[i] = translate.Result{Original: text, Translated: text}
		}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"translations": results})
}
