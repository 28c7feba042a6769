package study

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
	"github.com/hugo-study/backend/internal/questionnaire"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ── Participant Routes ────────────────────────────────

func (h *Handler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req models.CreateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !models.ValidAgeIntervals[req.Age] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid age"})
		return
	}
	if !models.ValidEducationLevels[req.Education] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid education"})
		return
	}
	if !models.ValidFamiliarities[req.HugoStyleFamiliarity] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid hugo_style_familiarity"})
		return
	}

	p, err := h.service.CreateParticipant(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) GenerateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ParticipantID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "participant_id is required"})
		return
	}

	resp, err := h.service.GenerateQuestionnaire(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.QuestionID <= 0 || req.ParticipantID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_id and participant_id are required"})
		return
	}
	if req.Choice != models.ChoiceLeft && req.Choice != models.ChoiceRight {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "choice must be 'left' or 'right'"})
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ── Admin Routes ──────────────────────────────────────

func (h *Handler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid participant ID"})
		return
	}

	p, err := h.service.GetParticipant(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter models.AnswerFilter
	if c := query.Get("question_category"); c != "" {
		qc := models.QuestionCategory(c)
		if !models.ValidQuestionCategories[qc] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid question_category"})
			return
		}
		filter.QuestionCategory = &qc
	}
	if c := query.Get("paragraph_category"); c != "" {
		pc := models.ParagraphCategory(c)
		if !models.ValidParagraphCategories[pc] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid paragraph_category"})
			return
		}
		filter.ParagraphCategory = &pc
	}

	filter.Limit = intQueryParam(query, "limit", 50)
	if filter.Limit == 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	filter.Offset = intQueryParam(query, "offset", 0)

	resp, err := h.service.ListAnswers(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeServiceError maps domain errors to HTTP statuses. Unknown errors are
// logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, corpus.ErrInvalidCategory), errors.Is(err, questionnaire.ErrInvalidCount):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrParticipantNotFound), errors.Is(err, ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrDuplicateAnswer):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, corpus.ErrCorpusExhausted):
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Not enough paragraphs available for this questionnaire"})
	default:
		log.Printf("[study] ERROR: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
