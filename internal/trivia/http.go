package trivia

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// PermissionGuard builds a middleware that admits only requests holding permission.
type PermissionGuard func(permission string) func(http.Handler) http.Handler

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc     *Service
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHTTPHandler constructs a trivia HTTP handler. m may be nil.
func NewHTTPHandler(svc *Service, m *metrics.Metrics, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:     svc,
		metrics: m,
		logger:  logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Register mounts the endpoints on r. Write endpoints are wrapped by guard when it is not nil.
func (h *HTTPHandler) Register(r chi.Router, guard PermissionGuard) {
	write := func(permission string, fn http.HandlerFunc) http.Handler {
		if guard == nil {
			return fn
		}
		return guard(permission)(fn)
	}

	r.Get("/categories", h.GetCategories)
	r.Get("/categories/{categoryID}/questions", h.GetQuestionsByCategory)
	r.Get("/questions", h.GetQuestions)
	r.Method(http.MethodPost, "/questions", write(auth.PermPostQuestions, h.CreateQuestion))
	r.Method(http.MethodDelete, "/questions/{questionID}", write(auth.PermDeleteQuestions, h.DeleteQuestion))
	r.Post("/search", h.SearchQuestions)
	r.Post("/play", h.PlayQuiz)
}

// GetCategories handles GET /categories
func (h *HTTPHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "list_categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categories,
	})
}

// GetQuestions handles GET /questions?page=N
func (h *HTTPHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListQuestions(r.Context(), pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err, "list_questions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.TotalQuestions,
		"categories":       page.Categories,
		"current_category": page.CurrentCategory,
	})
}

// CreateQuestion handles POST /questions
func (h *HTTPHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req NewQuestion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondUnprocessable(w, httperrors.ReasonInvalidPayload, "invalid JSON payload")
		return
	}

	q, err := h.svc.CreateQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err, "create_question")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"created":  q.ID,
		"question": q,
	})
}

// DeleteQuestion handles DELETE /questions/{questionID}
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		httperrors.RespondUnprocessable(w, httperrors.ReasonInvalidID, "question id must be an integer")
		return
	}

	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "delete_question")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": id,
	})
}

type searchRequest struct {
	Term *string `json:"term"`
}

// SearchQuestions handles POST /search
func (h *HTTPHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondUnprocessable(w, httperrors.ReasonInvalidPayload, "invalid JSON payload")
		return
	}
	if req.Term == nil {
		httperrors.RespondUnprocessable(w, httperrors.ReasonMissingField, "term is required")
		return
	}

	page, err := h.svc.SearchQuestions(r.Context(), *req.Term)
	if err != nil {
		h.respondServiceError(w, r, err, "search_questions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.TotalQuestions,
		"current_category": nil,
	})
}

// GetQuestionsByCategory handles GET /categories/{categoryID}/questions
func (h *HTTPHandler) GetQuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		httperrors.RespondUnprocessable(w, httperrors.ReasonInvalidID, "category id must be an integer")
		return
	}

	page, err := h.svc.QuestionsByCategory(r.Context(), categoryID, pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err, "questions_by_category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.TotalQuestions,
		"current_category": page.CurrentCategory,
	})
}

type playRequest struct {
	PreviousQuestions []int         `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category"`
}

// PlayQuiz handles POST /play
func (h *HTTPHandler) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondUnprocessable(w, httperrors.ReasonInvalidPayload, "invalid JSON payload")
		return
	}
	if req.QuizCategory == nil {
		httperrors.RespondUnprocessable(w, httperrors.ReasonMissingField, "quiz_category is required")
		return
	}

	result, err := h.svc.PlayQuiz(r.Context(), PlayRequest{
		PreviousQuestions: req.PreviousQuestions,
		QuizCategory:      *req.QuizCategory,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "play_quiz")
		return
	}
	if result.Question != nil {
		h.metrics.QuestionServed(metrics.ChannelHTTP)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": result.Question,
	})
}

func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		httperrors.RespondUnprocessable(w, verr.Reason, verr.Detail)
		return
	}
	logger := h.requestLogger(r)
	logger.Error().Err(err).Str("op", op).Msg("request failed")
	httperrors.RespondInternalError(w)
}

// requestLogger prefers the request-scoped logger installed by the server middleware.
func (h *HTTPHandler) requestLogger(r *http.Request) zerolog.Logger {
	if l := logging.FromContext(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l.With().Str("component", "trivia_http").Logger()
	}
	return h.logger
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
