package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/metrics"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

const defaultQuizLength = 5

// WSHandler runs quiz sessions over a websocket. The session remembers which questions were
// served, so clients only send start, next and answer messages.
type WSHandler struct {
	svc        *Service
	upgrader   *websocket.Upgrader
	metrics    *metrics.Metrics
	quizLength int
	logger     zerolog.Logger
}

// NewWSHandler constructs the websocket quiz handler. m may be nil.
func NewWSHandler(svc *Service, upgrader *websocket.Upgrader, m *metrics.Metrics, quizLength int, logger zerolog.Logger) *WSHandler {
	if quizLength <= 0 {
		quizLength = defaultQuizLength
	}
	return &WSHandler{
		svc:        svc,
		upgrader:   upgrader,
		metrics:    m,
		quizLength: quizLength,
		logger:     logger.With().Str("component", "trivia_ws").Logger(),
	}
}

// quizSession is owned by the connection's read loop and never shared.
type quizSession struct {
	id       uuid.UUID
	started  bool
	category QuizCategory
	seen     []int
	current  *Question
	score    int
	finished bool
}

// HandlePlay upgrades GET /ws/play and serves one quiz session per connection.
func (h *WSHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	session := &quizSession{id: uuid.New()}
	logger := h.logger.With().Str("session_id", session.id.String()).Logger()
	c := ws.NewConnection(conn, logger)
	go c.WritePump()
	defer c.Close()

	logger.Info().Msg("quiz session opened")
	ctx := r.Context()
	c.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(ctx, c, session, msg)
	})
	logger.Info().Int("score", session.score).Int("served", len(session.seen)).Msg("quiz session closed")
}

func (h *WSHandler) handleMessage(ctx context.Context, c *ws.Connection, s *quizSession, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeStart:
		var payload ws.StartPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.QuizCategory == nil {
			return h.sendError(c, msg.RequestID, http.StatusUnprocessableEntity, httperrors.ReasonMissingField)
		}
		*s = quizSession{
			id:       s.id,
			started:  true,
			category: QuizCategory{ID: payload.QuizCategory.ID, Type: payload.QuizCategory.Type},
		}
		return h.serveNext(ctx, c, s, msg.RequestID)

	case ws.TypeNext:
		if !s.started {
			return h.sendError(c, msg.RequestID, http.StatusUnprocessableEntity, httperrors.ReasonInvalidPayload)
		}
		return h.serveNext(ctx, c, s, msg.RequestID)

	case ws.TypeAnswer:
		var payload ws.AnswerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return h.sendError(c, msg.RequestID, http.StatusUnprocessableEntity, httperrors.ReasonInvalidPayload)
		}
		if s.current == nil || s.current.ID != payload.QuestionID {
			return h.sendError(c, msg.RequestID, http.StatusUnprocessableEntity, httperrors.ReasonQuestionNotFound)
		}
		correct := answerMatches(s.current.Answer, payload.Answer)
		if correct {
			s.score++
		}
		result := ws.AnswerResultPayload{
			QuestionID:    s.current.ID,
			Correct:       correct,
			CorrectAnswer: s.current.Answer,
			Score:         s.score,
		}
		s.current = nil
		return h.send(c, ws.TypeAnswerResult, msg.RequestID, result)

	case ws.TypePing:
		return h.send(c, ws.TypePong, msg.RequestID, nil)

	default:
		return h.sendError(c, msg.RequestID, http.StatusUnprocessableEntity, httperrors.ReasonInvalidPayload)
	}
}

func (h *WSHandler) serveNext(ctx context.Context, c *ws.Connection, s *quizSession, requestID string) error {
	if !s.finished && len(s.seen) < h.quizLength {
		result, err := h.svc.PlayQuiz(ctx, PlayRequest{
			PreviousQuestions: s.seen,
			QuizCategory:      s.category,
		})
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return h.sendError(c, requestID, http.StatusUnprocessableEntity, verr.Reason)
			}
			h.logger.Error().Err(err).Str("session_id", s.id.String()).Msg("quiz question lookup failed")
			return h.sendError(c, requestID, http.StatusInternalServerError, httperrors.ReasonInternalError)
		}
		if result.Question != nil {
			s.seen = append(s.seen, result.Question.ID)
			s.current = result.Question
			h.metrics.QuestionServed(metrics.ChannelWebSocket)
			return h.send(c, ws.TypeQuestion, requestID, ws.QuestionPayload{
				SessionID: s.id.String(),
				Question: &ws.QuizQuestion{
					ID:         result.Question.ID,
					Question:   result.Question.Question,
					Category:   result.Question.Category,
					Difficulty: result.Question.Difficulty,
				},
				Number: len(s.seen),
				Total:  h.quizLength,
				Score:  s.score,
			})
		}
	}

	s.finished = true
	s.current = nil
	return h.send(c, ws.TypeQuestion, requestID, ws.QuestionPayload{
		SessionID: s.id.String(),
		Number:    len(s.seen),
		Total:     h.quizLength,
		Score:     s.score,
		Finished:  true,
	})
}

func (h *WSHandler) send(c *ws.Connection, msgType, requestID string, payload interface{}) error {
	msg, err := ws.NewMessage(msgType, requestID, payload)
	if err != nil {
		return err
	}
	return c.Send(msg)
}

func (h *WSHandler) sendError(c *ws.Connection, requestID string, status int, reason string) error {
	return h.send(c, ws.TypeError, requestID, ws.ErrorPayload{
		Error:   status,
		Message: http.StatusText(status),
		Reason:  reason,
	})
}

func answerMatches(expected, given string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(given))
}
