package ws

import "encoding/json"

// MessageType constants for the quiz session protocol.
const (
	// Client -> Server
	TypeStart  = "start"
	TypeNext   = "next"
	TypeAnswer = "answer"
	TypePing   = "ping"

	// Server -> Client
	TypeQuestion     = "question"
	TypeAnswerResult = "answer_result"
	TypeError        = "error"
	TypePong         = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage encodes payload into a typed message. A nil payload leaves Payload empty.
func NewMessage(msgType, requestID string, payload interface{}) (Message, error) {
	msg := Message{Type: msgType, RequestID: requestID}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = raw
	return msg, nil
}

// Client Messages (incoming)

type QuizCategoryPayload struct {
	ID   int    `json:"id"`
	Type string `json:"type,omitempty"`
}

type StartPayload struct {
	QuizCategory *QuizCategoryPayload `json:"quiz_category"`
}

type AnswerPayload struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// Server Messages (outgoing)

// QuizQuestion is a question as shown to a player; the answer stays on the server.
type QuizQuestion struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

type QuestionPayload struct {
	SessionID string        `json:"session_id"`
	Question  *QuizQuestion `json:"question"`
	Number    int           `json:"number"`
	Total     int           `json:"total"`
	Score     int           `json:"score"`
	Finished  bool          `json:"finished"`
}

type AnswerResultPayload struct {
	QuestionID    int    `json:"question_id"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Score         int    `json:"score"`
}

type ErrorPayload struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}
