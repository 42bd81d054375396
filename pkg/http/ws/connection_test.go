package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgraderCheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/ws/play", nil)
	assert.True(t, up.CheckOrigin(req), "no origin header")

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, up.CheckOrigin(req))

	wildcard := NewUpgrader([]string{"*"})
	assert.True(t, wildcard.CheckOrigin(req))
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypeAnswerResult, "r1", AnswerResultPayload{QuestionID: 5, Correct: true, Score: 1})
	require.NoError(t, err)
	assert.Equal(t, TypeAnswerResult, msg.Type)
	assert.Equal(t, "r1", msg.RequestID)
	assert.JSONEq(t, `{"question_id":5,"correct":true,"correct_answer":"","score":1}`, string(msg.Payload))

	empty, err := NewMessage(TypePong, "", nil)
	require.NoError(t, err)
	assert.Nil(t, empty.Payload)
}

func TestSendAfterCloseFails(t *testing.T) {
	c := NewConnection(nil, zerolog.Nop())
	c.Close()
	c.Close()
	assert.ErrorIs(t, c.Send(Message{Type: TypePong}), ErrConnectionClosed)
}

func TestSendQueueFull(t *testing.T) {
	c := NewConnection(nil, zerolog.Nop())
	for i := 0; i < sendQueueLen; i++ {
		require.NoError(t, c.Send(Message{Type: TypePong}))
	}
	assert.ErrorIs(t, c.Send(Message{Type: TypePong}), ErrSendQueueFull)
}
