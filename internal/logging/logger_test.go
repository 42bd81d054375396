package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "trivia-api", "production")
	logger.Info().Int("category", 4).Msg("quiz question served")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "trivia-api", line["app"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "quiz question served", line["message"])
	assert.EqualValues(t, 4, line["category"])
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "trivia-api", "production").With().Str("request_id", "abc").Logger()

	ctx := IntoContext(context.Background(), logger)
	l := FromContext(ctx)
	l.Warn().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestFromContextWithoutLoggerIsNop(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, "disabled", l.GetLevel().String())
}
