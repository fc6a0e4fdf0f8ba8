package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, Config{Level: "debug", Format: "json"})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger := WithInterview("interview", "abc-123")
	logger.Debug().Int("hrIndex", 2).Msg("переход")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "interview", entry["component"])
	assert.Equal(t, "abc-123", entry["interviewId"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 2, entry["hrIndex"])
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, Config{Level: "loud", Format: "json"})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	logger := WithComponent("test")
	logger.Debug().Msg("скрыто")
	assert.Zero(t, buf.Len())
}
