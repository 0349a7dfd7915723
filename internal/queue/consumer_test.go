package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/realtime"
)

func u8(v uint8) *uint8 { return &v }

func TestEnvelopeForStatusChange(t *testing.T) {
	env := EnvelopeFor(GenerationStatusEvent{
		RequestID: "req-1",
		Event:     realtime.EventStatusChange,
		Status:    model.RequestStatusGenerating,
		Progress:  u8(5),
		Message:   "warming up",
	})

	assert.Equal(t, realtime.EventStatusChange, env.Event)
	assert.Equal(t, "req-1", env.RequestID)
	assert.Equal(t, model.RequestStatusGenerating, env.Data.Status)
	require.NotNil(t, env.Data.Progress)
	assert.Equal(t, uint8(5), *env.Data.Progress)
	assert.Equal(t, "warming up", env.Data.Message)
}

func TestEnvelopeForProgressUpdate(t *testing.T) {
	env := EnvelopeFor(GenerationStatusEvent{
		RequestID: "req-2",
		Event:     realtime.EventProgressUpdate,
		Progress:  u8(60),
	})

	assert.Equal(t, realtime.EventProgressUpdate, env.Event)
	assert.Empty(t, env.Data.Status, "progress events carry no status")
	require.NotNil(t, env.Data.Progress)
	assert.Equal(t, uint8(60), *env.Data.Progress)
}

func TestEnvelopeForCompleteDefaultsStatus(t *testing.T) {
	env := EnvelopeFor(GenerationStatusEvent{
		RequestID: "req-3",
		Event:     realtime.EventGenerationComplete,
	})
	assert.Equal(t, model.RequestStatusCompleted, env.Data.Status)

	// An explicit status from the pipeline wins over the default.
	env = EnvelopeFor(GenerationStatusEvent{
		RequestID: "req-3",
		Event:     realtime.EventGenerationComplete,
		Status:    "PUBLISH_READY",
	})
	assert.Equal(t, "PUBLISH_READY", env.Data.Status)
}

func TestEnvelopeForErrorDefaultsStatus(t *testing.T) {
	env := EnvelopeFor(GenerationStatusEvent{
		RequestID: "req-4",
		Event:     realtime.EventError,
		Message:   "model quota exhausted",
	})
	assert.Equal(t, model.RequestStatusFailed, env.Data.Status)
	assert.Equal(t, "model quota exhausted", env.Data.Message)
}

// The pipeline's JSON payload must decode into the event as-is; this is
// the contract the external generator emits against.
func TestGenerationStatusEventDecoding(t *testing.T) {
	payload := `{
		"request_id": "3f1c9a",
		"event": "generation_complete",
		"status": "COMPLETED",
		"progress": 100,
		"message": "done",
		"course": {
			"title": "Business French B2",
			"language": "fr",
			"level": "B2",
			"description": "Negotiation and email writing."
		},
		"emitted_at": "2026-08-28T10:00:00Z"
	}`

	var ev GenerationStatusEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &ev))
	assert.Equal(t, "3f1c9a", ev.RequestID)
	assert.Equal(t, realtime.EventGenerationComplete, ev.Event)
	require.NotNil(t, ev.Progress)
	assert.Equal(t, uint8(100), *ev.Progress)
	require.NotNil(t, ev.Course)
	assert.Equal(t, "Business French B2", ev.Course.Title)
	assert.Equal(t, "B2", ev.Course.Level)
}
