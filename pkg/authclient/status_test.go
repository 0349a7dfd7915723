package authclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u8(v uint8) *uint8 { return &v }

func TestApplyUpdateStatusChangeReplaces(t *testing.T) {
	current := RequestStatus{Status: "PENDING", Progress: u8(10), Message: "queued"}
	upd := StatusUpdate{
		Event: EventStatusChange,
		Data:  RequestStatus{Status: "GENERATING", Message: "building lessons"},
	}

	got := applyUpdate(current, upd)
	assert.Equal(t, "GENERATING", got.Status)
	assert.Nil(t, got.Progress, "replace must drop stale progress")
	assert.Equal(t, "building lessons", got.Message)
}

func TestApplyUpdateProgressMergesOnly(t *testing.T) {
	current := RequestStatus{Status: "GENERATING", Progress: u8(20), Message: "building lessons"}
	upd := StatusUpdate{
		Event: EventProgressUpdate,
		Data:  RequestStatus{Progress: u8(55)},
	}

	got := applyUpdate(current, upd)
	assert.Equal(t, "GENERATING", got.Status, "merge must keep the status field")
	assert.Equal(t, "building lessons", got.Message, "merge must keep the message field")
	require.NotNil(t, got.Progress)
	assert.Equal(t, uint8(55), *got.Progress)
}

func TestApplyUpdateProgressWithoutFigureIsNoop(t *testing.T) {
	current := RequestStatus{Status: "GENERATING", Progress: u8(20)}
	got := applyUpdate(current, StatusUpdate{Event: EventProgressUpdate})

	assert.Equal(t, "GENERATING", got.Status)
	require.NotNil(t, got.Progress)
	assert.Equal(t, uint8(20), *got.Progress)
}

func TestApplyUpdateCopiesProgressPointer(t *testing.T) {
	incoming := u8(30)
	got := applyUpdate(RequestStatus{}, StatusUpdate{
		Event: EventProgressUpdate,
		Data:  RequestStatus{Progress: incoming},
	})

	*incoming = 99
	require.NotNil(t, got.Progress)
	assert.Equal(t, uint8(30), *got.Progress, "retained progress must not alias the envelope")
}

func TestApplyUpdateCompleteAndErrorReplace(t *testing.T) {
	current := RequestStatus{Status: "GENERATING", Progress: u8(80)}

	done := applyUpdate(current, StatusUpdate{
		Event: EventGenerationComplete,
		Data:  RequestStatus{Status: "COMPLETED", Message: "course ready"},
	})
	assert.Equal(t, "COMPLETED", done.Status)
	assert.Nil(t, done.Progress)

	failed := applyUpdate(current, StatusUpdate{
		Event: EventError,
		Data:  RequestStatus{Status: "FAILED", Message: "generation pipeline error"},
	})
	assert.Equal(t, "FAILED", failed.Status)
	assert.Equal(t, "generation pipeline error", failed.Message)
}

func TestTerminalNotification(t *testing.T) {
	assert.True(t, terminalNotification(EventGenerationComplete))
	assert.True(t, terminalNotification(EventError))
	assert.False(t, terminalNotification(EventStatusChange))
	assert.False(t, terminalNotification(EventProgressUpdate))
}

func TestRouteForRoles(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
		want  string
	}{
		{"sales beats student", []string{"student", "sales"}, "/sales"},
		{"course manager", []string{"course_manager"}, "/course-manager"},
		{"trainer", []string{"trainer"}, "/trainer"},
		{"student", []string{"student"}, "/student"},
		{"admin alone", []string{"admin"}, "/admin"},
		{"admin loses to earlier roles", []string{"admin", "trainer"}, "/trainer"},
		{"case insensitive", []string{"SALES"}, "/sales"},
		{"unknown roles fall through", []string{"intern"}, "/"},
		{"empty", nil, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RouteForRoles(tc.roles))
		})
	}
}
