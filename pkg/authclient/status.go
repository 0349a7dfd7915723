package authclient

// Event kinds delivered on a course request's status channel.  The
// values match the server's websocket envelope contract.
const (
	EventStatusChange       = "status_change"
	EventProgressUpdate     = "progress_update"
	EventGenerationComplete = "generation_complete"
	EventError              = "error"
)

// RequestStatus is the tracked state of one course request as seen over
// the channel.
type RequestStatus struct {
	Status   string `json:"status,omitempty"`
	Progress *uint8 `json:"progress,omitempty"`
	Message  string `json:"message,omitempty"`
}

// StatusUpdate is one envelope received from the channel:
// {"event": ..., "request_id": ..., "data": {...}}.
type StatusUpdate struct {
	Event     string        `json:"event"`
	RequestID string        `json:"request_id"`
	Data      RequestStatus `json:"data"`
}

// applyUpdate folds an incoming envelope into the retained status.
// progress_update merges only the progress figure and must not disturb
// fields learned from an earlier status_change; every other event kind
// replaces the status wholesale.
func applyUpdate(current RequestStatus, upd StatusUpdate) RequestStatus {
	if upd.Event == EventProgressUpdate {
		if upd.Data.Progress != nil {
			p := *upd.Data.Progress
			current.Progress = &p
		}
		return current
	}
	return upd.Data
}

// terminalNotification reports whether the event kind triggers a
// one-time user notification.
func terminalNotification(event string) bool {
	return event == EventGenerationComplete || event == EventError
}
