// Package queue contains the AMQP payloads and the background consumer
// that bridges the course generation pipeline into the platform.
package queue

// Queue names shared with the generation pipeline.
const (
	GenerationRequestQueue = "course.generation.requested"
	GenerationStatusQueue  = "course.generation.status"
)

// GenerationRequestedEvent is published when a course manager approves a
// course request.  The external AI pipeline consumes it and starts
// generating; everything it needs travels in the event so the pipeline
// never queries the platform database.
type GenerationRequestedEvent struct {
	RequestID   string `json:"request_id"`
	Title       string `json:"title"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	Description string `json:"description"`
	ApprovedBy  uint64 `json:"approved_by"`
	ApprovedAt  string `json:"approved_at"`
}

// GenerationStatusEvent is consumed from the pipeline.  Event selects the
// dispatch semantics: status_change and error replace the request's
// status wholesale, progress_update touches only the progress column,
// generation_complete finishes the request and may carry the generated
// course.
type GenerationStatusEvent struct {
	RequestID string           `json:"request_id"`
	Event     string           `json:"event"`
	Status    string           `json:"status,omitempty"`
	Progress  *uint8           `json:"progress,omitempty"`
	Message   string           `json:"message,omitempty"`
	Course    *GeneratedCourse `json:"course,omitempty"`
	EmittedAt string           `json:"emitted_at,omitempty"`
}

// GeneratedCourse is the course payload attached to a
// generation_complete event.
type GeneratedCourse struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	Description string `json:"description"`
}
