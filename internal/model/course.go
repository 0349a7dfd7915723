package model

import "time"

// Course request statuses.  A request starts PENDING, a course manager
// moves it to APPROVED or REJECTED, and the generation pipeline drives
// APPROVED requests through GENERATING to COMPLETED or FAILED.
const (
    RequestStatusPending    = "PENDING"
    RequestStatusApproved   = "APPROVED"
    RequestStatusRejected   = "REJECTED"
    RequestStatusGenerating = "GENERATING"
    RequestStatusCompleted  = "COMPLETED"
    RequestStatusFailed     = "FAILED"
)

// Course statuses as stored in courses.status.
const (
    CourseStatusDraft     = "DRAFT"
    CourseStatusPublished = "PUBLISHED"
    CourseStatusArchived  = "ARCHIVED"
)

// CourseRequest records a client's ask for a new AI-generated course.
// Sales submit requests on behalf of corporate clients, students submit
// their own.  The PublicID is the identifier exposed to frontends and
// used as the websocket channel key; the numeric ID stays internal.
//
// Fields:
//  ID          – primary key identifier.
//  PublicID    – UUID exposed in API responses and websocket paths.
//  RequesterID – user who submitted the request.
//  Title       – working title for the course.
//  Language    – target language being taught.
//  Level       – CEFR level (A1..C2).
//  Description – free-form requirements from the client.
//  Status      – lifecycle status (see RequestStatus constants).
//  Progress    – generation progress 0..100, meaningful while GENERATING.
//  StatusNote  – last human or pipeline message attached to the status.
//  ReviewerID  – course manager who approved/rejected (null until review).
//  CourseID    – generated course, set when generation completes.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type CourseRequest struct {
    ID          uint64     // course_requests.id
    PublicID    string     // course_requests.public_id
    RequesterID uint64     // course_requests.requester_id
    Title       string     // course_requests.title
    Language    string     // course_requests.language
    Level       string     // course_requests.level
    Description string     // course_requests.description
    Status      string     // course_requests.status
    Progress    uint8      // course_requests.progress
    StatusNote  *string    // course_requests.status_note (nullable)
    ReviewerID  *uint64    // course_requests.reviewer_id (nullable)
    CourseID    *uint64    // course_requests.course_id (nullable)
    CreatedAt   time.Time  // course_requests.created_at
    UpdatedAt   time.Time  // course_requests.updated_at
}

// Course is a published (or draft) course in the catalog.  Generated
// courses reference the request that produced them.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – course title.
//  Language    – language taught.
//  Level       – CEFR level.
//  Description – catalog description.
//  Status      – DRAFT, PUBLISHED or ARCHIVED.
//  RequestID   – originating course request, if generated (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Course struct {
    ID          uint64    // courses.id
    Title       string    // courses.title
    Language    string    // courses.language
    Level       string    // courses.level
    Description string    // courses.description
    Status      string    // courses.status
    RequestID   *uint64   // courses.request_id (nullable)
    CreatedAt   time.Time // courses.created_at
    UpdatedAt   time.Time // courses.updated_at
}
