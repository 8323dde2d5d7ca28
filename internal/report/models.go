// Package report implements the whistleblower report submission flow:
// validation, public reference generation, priority scoring, persistence,
// and the fire-and-forget hash-chain anchor.
package report

import "time"

// Status values for a report's lifecycle. Only StatusNew is assigned here;
// later transitions belong to the audit workflow.
const StatusNew = "new"

// RecordType is the hash-chain partition reports are anchored under.
const RecordType = "report"

// Report is the main report row.
type Report struct {
	ID                   string
	PublicID             string
	Status               string
	Summary              string
	DetailedDescription  string
	EstimatedAmountRange string
	SourceOfInfo         string
	FollowUpAllowed      bool
	ContactInfo          string
	PriorityLevel        int
	CreatedAt            time.Time
}

// Evidence describes an uploaded file already stored by the upload handler;
// only the reference is recorded here.
type Evidence struct {
	Filename    string `json:"filename"`
	StoragePath string `json:"path"`
	MimeType    string `json:"mimeType"`
	FileSize    int64  `json:"size"`
}

// InvolvedEntity is a person or organization named in a report.
type InvolvedEntity struct {
	Name           string            `json:"name"`
	Type           string            `json:"type"`
	Role           string            `json:"role"`
	AdditionalInfo map[string]string `json:"additionalInfo"`
}

// ChatMessage is one message from the intake conversation.
type ChatMessage struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmitRequest carries everything the intake UI collected.
type SubmitRequest struct {
	Summary              string            `json:"summary"`
	DetailedDescription  string            `json:"detailed_description"`
	EstimatedAmountRange string            `json:"estimated_amount_range"`
	SourceOfInfo         string            `json:"source_of_info"`
	FollowUpAllowed      bool              `json:"follow_up_allowed"`
	ContactInfo          string            `json:"contact_info"`
	Attributes           map[string]string `json:"attributes"`
	Evidence             []Evidence        `json:"evidence"`
	InvolvedEntities     []InvolvedEntity  `json:"involved_entities"`
	ChatHistory          []ChatMessage     `json:"chat_history"`
}

// Receipt is returned to the submitter. The public reference is the only
// identifier they ever see.
type Receipt struct {
	Success         bool     `json:"success"`
	ReportID        string   `json:"report_id"`
	ReferenceNumber string   `json:"reference_number"`
	PriorityLevel   int      `json:"priority_level"`
	Status          string   `json:"status"`
	Message         string   `json:"message"`
	NextSteps       []string `json:"next_steps"`
}
