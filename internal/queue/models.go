package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending       Status = "pending"
	StatusTranscribing  Status = "transcribing"
	StatusTranscribed   Status = "transcribed"
	StatusReferencing   Status = "referencing"
	StatusReferenced    Status = "referenced"
	StatusTranslating   Status = "translating"
	StatusTranslated    Status = "translated"
	StatusSynthesizing  Status = "synthesizing"
	StatusSynthesized   Status = "synthesized"
	StatusConcatenating Status = "concatenating"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
	StatusReview        Status = "review"
)

var allStatuses = []Status{
	StatusPending,
	StatusTranscribing,
	StatusTranscribed,
	StatusReferencing,
	StatusReferenced,
	StatusTranslating,
	StatusTranslated,
	StatusSynthesizing,
	StatusSynthesized,
	StatusConcatenating,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ProcessingStatuses lists the in-flight statuses a stage holds while
// executing. Items left in one of these after a crash are rolled back to
// the preceding resting status on startup.
var ProcessingStatuses = []Status{
	StatusTranscribing,
	StatusReferencing,
	StatusTranslating,
	StatusSynthesizing,
	StatusConcatenating,
}

type statusTransition struct {
	from Status
	to   Status
}

var stageRollbackTransitions = []statusTransition{
	{from: StatusTranscribing, to: StatusPending},
	{from: StatusReferencing, to: StatusTranscribed},
	{from: StatusTranslating, to: StatusReferenced},
	{from: StatusSynthesizing, to: StatusTranslated},
	{from: StatusConcatenating, to: StatusSynthesized},
}

// Valid reports whether the status is a known lifecycle value.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Terminal reports whether the status ends processing for the item.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusReview:
		return true
	default:
		return false
	}
}

// ParseStatus normalizes raw strings from the CLI or database.
func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Item represents one podcast episode moving through the pipeline,
// persisted in SQLite.
type Item struct {
	ID              int64
	SourcePath      string
	Title           string
	Status          Status
	WorkDir         string
	OutputPath      string
	RefPathsJSON    string
	ErrorMessage    string
	ReviewReason    string
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InitProgress resets progress tracking at the start of a stage.
func (i *Item) InitProgress(stage, message string) {
	i.ProgressStage = stage
	i.ProgressPercent = 0
	i.ProgressMessage = message
}

// SetProgress updates progress within the current stage.
func (i *Item) SetProgress(percent float64, message string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	i.ProgressPercent = percent
	i.ProgressMessage = message
}

// HealthSummary describes aggregated queue counts per key lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Review     int
	Failed     int
	Completed  int
}
