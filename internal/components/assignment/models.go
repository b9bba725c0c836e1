package assignment

import (
	"time"

	"cloud.google.com/go/civil"
)

// Status is the lifecycle state of an assignment.
type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
	StatusCancelled  Status = "cancelled"
)

// Priority orders assignments a coach wants the athlete to see first.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var transitions = map[Status][]Status{
	StatusAssigned:   {StatusInProgress, StatusCompleted, StatusSkipped, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusSkipped, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusCompleted, StatusSkipped, StatusCancelled:
		return true
	}
	return false
}

// Terminal states accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type (
	Assignment struct {
		ID                  int64      `json:"id"`
		WorkoutLibraryID    int64      `json:"workout_library_id"`
		AssignedToUserID    int64      `json:"assigned_to_user_id"`
		AssignedByUserID    int64      `json:"assigned_by_user_id"`
		ScheduledDate       civil.Date `json:"scheduled_date"`
		Status              Status     `json:"status"`
		Priority            Priority   `json:"priority"`
		IntensityAdjustment float64    `json:"intensity_adjustment"`
		DurationAdjustment  float64    `json:"duration_adjustment"`
		CustomNotes         string     `json:"custom_notes,omitempty"`
		CreatedAt           time.Time  `json:"created_at"`
		UpdatedAt           time.Time  `json:"updated_at"`
	}

	UserRef struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	// CalendarWorkout is an assignment flattened with its template and both users.
	CalendarWorkout struct {
		Assignment

		WorkoutName       string `json:"workout_name"`
		WorkoutType       string `json:"workout_type"`
		EstimatedDuration int    `json:"estimated_duration"` // minutes, template value
		AdjustedDuration  int    `json:"adjusted_duration"`  // minutes, after duration_adjustment
		DifficultyLevel   string `json:"difficulty_level"`

		Athlete UserRef `json:"athlete"`
		Coach   UserRef `json:"coach"`
	}

	CreateAssignmentIn struct {
		WorkoutLibraryID    int64    `json:"workout_library_id"`
		AssignedToUserID    int64    `json:"assigned_to_user_id"`
		AssignedByUserID    int64    `json:"assigned_by_user_id"`
		ScheduledDate       string   `json:"scheduled_date"`
		Priority            Priority `json:"priority,omitempty"`
		IntensityAdjustment *float64 `json:"intensity_adjustment,omitempty"`
		DurationAdjustment  *float64 `json:"duration_adjustment,omitempty"`
		CustomNotes         string   `json:"custom_notes,omitempty"`
	}

	UpdateStatusIn struct {
		Status Status `json:"status"`
	}

	// ListAssignmentsQuery selects an athlete's assignments, optionally bounded by scheduled date
	// (both ends inclusive).
	ListAssignmentsQuery struct {
		AssignedToUserID int64
		ScheduledFrom    *civil.Date
		ScheduledTo      *civil.Date
	}

	ListAssignmentsResponse struct {
		Success     bool              `json:"success"`
		Assignments []CalendarWorkout `json:"assignments"`
	}

	AssignmentResponse struct {
		Success    bool       `json:"success"`
		Assignment Assignment `json:"assignment"`
	}

	DeleteResponse struct {
		Success bool `json:"success"`
	}
)
