// Package events carries assignment change notifications between service instances so every
// instance can drop the cached months an assignment mutation touched.
package events

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Action names the mutation that produced an AssignmentChanged event.
type Action string

const (
	ActionCreated       Action = "created"
	ActionDeleted       Action = "deleted"
	ActionStatusChanged Action = "status_changed"
)

// EventType is the value of the event_type header on every record.
const EventType = "assignment.changed"

// AssignmentChanged is emitted after an assignment row is created, deleted or changes status.
type AssignmentChanged struct {
	EventID       string     `json:"event_id"`
	Action        Action     `json:"action"`
	AssignmentID  int64      `json:"assignment_id"`
	UserID        int64      `json:"user_id"`
	ScheduledDate civil.Date `json:"scheduled_date"`
	Status        string     `json:"status,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// NewAssignmentChanged stamps a fresh event id and occurrence time.
func NewAssignmentChanged(action Action, assignmentID, userID int64, scheduled civil.Date, status string) AssignmentChanged {
	return AssignmentChanged{
		EventID:       uuid.NewString(),
		Action:        action,
		AssignmentID:  assignmentID,
		UserID:        userID,
		ScheduledDate: scheduled,
		Status:        status,
		OccurredAt:    time.Now().UTC(),
	}
}

// PartitionKey keeps all events of one athlete on one partition, in order.
func (e AssignmentChanged) PartitionKey() string {
	return strconv.FormatInt(e.UserID, 10)
}
