package calendar

import (
	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
)

type (
	// MonthlyPlan holds exactly the assignments scheduled between the first and last day of the
	// month, both inclusive.
	MonthlyPlan struct {
		Year     int                          `json:"year"`
		Month    int                          `json:"month"`
		Workouts []assignment.CalendarWorkout `json:"workouts"`
	}

	// Month is the merged calendar of one athlete's month. Values handed out by the cache are
	// shared and must not be modified.
	Month struct {
		UserID     int64               `json:"user_id"`
		Year       int                 `json:"year"`
		Month      int                 `json:"month"`
		Range      DateRange           `json:"range"`
		Plan       MonthlyPlan         `json:"plan"`
		Activities []activity.Activity `json:"activities"`
		Days       map[string]Day      `json:"days"`
	}

	Day struct {
		Date       string             `json:"date"`
		Activities []CalendarActivity `json:"activities"`
		Workouts   []ScheduledWorkout `json:"workouts"`
		Totals     DayTotals          `json:"totals"`
	}

	DayTotals struct {
		Activities      int     `json:"activities"`
		Workouts        int     `json:"workouts"`
		MovingTime      int     `json:"moving_time"` // seconds
		Distance        float64 `json:"distance"`    // meters
		TSS             float64 `json:"tss"`
		PlannedDuration int     `json:"planned_duration"` // minutes, adjusted
	}

	CalendarActivity struct {
		activity.Activity
		Icon  Icon  `json:"icon"`
		Color Color `json:"color"`
	}

	ScheduledWorkout struct {
		assignment.CalendarWorkout
		StatusColor   Color `json:"status_color"`
		PriorityColor Color `json:"priority_color"`
	}

	MonthResponse struct {
		Success bool   `json:"success"`
		Month   *Month `json:"month"`
	}

	PlanResponse struct {
		Success bool         `json:"success"`
		Plan    *MonthlyPlan `json:"plan"`
	}
)
