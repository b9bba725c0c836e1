package activity

import "time"

// Type enumerates the recorded sport types the calendar knows how to present.
type Type string

const (
	TypeRide           Type = "Ride"
	TypeVirtualRide    Type = "VirtualRide"
	TypeEBikeRide      Type = "EBikeRide"
	TypeRun            Type = "Run"
	TypeTrailRun       Type = "TrailRun"
	TypeSwim           Type = "Swim"
	TypeWalk           Type = "Walk"
	TypeHike           Type = "Hike"
	TypeWorkout        Type = "Workout"
	TypeWeightTraining Type = "WeightTraining"
	TypeCrossTraining  Type = "CrossTraining"
)

type (
	// Activity is one completed session as synced from the provider. It is never mutated here.
	Activity struct {
		ID         int64  `json:"id"`
		ExternalID string `json:"external_id"`
		UserID     int64  `json:"user_id"`
		Name       string `json:"name"`
		Type       Type   `json:"type"`

		StartDate time.Time `json:"start_date"`
		// StartDateLocal is the recorded wall clock time with its offset, e.g. 2025-07-29T14:00:00+07:00.
		StartDateLocal string `json:"start_date_local"`
		Timezone       string `json:"timezone"`

		ElapsedTime   int     `json:"elapsed_time"`   // seconds
		MovingTime    int     `json:"moving_time"`    // seconds
		RecordingTime int     `json:"recording_time"` // seconds
		Distance      float64 `json:"distance"`       // meters

		AverageSpeed         *float64 `json:"average_speed,omitempty"`
		MaxSpeed             *float64 `json:"max_speed,omitempty"`
		AverageWatts         *float64 `json:"average_watts,omitempty"`
		MaxWatts             *float64 `json:"max_watts,omitempty"`
		WeightedAverageWatts *float64 `json:"weighted_average_watts,omitempty"`
		AverageHeartrate     *float64 `json:"average_heartrate,omitempty"`
		MaxHeartrate         *float64 `json:"max_heartrate,omitempty"`
		AverageCadence       *float64 `json:"average_cadence,omitempty"`
		HasPowerData         bool     `json:"has_power_data"`
		HasHeartrate         bool     `json:"has_heartrate"`

		TrainingLoad    *float64 `json:"training_load,omitempty"`
		IntensityFactor *float64 `json:"intensity_factor,omitempty"`
		TSS             *float64 `json:"tss,omitempty"`

		Source   string     `json:"source"`
		SyncedAt *time.Time `json:"synced_at,omitempty"`
	}

	// GetActivitiesQuery filters activities by owner and local start date, both bounds inclusive.
	GetActivitiesQuery struct {
		UserID        int64
		StartDateFrom string
		StartDateTo   string
		Page          int
		Limit         int
	}

	GetActivitiesResponse struct {
		Success    bool       `json:"success"`
		Activities []Activity `json:"activities"`
		Total      int        `json:"total"`
		Page       int        `json:"page"`
		Limit      int        `json:"limit"`
	}
)
