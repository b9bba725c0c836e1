package workout

type (
	// Template is a reusable workout from the library. Assignments scale its duration and intensity.
	Template struct {
		ID                int64    `json:"id"`
		Name              string   `json:"name"`
		WorkoutType       string   `json:"workout_type"`
		Description       string   `json:"description,omitempty"`
		EstimatedDuration int      `json:"estimated_duration"` // minutes
		DifficultyLevel   string   `json:"difficulty_level"`
		TargetTSS         *float64 `json:"target_tss,omitempty"`
	}

	ListTemplatesQuery struct {
		WorkoutType string
	}

	ListTemplatesResponse struct {
		Success   bool       `json:"success"`
		Templates []Template `json:"templates"`
	}

	GetTemplateResponse struct {
		Success  bool     `json:"success"`
		Template Template `json:"template"`
	}
)
