package calendar

import (
	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
)

type (
	Color string
	Icon  string
)

const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorCyan   Color = "cyan"
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorTeal   Color = "teal"
	ColorPurple Color = "purple"
)

const (
	IconBike     Icon = "bike"
	IconRun      Icon = "run"
	IconSwim     Icon = "swim"
	IconWalk     Icon = "walk"
	IconDumbbell Icon = "dumbbell"
	IconActivity Icon = "activity"
)

type activityStyle struct {
	icon  Icon
	color Color
}

var (
	statusColors = map[assignment.Status]Color{
		assignment.StatusCompleted:  ColorGreen,
		assignment.StatusInProgress: ColorBlue,
		assignment.StatusAssigned:   ColorCyan,
		assignment.StatusSkipped:    ColorGray,
		assignment.StatusCancelled:  ColorRed,
	}

	priorityColors = map[assignment.Priority]Color{
		assignment.PriorityUrgent: ColorRed,
		assignment.PriorityHigh:   ColorOrange,
		assignment.PriorityNormal: ColorCyan,
		assignment.PriorityLow:    ColorGray,
	}

	activityStyles = map[activity.Type]activityStyle{
		activity.TypeRide:           {IconBike, ColorOrange},
		activity.TypeVirtualRide:    {IconBike, ColorOrange},
		activity.TypeEBikeRide:      {IconBike, ColorOrange},
		activity.TypeRun:            {IconRun, ColorGreen},
		activity.TypeTrailRun:       {IconRun, ColorGreen},
		activity.TypeSwim:           {IconSwim, ColorBlue},
		activity.TypeWalk:           {IconWalk, ColorTeal},
		activity.TypeHike:           {IconWalk, ColorTeal},
		activity.TypeWorkout:        {IconDumbbell, ColorPurple},
		activity.TypeWeightTraining: {IconDumbbell, ColorPurple},
		activity.TypeCrossTraining:  {IconDumbbell, ColorPurple},
	}
)

// StatusColor never fails; unknown statuses render like assigned ones.
func StatusColor(s assignment.Status) Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return ColorCyan
}

func PriorityColor(p assignment.Priority) Color {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return ColorGray
}

func ActivityStyle(t activity.Type) (Icon, Color) {
	if s, ok := activityStyles[t]; ok {
		return s.icon, s.color
	}
	return IconActivity, ColorGray
}
