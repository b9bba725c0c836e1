package calendar

import (
	"strings"

	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
)

// LocalDate returns the calendar date an activity was recorded on: the part of start_date_local
// before "T". The offset is ignored so the date never shifts with the viewer's zone.
func LocalDate(a activity.Activity) string {
	day, _, _ := strings.Cut(a.StartDateLocal, "T")
	return day
}

// GroupActivitiesByDate partitions activities by local date, keeping input order within a day.
func GroupActivitiesByDate(activities []activity.Activity) map[string][]activity.Activity {
	byDate := make(map[string][]activity.Activity)
	for _, a := range activities {
		key := LocalDate(a)
		byDate[key] = append(byDate[key], a)
	}
	return byDate
}

// GroupWorkoutsByDate partitions workouts by scheduled date. Identical assignments stay separate
// entries.
func GroupWorkoutsByDate(workouts []assignment.CalendarWorkout) map[string][]assignment.CalendarWorkout {
	byDate := make(map[string][]assignment.CalendarWorkout)
	for _, w := range workouts {
		key := w.ScheduledDate.String()
		byDate[key] = append(byDate[key], w)
	}
	return byDate
}

// MergeDays joins both mappings into one Day per date that has at least one item.
func MergeDays(activitiesByDate map[string][]activity.Activity, workoutsByDate map[string][]assignment.CalendarWorkout) map[string]Day {
	days := make(map[string]Day, len(activitiesByDate)+len(workoutsByDate))
	day := func(date string) Day {
		d, ok := days[date]
		if !ok {
			d = Day{
				Date:       date,
				Activities: []CalendarActivity{},
				Workouts:   []ScheduledWorkout{},
			}
		}
		return d
	}

	for date, activities := range activitiesByDate {
		d := day(date)
		for _, a := range activities {
			icon, color := ActivityStyle(a.Type)
			d.Activities = append(d.Activities, CalendarActivity{Activity: a, Icon: icon, Color: color})
			d.Totals.Activities++
			d.Totals.MovingTime += a.MovingTime
			d.Totals.Distance += a.Distance
			if a.TSS != nil {
				d.Totals.TSS += *a.TSS
			}
		}
		days[date] = d
	}

	for date, workouts := range workoutsByDate {
		d := day(date)
		for _, w := range workouts {
			d.Workouts = append(d.Workouts, ScheduledWorkout{
				CalendarWorkout: w,
				StatusColor:     StatusColor(w.Status),
				PriorityColor:   PriorityColor(w.Priority),
			})
			d.Totals.Workouts++
			d.Totals.PlannedDuration += w.AdjustedDuration
		}
		days[date] = d
	}
	return days
}
