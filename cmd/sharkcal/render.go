package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/schoolofsharks/trainingcal/internal/components/calendar"
)

func renderMonth(w io.Writer, m *calendar.Month) error {
	if _, err := fmt.Fprintf(w, "%s %d (user %d)\n", time.Month(m.Month), m.Year, m.UserID); err != nil {
		return err
	}
	if len(m.Days) == 0 {
		_, err := fmt.Fprintln(w, "  nothing recorded or scheduled")
		return err
	}

	dates := make([]string, 0, len(m.Days))
	for date := range m.Days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		day := m.Days[date]
		fmt.Fprintf(w, "%s\n", date)
		for _, a := range day.Activities {
			fmt.Fprintf(w, "  [%s] %s %.1f km %s\n", a.Icon, a.Name, a.Distance/1000, formatSeconds(a.MovingTime))
		}
		for _, wo := range day.Workouts {
			fmt.Fprintf(w, "  (%s) #%d %s %dmin %s\n", wo.StatusColor, wo.ID, wo.WorkoutName, wo.AdjustedDuration, wo.Status)
		}
	}

	var totals calendar.DayTotals
	for _, day := range m.Days {
		totals.Activities += day.Totals.Activities
		totals.Workouts += day.Totals.Workouts
		totals.MovingTime += day.Totals.MovingTime
		totals.Distance += day.Totals.Distance
	}
	_, err := fmt.Fprintf(w, "total: %d activities, %.1f km, %s moving, %d workouts\n",
		totals.Activities, totals.Distance/1000, formatSeconds(totals.MovingTime), totals.Workouts)
	return err
}

func formatSeconds(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}
