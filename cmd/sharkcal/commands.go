package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
	"github.com/schoolofsharks/trainingcal/internal/components/calendar"
)

func monthAction(c *cli.Context) error {
	s := newSession(c)
	m, err := s.calendar.Month(c.Context, c.Int64("user"), c.Int("year"), c.Int("month"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	return renderMonth(c.App.Writer, m)
}

// browseAction reads one navigation command per line. Every command starts a new load without
// waiting for the previous one, so quick key presses leave older loads stale; those are
// discarded by the viewer and never printed. Months are requested on the input loop so the last
// key pressed always wins.
func browseAction(c *cli.Context) error {
	s := newSession(c)
	viewer := calendar.NewViewer(s.calendar)
	userID := c.Int64("user")
	year, month := c.Int("year"), c.Int("month")
	if _, err := calendar.ResolveMonth(year, month); err != nil {
		return err
	}

	var (
		wg  sync.WaitGroup
		out sync.Mutex
	)
	show := func(year, month int) {
		pending := viewer.Request(c.Context, userID, year, month)
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := pending.Load()
			out.Lock()
			defer out.Unlock()
			switch {
			case errors.Is(err, calendar.ErrStaleResponse):
				s.logger.Debug().Int("year", year).Int("month", month).Msg("Dropped stale month")
			case err != nil:
				fmt.Fprintf(c.App.Writer, "error: %v\n", err)
			default:
				if err := renderMonth(c.App.Writer, m); err != nil {
					s.logger.Error().Err(err).Int("year", year).Int("month", month).Msg("Failed to render month")
				}
			}
		}()
	}

	show(year, month)
	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "n":
			year, month = calendar.NextMonth(year, month)
		case "p":
			year, month = calendar.PrevMonth(year, month)
		case "r":
			s.cache.Invalidate(userID, year, month)
		case "q":
			wg.Wait()
			return nil
		default:
			continue
		}
		show(year, month)
	}
	wg.Wait()
	return scanner.Err()
}

func assignAction(c *cli.Context) error {
	s := newSession(c)
	duration, intensity := c.Float64("duration"), c.Float64("intensity")
	created, err := s.client.CreateAssignment(c.Context, assignment.CreateAssignmentIn{
		WorkoutLibraryID:    c.Int64("workout"),
		AssignedToUserID:    c.Int64("user"),
		AssignedByUserID:    c.Int64("coach"),
		ScheduledDate:       c.String("date"),
		Priority:            assignment.Priority(c.String("priority")),
		IntensityAdjustment: &intensity,
		DurationAdjustment:  &duration,
		CustomNotes:         c.String("notes"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "assigned #%d on %s\n", created.ID, created.ScheduledDate)
	return nil
}

func unassignAction(c *cli.Context) error {
	id, err := assignmentArg(c)
	if err != nil {
		return err
	}

	s := newSession(c)
	if err := s.client.DeleteAssignment(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted #%d\n", id)
	return nil
}

func statusAction(c *cli.Context) error {
	id, err := assignmentArg(c)
	if err != nil {
		return err
	}
	status := assignment.Status(c.Args().Get(1))
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	s := newSession(c)
	updated, err := s.client.UpdateStatus(c.Context, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "#%d is %s\n", updated.ID, updated.Status)
	return nil
}

func assignmentArg(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("expected an assignment id, got %q", c.Args().First())
	}
	return id, nil
}
