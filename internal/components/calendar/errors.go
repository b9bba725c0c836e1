package calendar

import (
	"errors"
	"fmt"
)

// ErrStaleResponse is returned by Viewer when a newer month was requested while a load was in
// flight. The stale result is discarded.
var ErrStaleResponse = errors.New("stale calendar response")

// ScheduleLoadError reports a month that could not be assembled because a source failed. No
// partial month is ever returned alongside it.
type ScheduleLoadError struct {
	UserID int64
	Year   int
	Month  int
	Err    error
}

func (e *ScheduleLoadError) Error() string {
	return fmt.Sprintf("load schedule for user %d %04d-%02d: %v", e.UserID, e.Year, e.Month, e.Err)
}

func (e *ScheduleLoadError) Unwrap() error { return e.Err }
