// Package client talks to a running calendar server over its REST API. It satisfies the same
// source interfaces as the in-process stores, so the calendar aggregator runs unchanged on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
	"github.com/schoolofsharks/trainingcal/internal/shared/httpx"
)

const pageLimit = 1000

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "client").Logger(),
	}
}

// ActivitiesBetween pages through GET /activities until every activity in [from, to] is read.
func (c *Client) ActivitiesBetween(ctx context.Context, userID int64, from, to civil.Date) ([]activity.Activity, error) {
	all := []activity.Activity{}
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("user", strconv.FormatInt(userID, 10))
		q.Set("start_date_from", from.String())
		q.Set("start_date_to", to.String())
		q.Set("limit", strconv.Itoa(pageLimit))
		q.Set("page", strconv.Itoa(page))

		var resp activity.GetActivitiesResponse
		if err := c.do(ctx, http.MethodGet, "/activities?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Activities...)
		if len(resp.Activities) < pageLimit || len(all) >= resp.Total {
			break
		}
	}
	return all, nil
}

func (c *Client) WorkoutsBetween(ctx context.Context, userID int64, from, to civil.Date) ([]assignment.CalendarWorkout, error) {
	q := url.Values{}
	q.Set("assigned_to_user_id", strconv.FormatInt(userID, 10))
	q.Set("scheduled_from", from.String())
	q.Set("scheduled_to", to.String())

	var resp assignment.ListAssignmentsResponse
	if err := c.do(ctx, http.MethodGet, "/workout-assignments?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Assignments == nil {
		resp.Assignments = []assignment.CalendarWorkout{}
	}
	return resp.Assignments, nil
}

func (c *Client) CreateAssignment(ctx context.Context, in assignment.CreateAssignmentIn) (*assignment.Assignment, error) {
	var resp assignment.AssignmentResponse
	if err := c.do(ctx, http.MethodPost, "/workout-assignments", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Assignment, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id int64) error {
	var resp assignment.DeleteResponse
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/workout-assignments/%d", id), nil, &resp)
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status assignment.Status) (*assignment.Assignment, error) {
	var resp assignment.AssignmentResponse
	path := fmt.Sprintf("/workout-assignments/%d/status", id)
	if err := c.do(ctx, http.MethodPatch, path, assignment.UpdateStatusIn{Status: status}, &resp); err != nil {
		return nil, err
	}
	return &resp.Assignment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Backend call")

	if resp.StatusCode >= 400 {
		return decodeError(method, path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeError maps the server's error body back onto the shared error taxonomy. A 404 without the
// server's error body (a wrong base URL, say) stays a plain error.
func decodeError(method, path string, resp *http.Response) error {
	var body httpx.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body = httpx.ErrorResponse{Error: strings.TrimSpace(string(raw))}
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return apperr.Validation("%s", strings.TrimPrefix(body.Error, apperr.ErrValidation.Error()+": "))
	case resp.StatusCode == http.StatusNotFound && body.Type == "not_found":
		return fmt.Errorf("%s %s: %s: %w", method, path, body.Error, apperr.ErrNotFound)
	default:
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, body.Error)
	}
}
