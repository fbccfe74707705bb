package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/util"
)

const defaultTimeout = 15 * time.Second

// Client talks to the remote time-tracking store. All calls carry the
// bearer credential obtained at login; failures are returned as
// *RemoteRejection (server said no) or *ConnectionError (transport).
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client for the given server.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// do issues a single request. A nil payload sends no body; a non-nil out
// receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteRejection{
			StatusCode: resp.StatusCode,
			Detail:     decodeErrorDetail(data),
		}
	}

	if out != nil {
		if err := sonic.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// FetchProjects returns all projects, filling the default color for any
// project the server returns without one.
func (c *Client) FetchProjects(ctx context.Context) ([]model.Project, error) {
	var env listEnvelope[wireProject]
	if err := c.do(ctx, http.MethodGet, "/project/get", nil, &env); err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(env.Data))
	for _, wp := range env.Data {
		if wp.Name == "" {
			util.LogWarn("Skipping project without a name in server payload")
			continue
		}
		p := model.Project{
			ID:    string(wp.ID),
			Name:  wp.Name,
			Color: wp.Color,
		}
		if p.Color == "" {
			p.Color = model.DefaultProjectColor
		}
		if wp.Bill != nil {
			p.HourlyRate = *wp.Bill
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// AddProject creates a new project.
func (c *Client) AddProject(ctx context.Context, name string, rate float64, color string) error {
	return c.do(ctx, http.MethodPost, "/project/add", addProjectRequest{
		ProjectName: name,
		Bill:        rate,
		Color:       color,
	}, nil)
}

// UpdateProject updates the color and hourly rate of an existing project.
func (c *Client) UpdateProject(ctx context.Context, name string, rate float64, color string) error {
	return c.do(ctx, http.MethodPut, "/project/update/"+url.PathEscape(name), updateProjectRequest{
		Bill:  rate,
		Color: color,
	}, nil)
}

// DeleteProject deletes a project. The server cascades the delete to all
// events of that project, so callers must refetch both collections.
func (c *Client) DeleteProject(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/project/delete/"+url.PathEscape(name), nil, nil)
}

// FetchEvents returns all time entries ordered as the server sent them.
// Malformed rows are skipped with a warning rather than failing the
// whole list.
func (c *Client) FetchEvents(ctx context.Context) ([]model.TimeEntry, error) {
	var env listEnvelope[json.RawMessage]
	if err := c.do(ctx, http.MethodGet, "/event/eventos/", nil, &env); err != nil {
		return nil, err
	}

	entries := make([]model.TimeEntry, 0, len(env.Data))
	for _, raw := range env.Data {
		var we wireEvent
		if err := sonic.Unmarshal(raw, &we); err != nil {
			util.LogWarnf("Skipping malformed event row: %v", err)
			continue
		}
		entry, err := we.toEntry()
		if err != nil {
			util.LogWarnf("Skipping invalid event row: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (we wireEvent) toEntry() (model.TimeEntry, error) {
	if we.ID == "" {
		return model.TimeEntry{}, fmt.Errorf("event without id")
	}
	if we.Project == "" {
		return model.TimeEntry{}, fmt.Errorf("event %s without project", we.ID)
	}
	if we.Start.IsZero() || we.End.IsZero() {
		return model.TimeEntry{}, fmt.Errorf("event %s without dates", we.ID)
	}
	return model.TimeEntry{
		ID:          string(we.ID),
		Project:     we.Project,
		Description: we.Description,
		Start:       we.Start.Time,
		End:         we.End.Time,
		DurationSec: we.Duration,
	}, nil
}

// CreateTimerEvent submits a stopwatch-derived entry. The server implies
// start/end from the duration.
func (c *Client) CreateTimerEvent(ctx context.Context, project, description string, durationSec int64) error {
	return c.do(ctx, http.MethodPost, "/event/eventos/", timerEventRequest{
		Project:     project,
		Description: description,
		Duration:    durationSec,
	}, nil)
}

// CreateManualEvent submits an entry with explicit start and end.
func (c *Client) CreateManualEvent(ctx context.Context, project, description string, start, end time.Time) error {
	return c.do(ctx, http.MethodPost, "/event/eventos/manual/", manualEventRequest{
		Project:     project,
		Description: description,
		Start:       start.Format(time.RFC3339),
		End:         end.Format(time.RFC3339),
	}, nil)
}

// UpdateEventDates moves or resizes an entry.
func (c *Client) UpdateEventDates(ctx context.Context, id string, start, end time.Time) error {
	return c.do(ctx, http.MethodPut, "/event/"+url.PathEscape(id)+"/dates", updateDatesRequest{
		Start: start.Format(time.RFC3339),
		End:   end.Format(time.RFC3339),
	}, nil)
}

// DeleteEvent deletes a single entry.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/event/eventos/"+url.PathEscape(id), nil, nil)
}

// Report is the aggregate the report endpoint computes server-side.
type Report struct {
	Message string
	Entries []model.TimeEntry
	Summary []ReportSummary
}

// FetchReport fetches the aggregated report for a date range. The report
// endpoint authenticates via a token query parameter rather than the
// bearer header.
func (c *Client) FetchReport(ctx context.Context, start, end string) (*Report, error) {
	path := "/report/get?token=" + url.QueryEscape(c.token)
	var env reportEnvelope
	if err := c.do(ctx, http.MethodPost, path, reportRequest{Start: start, End: end}, &env); err != nil {
		return nil, err
	}
	if env.Status != "success" {
		detail := env.Message
		if detail == "" {
			detail = "report request failed"
		}
		return nil, &RemoteRejection{StatusCode: http.StatusOK, Detail: detail}
	}

	report := &Report{Message: env.Message}
	for _, we := range env.Data {
		entry, err := we.toEntry()
		if err != nil {
			util.LogWarnf("Skipping invalid report row: %v", err)
			continue
		}
		report.Entries = append(report.Entries, entry)
	}
	report.Summary = env.Summary
	return report, nil
}
