package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// wireID tolerates servers that emit ids as numbers or strings.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		*id = wireID(s)
		return nil
	}
	var n int64
	if err := sonic.Unmarshal(data, &n); err == nil {
		*id = wireID(strconv.FormatInt(n, 10))
		return nil
	}
	return fmt.Errorf("id must be a string or number")
}

// wireTime parses the server's timestamp strings: RFC 3339 with or
// without a zone offset.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (wt *wireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			wt.Time = t
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

// listEnvelope is the server's success envelope for collection endpoints.
type listEnvelope[T any] struct {
	Status string `json:"status"`
	Data   []T    `json:"data"`
}

// wireProject is the remote project representation.
type wireProject struct {
	ID    wireID   `json:"id"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Bill  *float64 `json:"bill"`
}

// wireEvent is the remote time-entry representation.
type wireEvent struct {
	ID          wireID   `json:"id"`
	Project     string   `json:"project"`
	Description string   `json:"descripcion"`
	Start       wireTime `json:"fecha_inicio"`
	End         wireTime `json:"fecha_fin"`
	Duration    int64    `json:"duracion"`
}

// addProjectRequest is the POST /project/add payload.
type addProjectRequest struct {
	ProjectName string  `json:"project_name"`
	Bill        float64 `json:"bill"`
	Color       string  `json:"color"`
}

// updateProjectRequest is the PUT /project/update/{name} payload.
type updateProjectRequest struct {
	Bill  float64 `json:"bill"`
	Color string  `json:"color"`
}

// timerEventRequest is the duration-based POST /event/eventos/ payload;
// the server derives start/end as "now minus duration" to "now".
type timerEventRequest struct {
	Project     string `json:"project"`
	Description string `json:"descripcion"`
	Duration    int64  `json:"duracion"`
}

// manualEventRequest is the explicit start/end POST payload.
type manualEventRequest struct {
	Project     string `json:"project"`
	Description string `json:"descripcion"`
	Start       string `json:"fecha_inicio"`
	End         string `json:"fecha_fin"`
}

// updateDatesRequest is the PUT /event/{id}/dates payload.
type updateDatesRequest struct {
	Start string `json:"fecha_inicio"`
	End   string `json:"fecha_fin"`
}

// reportRequest is the POST /report/get payload.
type reportRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportSummary is the per-project aggregate in a report response.
type ReportSummary struct {
	Project      string `json:"project"`
	TotalSeconds int64  `json:"total_seconds"`
}

// reportEnvelope is the report endpoint's success envelope.
type reportEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    []wireEvent     `json:"data"`
	Summary []ReportSummary `json:"summary"`
}
