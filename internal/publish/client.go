// Package publish delivers resolved wall-clock shifts to an external
// scheduling system.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/staffjoy/shiftsolve/internal/wallclock"
)

// Client publishes a batch of resolved shifts for one org/location.
type Client interface {
	Publish(ctx context.Context, orgID, locationID string, shifts []wallclock.WallClockShift) error
}

// ExistingShiftsSource looks up shifts already published for one
// org/location within [start, end), the collaborator
// SubtractExisting needs before a fresh Splitter run, mirroring
// chomp/tasking.py's own upstream query ahead of demand subtraction.
type ExistingShiftsSource interface {
	ExistingShifts(ctx context.Context, orgID, locationID string, start, end time.Time) ([]wallclock.WallClockShift, error)
}

// HTTPClient posts newline-delimited JSON to a configured endpoint. It
// is the only outbound HTTP client shiftsolve needs; none of the pack's
// dependencies offer a client-side counterpart to httprouter, so stdlib
// net/http is used directly here.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

// NewHTTPClient builds an HTTPClient posting to endpoint.
func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{endpoint: endpoint, http: &http.Client{}}
}

type publishRecord struct {
	OrgID      string `json:"org_id"`
	LocationID string `json:"location_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// Publish implements Client, encoding one newline-delimited JSON object
// per shift in a single request body.
func (c *HTTPClient) Publish(ctx context.Context, orgID, locationID string, shifts []wallclock.WallClockShift) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, s := range shifts {
		rec := publishRecord{
			OrgID:      orgID,
			LocationID: locationID,
			Start:      s.Start.Format(rfc3339Milli),
			End:        s.End.Format(rfc3339Milli),
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("publish: encoding shift: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("publish: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("publish: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("publish: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// ExistingShifts implements ExistingShiftsSource by GETting the same
// endpoint Publish posts to, with the org/location/window as query
// parameters, and decoding the newline-delimited JSON response body the
// same way Publish encodes it.
func (c *HTTPClient) ExistingShifts(ctx context.Context, orgID, locationID string, start, end time.Time) ([]wallclock.WallClockShift, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("publish: building existing-shifts request: %w", err)
	}
	q := req.URL.Query()
	q.Set("org_id", orgID)
	q.Set("location_id", locationID)
	q.Set("start", start.Format(rfc3339Milli))
	q.Set("end", end.Format(rfc3339Milli))
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("publish: existing-shifts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("publish: existing-shifts endpoint returned status %d", resp.StatusCode)
	}

	var out []wallclock.WallClockShift
	dec := json.NewDecoder(resp.Body)
	for dec.More() {
		var rec publishRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("publish: decoding existing shift: %w", err)
		}
		start, err := time.Parse(rfc3339Milli, rec.Start)
		if err != nil {
			return nil, fmt.Errorf("publish: parsing existing shift start: %w", err)
		}
		end, err := time.Parse(rfc3339Milli, rec.End)
		if err != nil {
			return nil, fmt.Errorf("publish: parsing existing shift end: %w", err)
		}
		out = append(out, wallclock.WallClockShift{Start: start, End: end})
	}
	return out, nil
}

const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00"
