package publish

import (
	"context"
	"sync"
	"time"

	"github.com/staffjoy/shiftsolve/internal/wallclock"
)

// record is one published batch, retained by Memory for inspection.
type record struct {
	OrgID, LocationID string
	Shifts            []wallclock.WallClockShift
}

// Memory is a Client fake that records every Publish call instead of
// sending anything, for tests.
type Memory struct {
	mu      sync.Mutex
	records []record
}

// NewMemory returns an empty Memory client.
func NewMemory() *Memory {
	return &Memory{}
}

// Publish implements Client.
func (m *Memory) Publish(ctx context.Context, orgID, locationID string, shifts []wallclock.WallClockShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record{OrgID: orgID, LocationID: locationID, Shifts: shifts})
	return nil
}

// Published returns every shift previously published for orgID/locationID,
// across all Publish calls, in call order.
func (m *Memory) Published(orgID, locationID string) []wallclock.WallClockShift {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []wallclock.WallClockShift
	for _, r := range m.records {
		if r.OrgID == orgID && r.LocationID == locationID {
			out = append(out, r.Shifts...)
		}
	}
	return out
}

// ExistingShifts implements ExistingShiftsSource over the same records
// Publish accumulates, restricted to shifts overlapping [start, end).
func (m *Memory) ExistingShifts(ctx context.Context, orgID, locationID string, start, end time.Time) ([]wallclock.WallClockShift, error) {
	var out []wallclock.WallClockShift
	for _, s := range m.Published(orgID, locationID) {
		if s.Start.Before(end) && s.End.After(start) {
			out = append(out, s)
		}
	}
	return out, nil
}
