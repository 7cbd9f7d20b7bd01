// Package orgmeta looks up organization, location, and role metadata
// needed to interpret a raw demand vector (which week-start day it uses,
// which timezone its buckets are in).
package orgmeta

import (
	"context"
	"fmt"
	"sync"
)

// Org describes the scheduling metadata shiftsolve needs for one
// organization/location pair.
type Org struct {
	OrgID      string
	LocationID string
	Timezone   string // IANA name, e.g. "America/Los_Angeles"
	WeekStart  string // one of config.DaysOfWeek
	BucketMins int    // minutes per demand bucket, typically 60
}

// ErrNotFound is returned by Lookup when no Org is registered under the
// given key.
type ErrNotFound struct {
	OrgID, LocationID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("orgmeta: no org registered for org_id=%q location_id=%q", e.OrgID, e.LocationID)
}

// Store resolves org/location metadata. The HTTP-backed implementation
// this interface anticipates is not built: spec.md does not name a wire
// contract for it, so Fixture is the only implementation, sufficient for
// the CLI and test surface shiftsolve actually exercises.
type Store interface {
	Lookup(ctx context.Context, orgID, locationID string) (*Org, error)
}

// Fixture is an in-memory Store seeded at construction, standing in for
// an organization directory service.
type Fixture struct {
	mu   sync.RWMutex
	orgs map[string]Org
}

// NewFixture builds a Fixture preloaded with orgs.
func NewFixture(orgs ...Org) *Fixture {
	f := &Fixture{orgs: make(map[string]Org, len(orgs))}
	for _, o := range orgs {
		f.orgs[key(o.OrgID, o.LocationID)] = o
	}
	return f
}

// Put registers or replaces an Org entry.
func (f *Fixture) Put(o Org) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgs[key(o.OrgID, o.LocationID)] = o
}

// Lookup implements Store.
func (f *Fixture) Lookup(ctx context.Context, orgID, locationID string) (*Org, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	o, ok := f.orgs[key(orgID, locationID)]
	if !ok {
		return nil, ErrNotFound{OrgID: orgID, LocationID: locationID}
	}
	return &o, nil
}

func key(orgID, locationID string) string {
	return orgID + "/" + locationID
}
