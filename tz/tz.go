// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package tz resolves TZIDs to Go *time.Location values through the
// system zoneinfo database, and synthesizes a VTIMEZONE from a system IANA
// zoneinfo name on request, per spec §4.6.
package tz

import (
	"fmt"
	"time"

	"github.com/calcore/kcal/model"
)

// Resolver looks up *time.Location values by TZID in the system zoneinfo
// database and caches them. The observances inside a calendar's VTIMEZONE
// blocks are not read.
type Resolver struct {
	byID map[string]*time.Location
}

// NewResolver builds a Resolver pre-loaded with the system zone named by
// each VTIMEZONE block's TZID; a TZID the system database does not know is
// skipped.
func NewResolver(zones []*model.VTimeZone) *Resolver {
	r := &Resolver{byID: make(map[string]*time.Location, len(zones))}
	for _, z := range zones {
		if loc, err := time.LoadLocation(z.TZID); err == nil {
			r.byID[z.TZID] = loc
		}
	}
	return r
}

// Resolve returns the *time.Location for tzid: UTC for an empty tzid, else
// the cached zone, else a fresh system zoneinfo lookup (cached on success).
// A tzid unknown to the system database is an error.
func (r *Resolver) Resolve(tzid string) (*time.Location, error) {
	if tzid == "" {
		return time.UTC, nil
	}
	if loc, ok := r.byID[tzid]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(tzid)
	if err != nil {
		return nil, fmt.Errorf("tz: unknown TZID %q: %w", tzid, err)
	}
	r.byID[tzid] = loc
	return loc, nil
}

// Synthesize builds a minimal VTimeZone for an IANA zone name by sampling
// its standard and (if any) daylight offsets around the given reference
// year, for calendars that need to emit a VTIMEZONE block for a zone they
// only know by name.
func Synthesize(tzid string, referenceYear int) (*model.VTimeZone, error) {
	loc, err := time.LoadLocation(tzid)
	if err != nil {
		return nil, fmt.Errorf("tz: cannot synthesize VTIMEZONE for %q: %w", tzid, err)
	}

	jan := time.Date(referenceYear, time.January, 1, 0, 0, 0, 0, loc)
	jul := time.Date(referenceYear, time.July, 1, 0, 0, 0, 0, loc)

	janName, janOffset := jan.Zone()
	julName, julOffset := jul.Zone()

	vtz := &model.VTimeZone{TZID: tzid}
	vtz.Observances = append(vtz.Observances, model.TZObservance{
		Daylight:   false,
		OffsetFrom: formatOffset(janOffset),
		OffsetTo:   formatOffset(janOffset),
		TZName:     janName,
	})
	if janOffset != julOffset {
		vtz.Observances = append(vtz.Observances, model.TZObservance{
			Daylight:   true,
			OffsetFrom: formatOffset(janOffset),
			OffsetTo:   formatOffset(julOffset),
			TZName:     julName,
		})
	}
	return vtz, nil
}

// formatOffset renders a UTC offset in seconds as the signed ±HHMM[SS]
// form RFC 5545 §3.2.17 requires.
func formatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if s != 0 {
		return fmt.Sprintf("%s%02d%02d%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d%02d", sign, h, m)
}
