// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "time"

// Period is either (start, end) or (start, duration); the two forms are
// interchangeable and Period is comparable via Equal.
type Period struct {
	Start       time.Time
	end         time.Time
	dur         Duration
	hasDuration bool
}

// NewPeriodFromEnd builds a Period expressed as (start, end).
func NewPeriodFromEnd(start, end time.Time) Period {
	return Period{Start: start, end: end}
}

// NewPeriodFromDuration builds a Period expressed as (start, duration).
func NewPeriodFromDuration(start time.Time, dur Duration) Period {
	return Period{Start: start, dur: dur, hasDuration: true}
}

// HasDuration reports whether the period was constructed from a duration
// rather than an explicit end.
func (p Period) HasDuration() bool { return p.hasDuration }

// End returns the period's end instant, computing it from the duration when
// the period was constructed that way.
func (p Period) End() time.Time {
	if p.hasDuration {
		return p.dur.End(p.Start)
	}
	return p.end
}

// Duration returns the period's duration, computing it from the end
// instant when the period was constructed that way.
func (p Period) Duration() Duration {
	if p.hasDuration {
		return p.dur
	}
	return NewSecondsDuration(int64(p.end.Sub(p.Start).Seconds()))
}

func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End().Equal(other.End())
}
