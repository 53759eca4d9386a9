// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "time"

// DurationUnit distinguishes a Duration counted in whole days from one
// counted in seconds. The two units are never equal even when numerically
// identical, because DST transitions make "one day" differ from "86400
// seconds" on some dates. See spec §3/§4.1.
type DurationUnit int

const (
	Seconds DurationUnit = iota
	Days
)

// Duration is a signed span of time in one of two units.
type Duration struct {
	unit DurationUnit
	n    int64
}

// NewSecondsDuration builds a seconds-unit Duration.
func NewSecondsDuration(seconds int64) Duration {
	return Duration{unit: Seconds, n: seconds}
}

// NewDaysDuration builds a days-unit Duration.
func NewDaysDuration(days int64) Duration {
	return Duration{unit: Days, n: days}
}

func (d Duration) Unit() DurationUnit { return d.unit }
func (d Duration) Value() int64       { return d.n }
func (d Duration) IsDaily() bool      { return d.unit == Days }
func (d Duration) IsNegative() bool   { return d.n < 0 }

// Equal requires identical unit as well as value: a 7-day Duration and a
// 604800-second Duration are never equal.
func (d Duration) Equal(other Duration) bool {
	return d.unit == other.unit && d.n == other.n
}

// End adds the duration to start, using calendar-day arithmetic for a
// days-unit Duration and wall-clock arithmetic for a seconds-unit one.
func (d Duration) End(start time.Time) time.Time {
	if d.unit == Days {
		return start.AddDate(0, 0, int(d.n))
	}
	return start.Add(time.Duration(d.n) * time.Second)
}

// ToGoDuration converts to a time.Duration via asSeconds, losing the
// days/seconds unit distinction — use only where that distinction does
// not matter (e.g. VALARM TRIGGER rendering).
func (d Duration) ToGoDuration() time.Duration {
	return time.Duration(d.asSeconds()) * time.Second
}

// asSeconds coerces the duration's value to seconds using a calendar day of
// 24 hours, for the purposes of the mixed-unit arithmetic operators below.
func (d Duration) asSeconds() int64 {
	if d.unit == Days {
		return d.n * 86400
	}
	return d.n
}

// Add returns the sum of two Durations. Two Durations of the same unit
// keep that unit; on mismatch both are coerced to seconds, per spec
// §4.1's "mixed units coerce to seconds".
func (d Duration) Add(other Duration) Duration {
	if d.unit == other.unit {
		return Duration{unit: d.unit, n: d.n + other.n}
	}
	return NewSecondsDuration(d.asSeconds() + other.asSeconds())
}

func (d Duration) Sub(other Duration) Duration {
	if d.unit == other.unit {
		return Duration{unit: d.unit, n: d.n - other.n}
	}
	return NewSecondsDuration(d.asSeconds() - other.asSeconds())
}

func (d Duration) Mul(factor int64) Duration {
	return Duration{unit: d.unit, n: d.n * factor}
}

func (d Duration) Div(divisor int64) Duration {
	return Duration{unit: d.unit, n: d.n / divisor}
}

func (d Duration) Negate() Duration {
	return Duration{unit: d.unit, n: -d.n}
}
