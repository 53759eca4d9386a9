// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/calcore/kcal/rrule"
)

// Event is the VEVENT incidence variant: a DTSTART plus either a DTEND or
// a DURATION, never both (spec §4.4). It shares Incidence's memory layout
// so that *Incidence values of kind TypeEvent convert to *Event for free.
type Event Incidence

// NewEvent returns an empty, writable Event with a fresh UID.
func NewEvent() *Event {
	inc := newIncidence(TypeEvent)
	inc.status = StatusNone
	return (*Event)(&inc)
}

func (e *Event) base() *Incidence { return (*Incidence)(e) }

func (e *Event) UID() string               { return e.base().UID() }
func (e *Event) SetDTStart(t time.Time)    { e.base().SetDTStart(t) }
func (e *Event) DTStart() time.Time        { return e.base().DTStart() }
func (e *Event) Incidence() *Incidence     { return e.base() }

// SetDTEnd sets an explicit end time and clears any DURATION, per spec
// §4.4's mutual-exclusivity rule.
func (e *Event) SetDTEnd(t time.Time) {
	if e.ReadOnly() {
		return
	}
	e.dtEnd, e.hasDTEnd = t, true
	e.hasEventDur = false
	e.notify()
}

// SetDuration sets a DURATION and clears any explicit DTEND.
func (e *Event) SetDuration(d Duration) {
	if e.ReadOnly() {
		return
	}
	e.eventDur, e.hasEventDur = d, true
	e.hasDTEnd = false
	e.notify()
}

// DTEnd returns the event's end time, computing it from DURATION when only
// a duration was set. Returns DTStart for an instantaneous event with
// neither DTEND nor DURATION.
func (e *Event) DTEnd() time.Time {
	if e.hasDTEnd {
		return e.dtEnd
	}
	if e.hasEventDur {
		return e.eventDur.End(e.DTStart())
	}
	return e.DTStart()
}

func (e *Event) HasEndTime() bool { return e.hasDTEnd || e.hasEventDur }

// IsMultiDay reports whether the event's [DTSTART, DTEND) span crosses a
// calendar-day boundary. DTEND is exclusive, so an end falling exactly at
// midnight belongs to the previous day for this purpose: an event from
// 00:00 to 00:00 the next day is single-day, not two days.
func (e *Event) IsMultiDay() bool {
	start, end := e.DTStart(), e.DTEnd()
	if end.IsZero() || !end.After(start) {
		return false
	}
	if isMidnight(end) {
		end = end.Add(-time.Nanosecond)
	}
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func (e *Event) Transparent() bool     { return e.transparent }
func (e *Event) SetTransparent(v bool) { e.transparent = v }

func (e *Event) Summary() (string, bool)           { return e.base().Summary() }
func (e *Event) SetSummary(text string, rich bool) { e.base().SetSummary(text, rich) }
func (e *Event) Status() Status                    { return e.base().Status() }
func (e *Event) SetStatus(s Status)                { e.base().SetStatus(s) }
func (e *Event) Recurrence() *rrule.Recurrence      { return e.base().Recurrence() }
func (e *Event) Recurs() bool                       { return e.base().Recurs() }
