// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/calcore/kcal/rrule"
)

// Todo is the VTODO incidence variant: an optional DUE and/or DURATION,
// plus completion tracking. Shares Incidence's memory layout, per event.go.
type Todo Incidence

func NewTodo() *Todo {
	inc := newIncidence(TypeTodo)
	inc.status = StatusNeedsAction
	return (*Todo)(&inc)
}

func (t *Todo) base() *Incidence   { return (*Incidence)(t) }
func (t *Todo) UID() string        { return t.base().UID() }
func (t *Todo) Incidence() *Incidence { return t.base() }

func (t *Todo) StartDate() time.Time     { return t.base().DTStart() }
func (t *Todo) SetStartDate(tm time.Time) { t.base().SetDTStart(tm) }

func (t *Todo) SetDue(tm time.Time) {
	if t.ReadOnly() {
		return
	}
	t.due, t.hasDue = tm, true
	t.notify()
}

func (t *Todo) Due() (time.Time, bool) { return t.due, t.hasDue }

func (t *Todo) SetDuration(d Duration) {
	if t.ReadOnly() {
		return
	}
	t.eventDur, t.hasEventDur = d, true
}

func (t *Todo) Duration() (Duration, bool) { return t.eventDur, t.hasEventDur }

func (t *Todo) IsCompleted() bool { return t.status == StatusCompleted }

// SetCompleted marks the to-do done at the given instant. If the to-do
// recurs, it instead advances the recurrence past `at` and leaves the
// to-do open for its next occurrence, mirroring kcalendarcore's
// Todo::setCompleted behavior (spec §4.4): (a) if dt-start is set, both
// dt-start and dt-due shift by the recurrence step so their delta is
// preserved; (b) otherwise, only dt-due shifts.
func (t *Todo) SetCompleted(at time.Time) {
	if t.ReadOnly() {
		return
	}
	if t.Recurs() {
		t.percentComplete = 0
		rec := t.Recurrence()
		hasStart := !t.StartDate().IsZero()
		if next, ok := rec.NextOccurrence(at); ok {
			if hasStart {
				delta := next.Sub(t.StartDate())
				if due, ok := t.Due(); ok {
					t.SetDue(due.Add(delta))
				}
				t.SetDTStart(next)
			} else if _, ok := t.Due(); ok {
				t.SetDue(next)
			}
		}
		t.notify()
		return
	}
	t.completed, t.hasCompleted = at, true
	t.percentComplete = 100
	t.base().SetStatus(StatusCompleted)
}

func (t *Todo) Completed() (time.Time, bool) { return t.completed, t.hasCompleted }

// SetPercentComplete silently rejects values outside [0, 100]. Reaching
// 100 is equivalent to calling SetCompleted with the current time.
func (t *Todo) SetPercentComplete(pct int) {
	if t.ReadOnly() || pct < 0 || pct > 100 {
		return
	}
	if pct == 100 {
		t.SetCompleted(nowFunc())
		return
	}
	t.percentComplete = pct
	if pct > 0 {
		t.base().SetStatus(StatusInProcess)
	}
}

func (t *Todo) PercentComplete() int { return t.percentComplete }

func (t *Todo) Recurrence() *rrule.Recurrence { return t.base().Recurrence() }
func (t *Todo) Recurs() bool                  { return t.base().Recurs() }
func (t *Todo) Status() Status                { return t.base().Status() }
