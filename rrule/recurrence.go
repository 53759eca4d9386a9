// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import (
	"sort"
	"time"
)

// Observer is notified whenever a Recurrence is mutated. Incidences
// implement this to keep their dirty-field tracker in sync without this
// package importing the incidence model (see spec §9 "Recurrence ↔
// Incidence back-link").
type Observer interface {
	RecurrenceUpdated()
}

// RDateValueType distinguishes the three RDATE value forms RFC 5545 allows.
type RDateValueType int

const (
	RDateDate RDateValueType = iota
	RDateDateTime
	RDateDateTimePeriod
)

// RDatePeriod is the (start, end) pair an RDATE may carry instead of a bare
// instant.
type RDatePeriod struct {
	Start time.Time
	End   time.Time
}

// RDate is one RDATE entry.
type RDate struct {
	Type   RDateValueType
	Time   time.Time
	Period RDatePeriod
}

// ExDateValueType distinguishes EXDATE;VALUE=DATE from the default DATE-TIME.
type ExDateValueType int

const (
	ExDateDate ExDateValueType = iota
	ExDateDateTime
)

// ExDate is one EXDATE entry.
type ExDate struct {
	Type ExDateValueType
	Time time.Time
}

// Recurrence is the full recurrence definition of one incidence: its
// start, the RRULEs/EXRULEs/RDATEs/EXDATEs that define the occurrence
// multi-set, and the observers to notify on mutation.
type Recurrence struct {
	Start  time.Time
	allDay bool

	RRules  []*RecurrenceRule
	ExRules []*RecurrenceRule
	RDates  []RDate
	ExDates []ExDate

	observers []Observer
}

// NewRecurrence creates a Recurrence anchored at start.
func NewRecurrence(start time.Time, allDay bool) *Recurrence {
	return &Recurrence{Start: start, allDay: allDay}
}

func (r *Recurrence) notify() {
	for _, o := range r.observers {
		o.RecurrenceUpdated()
	}
}

// AddObserver registers an observer to be notified of future mutations.
func (r *Recurrence) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// RemoveObserver deregisters a previously added observer.
func (r *Recurrence) RemoveObserver(o Observer) {
	for i, existing := range r.observers {
		if existing == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Recurrence) SetStart(t time.Time) {
	r.Start = t
	r.notify()
}

// AllDay reports whether this recurrence produces all-day occurrences.
func (r *Recurrence) AllDay() bool { return r.allDay }

// SetAllDay propagates the all-day flag to every child rule, per spec §4.2.
func (r *Recurrence) SetAllDay(allDay bool) {
	r.allDay = allDay
	for _, rule := range r.RRules {
		rule.AllDay = allDay
	}
	for _, rule := range r.ExRules {
		rule.AllDay = allDay
	}
	r.notify()
}

// AddRRule adds an inclusion rule.
func (r *Recurrence) AddRRule(rule *RecurrenceRule) {
	rule.AllDay = r.allDay
	r.RRules = append(r.RRules, rule)
	r.notify()
}

// AddExRule adds an exclusion rule.
func (r *Recurrence) AddExRule(rule *RecurrenceRule) {
	rule.AllDay = r.allDay
	r.ExRules = append(r.ExRules, rule)
	r.notify()
}

// AddRDate adds a bare RDATE instant.
func (r *Recurrence) AddRDate(t time.Time, typ RDateValueType) {
	r.RDates = append(r.RDates, RDate{Type: typ, Time: t})
	r.notify()
}

// AddRDatePeriod adds an RDATE;VALUE=PERIOD entry.
func (r *Recurrence) AddRDatePeriod(period RDatePeriod) {
	r.RDates = append(r.RDates, RDate{Type: RDateDateTimePeriod, Time: period.Start, Period: period})
	r.notify()
}

// AddExDate adds an EXDATE entry.
func (r *Recurrence) AddExDate(t time.Time, typ ExDateValueType) {
	r.ExDates = append(r.ExDates, ExDate{Type: typ, Time: t})
	r.notify()
}

// Duration reports the primary rule's COUNT, if any.
func (r *Recurrence) Duration() (int, bool) {
	if len(r.RRules) == 0 || r.RRules[0].Count == nil {
		return 0, false
	}
	return *r.RRules[0].Count, true
}

// SetDuration sets the primary rule's COUNT, clearing its UNTIL.
func (r *Recurrence) SetDuration(count int) {
	if len(r.RRules) == 0 {
		return
	}
	r.RRules[0].Count = &count
	r.RRules[0].Until = nil
	r.notify()
}

// EndDate reports the primary rule's UNTIL, if any.
func (r *Recurrence) EndDate() (time.Time, bool) {
	if len(r.RRules) == 0 || r.RRules[0].Until == nil {
		return time.Time{}, false
	}
	return *r.RRules[0].Until, true
}

// SetEndDate sets the primary rule's UNTIL, clearing its COUNT.
func (r *Recurrence) SetEndDate(t time.Time) {
	if len(r.RRules) == 0 {
		return
	}
	r.RRules[0].Until = &t
	r.RRules[0].Count = nil
	r.notify()
}

// TimesInInterval returns every occurrence in [from, to], inclusive,
// ordered and de-duplicated, per spec §4.2.
func (r *Recurrence) TimesInInterval(from, to time.Time) []time.Time {
	included := make(map[int64]time.Time)

	add := func(t time.Time) {
		included[t.UnixNano()] = t
	}

	if !r.Start.Before(from) && !r.Start.After(to) {
		add(r.Start)
	}
	for _, rule := range r.RRules {
		for _, t := range rule.Expand(r.Start, from, to) {
			add(t)
		}
	}
	for _, rd := range r.RDates {
		if !rd.Time.Before(from) && !rd.Time.After(to) {
			add(rd.Time)
		}
	}

	excludeExact := make(map[int64]bool)
	excludeDates := make(map[string]bool)
	for _, rule := range r.ExRules {
		for _, t := range rule.Expand(r.Start, from, to) {
			excludeExact[t.UnixNano()] = true
		}
	}
	for _, ed := range r.ExDates {
		switch ed.Type {
		case ExDateDate:
			excludeDates[dateKey(ed.Time)] = true
		default:
			excludeExact[ed.Time.UnixNano()] = true
		}
	}

	out := make([]time.Time, 0, len(included))
	for key, t := range included {
		if excludeExact[key] {
			continue
		}
		if excludeDates[dateKey(t)] {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func dateKey(t time.Time) string {
	return t.Format("20060102")
}

// RecursAt reports whether the recurrence produces an occurrence at
// exactly t.
func (r *Recurrence) RecursAt(t time.Time) bool {
	times := r.TimesInInterval(t, t)
	return len(times) > 0
}

// RecursOn reports whether at least one occurrence falls on date's local
// calendar day when viewed in tz.
func (r *Recurrence) RecursOn(date time.Time, tz *time.Location) bool {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return len(r.TimesInInterval(dayStart, dayEnd)) > 0
}

var searchSteps = []time.Duration{
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
	365 * 24 * time.Hour,
	10 * 365 * 24 * time.Hour,
	100 * 365 * 24 * time.Hour,
}

// NextOccurrence returns the strictly-next occurrence after `after`.
func (r *Recurrence) NextOccurrence(after time.Time) (time.Time, bool) {
	from := after.Add(time.Nanosecond)
	for _, step := range searchSteps {
		to := from.Add(step)
		times := r.TimesInInterval(from, to)
		for _, t := range times {
			if t.After(after) {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// PreviousOccurrence returns the strictly-previous occurrence before
// `before`.
func (r *Recurrence) PreviousOccurrence(before time.Time) (time.Time, bool) {
	to := before.Add(-time.Nanosecond)
	if to.Before(r.Start) {
		return time.Time{}, false
	}
	for _, step := range searchSteps {
		from := to.Add(-step)
		if from.Before(r.Start) {
			from = r.Start
		}
		times := r.TimesInInterval(from, to)
		var best time.Time
		found := false
		for _, t := range times {
			if t.Before(before) && (!found || t.After(best)) {
				best = t
				found = true
			}
		}
		if found {
			return best, true
		}
		if !from.After(r.Start) {
			break
		}
	}
	return time.Time{}, false
}
