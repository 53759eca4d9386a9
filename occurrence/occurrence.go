// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package occurrence expands a calendar's incidences into concrete
// occurrences over a time window, resolving recurrence-exception
// overrides and honoring a CalFilter's to-do visibility rules, per
// spec §4.3 (grounded on kcalendarcore's OccurrenceIterator).
package occurrence

import (
	"sort"
	"time"

	"github.com/calcore/kcal/model"
)

// Occurrence is one concrete instance of an incidence within a window:
// either a plain recurrence expansion, or an overridden exception.
type Occurrence struct {
	Incidence    *model.Incidence
	Start        time.Time
	End          time.Time
	IsException  bool
}

// Iterator expands a Calendar's incidences between Start and End.
type Iterator struct {
	cal         *model.Calendar
	start, end  time.Time
}

// New returns an Iterator over the inclusive window [start, end] for cal.
func New(cal *model.Calendar, start, end time.Time) *Iterator {
	return &Iterator{cal: cal, start: start, end: end}
}

// Occurrences returns every occurrence in the window, sorted by start
// time. Recurrence exceptions replace the base rule's occurrence at
// their own RECURRENCE-ID; a to-do hidden by the calendar's active
// CalFilter (e.g. HideCompletedTodos) is skipped entirely.
func (it *Iterator) Occurrences() []Occurrence {
	var out []Occurrence
	filter := it.cal.Filter()

	for _, inc := range it.cal.Incidences() {
		if !inc.RecurrenceID().IsZero() {
			// Exceptions are folded in alongside their base incidence below.
			continue
		}
		if filter != nil && !filter.Passes(inc) {
			continue
		}

		exceptions := indexExceptions(it.cal.Exceptions(inc.UID()))

		if !inc.Recurs() {
			if within(inc.DTStart(), it.start, it.end) {
				out = append(out, Occurrence{Incidence: inc, Start: inc.DTStart(), End: occurrenceEnd(inc, inc.DTStart())})
			}
			continue
		}

		for _, t := range inc.Recurrence().TimesInInterval(it.start, it.end) {
			out = append(out, resolveOccurrence(exceptions, inc, t))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func occurrenceEnd(inc *model.Incidence, occStart time.Time) time.Time {
	if e, ok := inc.AsEvent(); ok && e.HasEndTime() {
		return occStart.Add(e.DTEnd().Sub(e.DTStart()))
	}
	return occStart
}

// indexExceptions sorts recurrence-exception overrides by their
// RECURRENCE-ID, so that lastThisAndFuture's scan ends on the latest
// applicable one. A THISANDFUTURE exception is also matched by every later
// occurrence, per spec §4.3/§9's "this-and-future" rule.
func indexExceptions(exceptions []*model.Incidence) []*model.Incidence {
	sort.Slice(exceptions, func(i, j int) bool {
		return exceptions[i].RecurrenceID().Before(exceptions[j].RecurrenceID())
	})
	return exceptions
}

// resolveOccurrence picks the Occurrence that should be emitted for the
// expanded instant t: an exact RECURRENCE-ID match wins outright; failing
// that, the latest THISANDFUTURE override whose RECURRENCE-ID is on or
// before t applies, shifting t by the override's own (dt-start −
// recurrence-id) delta rather than reusing the override's fixed start
// verbatim, per spec §4.2/§4.3's "this-and-future" rule and spec §8
// scenario 3 (every later occurrence adopts the override's offset, not its
// literal instant).
func resolveOccurrence(exceptions []*model.Incidence, base *model.Incidence, t time.Time) Occurrence {
	for _, exc := range exceptions {
		if exc.RecurrenceID().Equal(t) {
			return Occurrence{Incidence: exc, Start: exc.DTStart(), End: occurrenceEnd(exc, exc.DTStart()), IsException: true}
		}
	}
	if over, ok := lastThisAndFuture(exceptions, t); ok {
		shiftedStart := t.Add(over.DTStart().Sub(over.RecurrenceID()))
		return Occurrence{Incidence: over, Start: shiftedStart, End: occurrenceEnd(over, shiftedStart), IsException: true}
	}
	return Occurrence{Incidence: base, Start: t, End: occurrenceEnd(base, t)}
}

func lastThisAndFuture(exceptions []*model.Incidence, t time.Time) (*model.Incidence, bool) {
	var last *model.Incidence
	for _, exc := range exceptions {
		if exc.ThisAndFuture() && !exc.RecurrenceID().After(t) {
			last = exc
		}
	}
	if last != nil {
		return last, true
	}
	return nil, false
}
