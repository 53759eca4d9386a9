// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package model is the in-memory iCalendar/vCalendar object model: the
// incidence types (Event, Todo, Journal, FreeBusy), their shared base, the
// value types they're built from (Duration, Period, Person, Attachment,
// ...), and the Calendar container that indexes and filters them.
package model

import (
	"sort"
	"time"
)

// CalendarObserver is notified of additions, changes, and removals, so
// that UI layers or storage backends can react incrementally (spec §4.5).
type CalendarObserver interface {
	IncidenceAdded(uid string)
	IncidenceChanged(uid string)
	IncidenceAboutToBeDeleted(inc *Incidence, cal *Calendar)
	IncidenceDeleted(inc *Incidence, cal *Calendar)
	CalendarModified(modified bool, cal *Calendar)
}

// AccessMode describes whether a calendar accepts mutation, mirroring
// kcalendarcore's ReadOnly/ReadWrite access rights (spec §3).
type AccessMode int

const (
	AccessReadWrite AccessMode = iota
	AccessReadOnly
)

// incidenceKey indexes an incidence by UID plus, for recurrence
// exceptions, its RECURRENCE-ID — matching kcalendarcore's
// (uid, recurrenceId) composite key (spec §4.5/§9).
type incidenceKey struct {
	uid          string
	recurrenceID int64
}

// Calendar is a VCALENDAR container: product metadata plus the incidence
// set, indexed for UID lookup and filtered/sorted on read.
type Calendar struct {
	ProductID string
	Version   string
	CalScale  string
	Method    string

	TimeZones []*VTimeZone

	// DefaultTimeZone is the calendar's default zone. It is stored only:
	// the codecs and ShiftTimes do not read it.
	DefaultTimeZone *time.Location
	// Owner identifies the calendar's principal, as kcalendarcore's
	// Calendar::owner.
	Owner Person
	// Name is the calendar's human-readable display name.
	Name string
	// IconName is a UI icon identifier (e.g. a freedesktop icon theme name).
	IconName string
	// AccessMode governs whether mutation is permitted; Incidence.ReadOnly
	// guards per-incidence mutation independently of this.
	AccessMode AccessMode

	modified bool
	loading  bool

	byKey map[incidenceKey]*Incidence
	order []incidenceKey

	filter *CalFilter

	observersEnabled bool
	observers        []CalendarObserver
}

// NewCalendar returns an empty calendar with the given PRODID, defaulting
// VERSION to 2.0 per RFC 5545 §3.7.4.
func NewCalendar(productID string) *Calendar {
	return &Calendar{
		ProductID:        productID,
		Version:          "2.0",
		DefaultTimeZone:  time.UTC,
		observersEnabled: true,
		byKey:            make(map[incidenceKey]*Incidence),
	}
}

// IsModified reports whether the calendar has unsaved changes since the
// last SetModified(false) (typically called by a storage layer after a
// successful save).
func (c *Calendar) IsModified() bool { return c.modified }

// SetModified updates the modified flag and, unless the calendar is
// currently loading, broadcasts CalendarModified.
func (c *Calendar) SetModified(modified bool) {
	c.modified = modified
	if c.loading {
		return
	}
	c.notifyCalendarModified(modified)
}

// IsLoading reports whether the calendar is in the middle of a bulk load
// (e.g. a codec populating it from a parsed stream).
func (c *Calendar) IsLoading() bool { return c.loading }

// SetLoading toggles the bulk-load flag. While loading, SetModified does
// not broadcast CalendarModified, since a codec inserting many incidences
// should not fire one notification per insert (spec §4.5, kcalendarcore's
// BlockLoadSignal pattern).
func (c *Calendar) SetLoading(loading bool) { c.loading = loading }

// SetObserversEnabled toggles whether observer callbacks fire at all,
// letting a caller perform a bulk mutation silently.
func (c *Calendar) SetObserversEnabled(enabled bool) { c.observersEnabled = enabled }

// RemoveObserver unregisters o, a no-op if o was never registered.
func (c *Calendar) RemoveObserver(o CalendarObserver) {
	for i, existing := range c.observers {
		if existing == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

func (c *Calendar) key(inc *Incidence) incidenceKey {
	k := incidenceKey{uid: inc.UID()}
	if !inc.RecurrenceID().IsZero() {
		k.recurrenceID = inc.RecurrenceID().UnixNano()
	}
	return k
}

func (c *Calendar) notifyAdded(uid string) {
	if !c.observersEnabled {
		return
	}
	for _, o := range c.observers {
		o.IncidenceAdded(uid)
	}
}
func (c *Calendar) notifyChanged(uid string) {
	if !c.observersEnabled {
		return
	}
	for _, o := range c.observers {
		o.IncidenceChanged(uid)
	}
}
func (c *Calendar) notifyAboutToBeDeleted(inc *Incidence) {
	if !c.observersEnabled {
		return
	}
	for _, o := range c.observers {
		o.IncidenceAboutToBeDeleted(inc, c)
	}
}
func (c *Calendar) notifyDeleted(inc *Incidence) {
	if !c.observersEnabled {
		return
	}
	for _, o := range c.observers {
		o.IncidenceDeleted(inc, c)
	}
}
func (c *Calendar) notifyCalendarModified(modified bool) {
	if !c.observersEnabled {
		return
	}
	for _, o := range c.observers {
		o.CalendarModified(modified, c)
	}
}

func (c *Calendar) AddObserver(o CalendarObserver) { c.observers = append(c.observers, o) }

// AddIncidence inserts inc, keyed by (UID, RECURRENCE-ID), and wires the
// calendar as an IncidenceObserver so downstream changes fire
// IncidenceChanged.
func (c *Calendar) AddIncidence(inc *Incidence) {
	k := c.key(inc)
	if _, exists := c.byKey[k]; !exists {
		c.order = append(c.order, k)
	}
	c.byKey[k] = inc
	inc.AddObserver(c)
	c.notifyAdded(inc.UID())
	c.SetModified(true)
}

// IncidenceUpdated implements IncidenceObserver.
func (c *Calendar) IncidenceUpdated(uid string) {
	c.notifyChanged(uid)
	c.SetModified(true)
}

// DeleteIncidence removes inc from the calendar.
func (c *Calendar) DeleteIncidence(inc *Incidence) {
	k := c.key(inc)
	if _, ok := c.byKey[k]; !ok {
		return
	}
	c.notifyAboutToBeDeleted(inc)
	delete(c.byKey, k)
	for i, ok := range c.order {
		if ok == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.notifyDeleted(inc)
	c.SetModified(true)
}

// Incidence returns the primary (non-exception) incidence for uid.
func (c *Calendar) Incidence(uid string) (*Incidence, bool) {
	inc, ok := c.byKey[incidenceKey{uid: uid}]
	return inc, ok
}

// IncidenceAt returns the specific recurrence-exception instance for
// (uid, recurrenceID), or the primary incidence if recurrenceID is zero —
// the `incidence(uid [, recurrenceId])` overload of spec §4.5, expressed
// as a second named method since Go has no argument overloading.
func (c *Calendar) IncidenceAt(uid string, recurrenceID time.Time) (*Incidence, bool) {
	k := incidenceKey{uid: uid}
	if !recurrenceID.IsZero() {
		k.recurrenceID = recurrenceID.UnixNano()
	}
	inc, ok := c.byKey[k]
	return inc, ok
}

// Exceptions returns every recurrence-exception override for uid, in no
// particular order.
func (c *Calendar) Exceptions(uid string) []*Incidence {
	var out []*Incidence
	for k, inc := range c.byKey {
		if k.uid == uid && k.recurrenceID != 0 {
			out = append(out, inc)
		}
	}
	return out
}

// Incidences returns every incidence, filtered by the calendar's active
// CalFilter if one is set, in insertion order.
func (c *Calendar) Incidences() []*Incidence {
	out := make([]*Incidence, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k])
	}
	return c.filter.Apply(out)
}

func (c *Calendar) SetFilter(f *CalFilter) { c.filter = f }
func (c *Calendar) Filter() *CalFilter      { return c.filter }

func (c *Calendar) byType(kind IncidenceType) []*Incidence {
	var out []*Incidence
	for _, inc := range c.Incidences() {
		if inc.Type() == kind {
			out = append(out, inc)
		}
	}
	return out
}

func (c *Calendar) Events() []*Event {
	var out []*Event
	for _, inc := range c.byType(TypeEvent) {
		e, _ := inc.AsEvent()
		out = append(out, e)
	}
	return out
}

func (c *Calendar) Todos() []*Todo {
	var out []*Todo
	for _, inc := range c.byType(TypeTodo) {
		td, _ := inc.AsTodo()
		out = append(out, td)
	}
	return out
}

func (c *Calendar) Journals() []*Journal {
	var out []*Journal
	for _, inc := range c.byType(TypeJournal) {
		j, _ := inc.AsJournal()
		out = append(out, j)
	}
	return out
}

// ShiftTimes reattaches the zone `to` to the DTSTART of every incidence
// that passes the active filter, and to each such event's explicit DTEND,
// preserving their wall-clock fields (year/month/day/hour/minute/second
// unchanged, only the zone reinterpreted), after kcalendarcore's
// Calendar::shiftTimes bulk tz-reassignment (spec §4.5). Other instants
// (DUE, RECURRENCE-ID, recurrence dates) are left as they are, and `from`
// is not consulted.
func (c *Calendar) ShiftTimes(from, to *time.Location) {
	for _, inc := range c.Incidences() {
		if inc.DTStart().IsZero() {
			continue
		}
		inc.SetDTStart(reinterpretInLocation(inc.DTStart(), to))
		if ev, ok := inc.AsEvent(); ok && ev.hasDTEnd {
			ev.dtEnd = reinterpretInLocation(ev.dtEnd, to)
		}
	}
}

// reinterpretInLocation keeps t's wall-clock fields and reattaches loc.
func reinterpretInLocation(t time.Time, loc *time.Location) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), loc)
}

// alarmOccurrenceEnd mirrors occurrence.occurrenceEnd without importing the
// occurrence package (which itself imports model): an event occurrence
// starting at occStart ends occStart plus the incidence's own duration;
// every other incidence kind has no end distinct from its start.
func alarmOccurrenceEnd(inc *Incidence, occStart time.Time) time.Time {
	if e, ok := inc.AsEvent(); ok && e.HasEndTime() {
		return occStart.Add(e.DTEnd().Sub(e.DTStart()))
	}
	return occStart
}

// AllAlarms returns every alarm trigger landing in [from, to], keyed by the
// owning incidence's UID, per spec §4.5's windowed aggregation algorithm:
// for a non-recurring incidence, take the first trigger at or after
// from-1s and include it if it falls at or before to; for a recurring
// incidence, expand every occurrence whose alarm offset lands the trigger
// in the window and include each one, plus any REPEAT repetitions that
// themselves land in the window. Cancelled exception instances contribute
// no alarms.
func (c *Calendar) AllAlarms(from, to time.Time) map[string][]*Alarm {
	out := make(map[string][]*Alarm)
	lowerBound := from.Add(-time.Second)

	add := func(uid string, a *Alarm) {
		out[uid] = append(out[uid], a)
	}

	for _, inc := range c.Incidences() {
		if inc.IsException() && inc.Status() == StatusCancelled {
			continue
		}
		var cancelledOccurrences map[int64]bool
		if inc.Recurs() {
			for _, exc := range c.Exceptions(inc.UID()) {
				if exc.Status() == StatusCancelled {
					if cancelledOccurrences == nil {
						cancelledOccurrences = make(map[int64]bool)
					}
					cancelledOccurrences[exc.RecurrenceID().UnixNano()] = true
				}
			}
		}
		for _, a := range inc.Alarms() {
			if !a.Enabled() {
				continue
			}
			// An absolute trigger fires once regardless of recursion; only a
			// relative trigger on a recurring incidence expands per-occurrence.
			if !inc.Recurs() || !a.IsRelative() {
				trigger := a.TriggerTime(inc.DTStart(), alarmOccurrenceEnd(inc, inc.DTStart()))
				if trigger.Before(lowerBound) {
					continue
				}
				if !trigger.After(to) {
					add(inc.UID(), a)
					continue
				}
				for _, rep := range a.RepeatTimes(trigger) {
					if !rep.Before(from) && !rep.After(to) {
						add(inc.UID(), a)
						break
					}
				}
				continue
			}

			// anchorOffset is trigger-minus-occStart: for a start-relative
			// alarm that's just the offset; for an end-relative alarm it
			// also includes the incidence's own (occurrence-invariant)
			// duration, since TriggerTime anchors end-relative triggers to
			// occEnd, not occStart.
			offset, related := a.RelativeTrigger()
			anchorOffset := offset.ToGoDuration()
			if related == TriggerRelatedEnd {
				anchorOffset += alarmOccurrenceEnd(inc, inc.DTStart()).Sub(inc.DTStart())
			}
			searchFrom, searchTo := from.Add(-anchorOffset), to.Add(-anchorOffset)
			for _, occStart := range inc.Recurrence().TimesInInterval(searchFrom, searchTo) {
				if cancelledOccurrences[occStart.UnixNano()] {
					continue
				}
				occEnd := alarmOccurrenceEnd(inc, occStart)
				trigger := a.TriggerTime(occStart, occEnd)
				if trigger.Before(from) || trigger.After(to) {
					continue
				}
				add(inc.UID(), a)
			}
		}
	}
	return out
}

// SortEvents returns events ordered by DTSTART, breaking ties by SUMMARY;
// ascending unless descending is true (spec §4.5/Sorting).
func SortEvents(events []*Event, descending bool) []*Event {
	out := append([]*Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.DTStart().Equal(b.DTStart()) {
			if descending {
				return a.DTStart().After(b.DTStart())
			}
			return a.DTStart().Before(b.DTStart())
		}
		as, _ := a.Summary()
		bs, _ := b.Summary()
		if descending {
			return as > bs
		}
		return as < bs
	})
	return out
}

// SortTodos orders to-dos by DUE, undated to-dos last, breaking ties by
// priority then summary.
func SortTodos(todos []*Todo, descending bool) []*Todo {
	out := append([]*Todo(nil), todos...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aDue, aHas := a.Due()
		bDue, bHas := b.Due()
		if aHas != bHas {
			return aHas
		}
		if aHas && bHas && !aDue.Equal(bDue) {
			if descending {
				return aDue.After(bDue)
			}
			return aDue.Before(bDue)
		}
		aPri, bPri := a.Incidence().Priority(), b.Incidence().Priority()
		if aPri != bPri {
			if descending {
				return aPri > bPri
			}
			return aPri < bPri
		}
		as, _ := a.Incidence().Summary()
		bs, _ := b.Incidence().Summary()
		if descending {
			return as > bs
		}
		return as < bs
	})
	return out
}

// SortJournals orders journals by DTSTART.
func SortJournals(journals []*Journal, descending bool) []*Journal {
	out := append([]*Journal(nil), journals...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Incidence().DTStart(), out[j].Incidence().DTStart()
		if descending {
			return a.After(b)
		}
		return a.Before(b)
	})
	return out
}
