// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package occurrence

import (
	"testing"
	"time"

	"github.com/calcore/kcal/model"
	"github.com/calcore/kcal/rrule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecurringEvent(uid string, start time.Time, end time.Time) *model.Event {
	e := model.NewEvent()
	e.Incidence().SetUID(uid)
	e.SetDTStart(start)
	e.SetDTEnd(end)
	return e
}

func TestIteratorNonRecurringInsideWindow(t *testing.T) {
	cal := model.NewCalendar("-//calcore//test//EN")
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	e := newRecurringEvent("single", start, start.Add(time.Hour))
	cal.AddIncidence(e.Incidence())

	it := New(cal, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	occs := it.Occurrences()

	require.Len(t, occs, 1)
	assert.True(t, occs[0].Start.Equal(start))
	assert.True(t, occs[0].End.Equal(start.Add(time.Hour)))
}

func TestIteratorNonRecurringOutsideWindowExcluded(t *testing.T) {
	cal := model.NewCalendar("-//calcore//test//EN")
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	e := newRecurringEvent("single", start, start.Add(time.Hour))
	cal.AddIncidence(e.Incidence())

	it := New(cal, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, it.Occurrences())
}

func TestIteratorExpandsRecurrence(t *testing.T) {
	cal := model.NewCalendar("-//calcore//test//EN")
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	e := newRecurringEvent("daily", start, start.Add(30*time.Minute))

	rule, err := rrule.ParseRecurrenceRule("FREQ=DAILY;COUNT=5")
	require.NoError(t, err)
	e.Recurrence().AddRRule(rule)
	cal.AddIncidence(e.Incidence())

	it := New(cal, start, start.AddDate(0, 0, 10))
	occs := it.Occurrences()

	require.Len(t, occs, 5)
	for i, occ := range occs {
		assert.True(t, occ.Start.Equal(start.AddDate(0, 0, i)))
		assert.False(t, occ.IsException)
	}
}

func TestIteratorExactRecurrenceIDException(t *testing.T) {
	cal := model.NewCalendar("-//calcore//test//EN")
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	master := newRecurringEvent("daily", start, start.Add(30*time.Minute))
	rule, err := rrule.ParseRecurrenceRule("FREQ=DAILY;COUNT=5")
	require.NoError(t, err)
	master.Recurrence().AddRRule(rule)
	cal.AddIncidence(master.Incidence())

	overriddenAt := start.AddDate(0, 0, 2)
	exception := newRecurringEvent("daily", overriddenAt.Add(2*time.Hour), overriddenAt.Add(3*time.Hour))
	exception.Incidence().SetRecurrenceID(overriddenAt)
	cal.AddIncidence(exception.Incidence())

	it := New(cal, start, start.AddDate(0, 0, 10))
	occs := it.Occurrences()

	require.Len(t, occs, 5)
	var found bool
	for _, occ := range occs {
		if occ.Start.Equal(overriddenAt.Add(2 * time.Hour)) {
			found = true
			assert.True(t, occ.IsException)
		}
	}
	assert.True(t, found, "expected the overridden occurrence's shifted start time")
}

func TestIteratorThisAndFutureException(t *testing.T) {
	cal := model.NewCalendar("-//calcore//test//EN")
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	master := newRecurringEvent("daily", start, start.Add(30*time.Minute))
	rule, err := rrule.ParseRecurrenceRule("FREQ=DAILY;COUNT=5")
	require.NoError(t, err)
	master.Recurrence().AddRRule(rule)
	cal.AddIncidence(master.Incidence())

	// The override moves the cutover day's 10:00 occurrence to 14:00 — a
	// +4h delta that every later occurrence must also adopt.
	cutover := start.AddDate(0, 0, 2)
	exception := newRecurringEvent("daily", cutover.Add(4*time.Hour), cutover.Add(5*time.Hour))
	exception.Incidence().SetRecurrenceID(cutover)
	exception.Incidence().SetThisAndFuture(true)
	cal.AddIncidence(exception.Incidence())

	it := New(cal, start, start.AddDate(0, 0, 10))
	occs := it.Occurrences()

	require.Len(t, occs, 5)
	wantStarts := []time.Time{
		start,
		start.AddDate(0, 0, 1),
		cutover.Add(4 * time.Hour),
		start.AddDate(0, 0, 3).Add(4 * time.Hour),
		start.AddDate(0, 0, 4).Add(4 * time.Hour),
	}
	wantException := []bool{false, false, true, true, true}
	for i, occ := range occs {
		assert.True(t, occ.Start.Equal(wantStarts[i]), "occurrence %d: got %v want %v", i, occ.Start, wantStarts[i])
		assert.Equal(t, wantException[i], occ.IsException, "occurrence %d exception flag", i)
	}
}

func TestIteratorRespectsCalFilter(t *testing.T) {
	cal := model.NewCalendar("-//calcore//test//EN")
	td := model.NewTodo()
	td.Incidence().SetUID("todo-1")
	td.SetStartDate(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	td.SetCompleted(time.Now())
	cal.AddIncidence(td.Incidence())
	cal.SetFilter(&model.CalFilter{Criteria: model.HideCompletedTodos})

	it := New(cal, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, it.Occurrences())
}
