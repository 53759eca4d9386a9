// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"testing"
	"time"

	"github.com/calcore/kcal/rrule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventAssignsUID(t *testing.T) {
	e := NewEvent()
	assert.NotEmpty(t, e.UID())
	assert.Equal(t, TypeEvent, e.Incidence().Type())
}

func TestEventDTEndDurationMutuallyExclusive(t *testing.T) {
	e := NewEvent()
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	e.SetDTStart(start)

	e.SetDuration(NewSecondsDuration(3600))
	assert.Equal(t, start.Add(time.Hour), e.DTEnd())
	assert.True(t, e.HasEndTime())

	end := start.Add(2 * time.Hour)
	e.SetDTEnd(end)
	assert.True(t, e.DTEnd().Equal(end))
}

func TestEventIsMultiDay(t *testing.T) {
	e := NewEvent()
	e.SetDTStart(time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC))
	e.SetDTEnd(time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC))
	assert.True(t, e.IsMultiDay())

	single := NewEvent()
	single.SetDTStart(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	single.SetDTEnd(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	assert.False(t, single.IsMultiDay())

	midnightEnd := NewEvent()
	midnightEnd.SetDTStart(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	midnightEnd.SetDTEnd(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.False(t, midnightEnd.IsMultiDay())
}

func TestTodoSetCompletedNonRecurring(t *testing.T) {
	td := NewTodo()
	assert.Equal(t, StatusNeedsAction, td.Status())
	assert.False(t, td.IsCompleted())

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	td.SetCompleted(at)

	assert.True(t, td.IsCompleted())
	assert.Equal(t, 100, td.PercentComplete())
	completedAt, ok := td.Completed()
	require.True(t, ok)
	assert.True(t, completedAt.Equal(at))
}

func TestTodoSetCompletedRecurringAdvances(t *testing.T) {
	td := NewTodo()
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	td.SetStartDate(start)
	rule, err := parseDailyRule()
	require.NoError(t, err)
	td.Recurrence().AddRRule(rule)

	td.SetCompleted(start)

	assert.False(t, td.IsCompleted())
	assert.Equal(t, 0, td.PercentComplete())
	assert.True(t, td.StartDate().After(start))
}

func TestTodoSetCompletedRecurringPreservesDueDelta(t *testing.T) {
	td := NewTodo()
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2026, 1, 1, 17, 0, 0, 0, time.UTC)
	td.SetStartDate(start)
	td.SetDue(due)
	rule, err := parseDailyRule()
	require.NoError(t, err)
	td.Recurrence().AddRRule(rule)

	td.SetCompleted(start)

	assert.False(t, td.IsCompleted())
	newStart := td.StartDate()
	assert.True(t, newStart.After(start))
	newDue, ok := td.Due()
	require.True(t, ok)
	assert.True(t, newDue.Equal(newStart.Add(due.Sub(start))), "dtStart-dtDue delta must be preserved")
}

func TestTodoSetPercentCompleteRange(t *testing.T) {
	td := NewTodo()
	td.SetPercentComplete(-1)
	assert.Equal(t, 0, td.PercentComplete())

	td.SetPercentComplete(50)
	assert.Equal(t, 50, td.PercentComplete())
	assert.Equal(t, StatusInProcess, td.Status())

	td.SetPercentComplete(100)
	assert.True(t, td.IsCompleted())
}

func TestIncidenceSetStatusValidatesPerType(t *testing.T) {
	e := NewEvent()
	e.SetStatus(StatusCompleted) // not a valid Event status
	assert.Equal(t, StatusNone, e.Status())

	e.SetStatus(StatusConfirmed)
	assert.Equal(t, StatusConfirmed, e.Status())
}

func TestIncidencePrioritySilentlyRejectsOutOfRange(t *testing.T) {
	e := NewEvent()
	e.Incidence().SetPriority(10)
	assert.Equal(t, 0, e.Incidence().Priority())

	e.Incidence().SetPriority(5)
	assert.Equal(t, 5, e.Incidence().Priority())
}

func TestIncidenceReadOnlyGuardsSetters(t *testing.T) {
	e := NewEvent()
	e.Incidence().SetReadOnly(true)

	e.SetSummary("blocked", false)
	summary, _ := e.Summary()
	assert.Empty(t, summary)

	e.SetDTStart(time.Now())
	assert.True(t, e.DTStart().IsZero())
}

func TestGeoValidity(t *testing.T) {
	inc := NewEvent().Incidence()
	assert.False(t, inc.Geo().Valid())

	inc.SetGeo(NewGeo(37.386013, -122.082932))
	assert.True(t, inc.Geo().Valid())

	inc.ClearGeo()
	assert.False(t, inc.Geo().Valid())
}

func TestAlarmParentBackReference(t *testing.T) {
	inc := NewEvent().Incidence()
	a := NewAlarm(AlarmDisplay)
	a.SetDisplay("wake up")

	inc.AddAlarm(a)
	assert.Same(t, inc, a.Parent())

	inc.ClearAlarms()
	assert.Nil(t, a.Parent())
	assert.Empty(t, inc.Alarms())
}

func TestNarrowingConversions(t *testing.T) {
	ev := NewEvent()
	td := NewTodo()
	jr := NewJournal()
	fb := NewFreeBusy()

	if _, ok := ev.Incidence().AsEvent(); !ok {
		t.Fatal("expected Event to narrow to AsEvent")
	}
	if _, ok := ev.Incidence().AsTodo(); ok {
		t.Fatal("did not expect Event to narrow to AsTodo")
	}
	if _, ok := td.Incidence().AsTodo(); !ok {
		t.Fatal("expected Todo to narrow to AsTodo")
	}
	if _, ok := jr.Incidence().AsJournal(); !ok {
		t.Fatal("expected Journal to narrow to AsJournal")
	}
	if _, ok := fb.Incidence().AsFreeBusy(); !ok {
		t.Fatal("expected FreeBusy to narrow to AsFreeBusy")
	}
}

func TestRecurrenceObserverMarksDirty(t *testing.T) {
	inc := NewEvent().Incidence()
	inc.SetDTStart(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	assert.False(t, inc.IsDirty(FieldRecurrence))

	rule, err := parseDailyRule()
	require.NoError(t, err)
	inc.Recurrence().AddRRule(rule)

	assert.True(t, inc.IsDirty(FieldRecurrence))
	assert.True(t, inc.Recurs())
}

func TestFreeBusyPeriods(t *testing.T) {
	fb := NewFreeBusy()
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	fb.AddPeriod(NewPeriodFromEnd(start, end), FreeBusyBusy)

	periods := fb.Periods()
	require.Len(t, periods, 1)
	assert.Equal(t, FreeBusyBusy, periods[0].Kind)
	assert.True(t, periods[0].Period.End().Equal(end))
}

func parseDailyRule() (*rrule.RecurrenceRule, error) {
	return rrule.ParseRecurrenceRule("FREQ=DAILY;COUNT=5")
}
