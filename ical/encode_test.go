// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/calcore/kcal/model"
	"github.com/calcore/kcal/rrule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripEvent(t *testing.T) {
	cal := model.NewCalendar("-//calcore//roundtrip//EN")

	e := model.NewEvent()
	e.Incidence().SetUID("roundtrip-1@example.com")
	e.SetDTStart(time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC))
	e.SetDTEnd(time.Date(2026, 7, 4, 10, 30, 0, 0, time.UTC))
	e.SetSummary("Planning, review", false)
	e.Incidence().SetCategories([]string{"Work"})
	e.Incidence().SetPriority(3)

	rule, err := rrule.ParseRecurrenceRule("FREQ=WEEKLY;COUNT=3")
	require.NoError(t, err)
	e.Recurrence().AddRRule(rule)

	alarm := model.NewAlarm(model.AlarmDisplay)
	alarm.SetDisplay("Heads up")
	alarm.SetRelativeTrigger(model.NewSecondsDuration(-600), model.TriggerRelatedStart)
	e.Incidence().AddAlarm(alarm)

	cal.AddIncidence(e.Incidence())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cal))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "SUMMARY:Planning\\, review")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;COUNT=3")

	decoded, err := Decode(strings.NewReader(out))
	require.NoError(t, err)

	inc, ok := decoded.Incidence("roundtrip-1@example.com")
	require.True(t, ok)
	ev, ok := inc.AsEvent()
	require.True(t, ok)

	summary, _ := ev.Summary()
	assert.Equal(t, "Planning, review", summary)
	assert.True(t, ev.DTStart().Equal(e.DTStart()))
	assert.True(t, ev.DTEnd().Equal(e.DTEnd()))
	assert.True(t, ev.Recurs())

	alarms := ev.Incidence().Alarms()
	require.Len(t, alarms, 1)
	assert.Equal(t, "Heads up", alarms[0].Text())
}

func TestEncodeTodoFieldsRoundTrip(t *testing.T) {
	cal := model.NewCalendar("-//calcore//roundtrip//EN")

	td := model.NewTodo()
	td.Incidence().SetUID("todo-rt@example.com")
	td.SetDue(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	td.SetPercentComplete(25)
	cal.AddIncidence(td.Incidence())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cal))

	decoded, err := Decode(&buf)
	require.NoError(t, err)

	inc, ok := decoded.Incidence("todo-rt@example.com")
	require.True(t, ok)
	decodedTodo, ok := inc.AsTodo()
	require.True(t, ok)

	originalDue, ok := td.Due()
	require.True(t, ok)
	decodedDue, ok := decodedTodo.Due()
	require.True(t, ok)
	assert.True(t, decodedDue.Equal(originalDue))
	assert.Equal(t, 25, decodedTodo.PercentComplete())
}
