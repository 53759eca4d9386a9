// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlarmRelativeTrigger(t *testing.T) {
	a := NewAlarm(AlarmDisplay)
	a.SetRelativeTrigger(NewSecondsDuration(-900), TriggerRelatedStart)

	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	assert.True(t, a.IsRelative())
	assert.True(t, a.TriggerTime(start, end).Equal(start.Add(-15*time.Minute)))

	a.SetRelativeTrigger(NewSecondsDuration(600), TriggerRelatedEnd)
	assert.True(t, a.TriggerTime(start, end).Equal(end.Add(10*time.Minute)))
}

func TestAlarmAbsoluteTrigger(t *testing.T) {
	a := NewAlarm(AlarmAudio)
	when := time.Date(2026, 6, 1, 8, 45, 0, 0, time.UTC)
	a.SetAbsoluteTrigger(when)

	assert.False(t, a.IsRelative())
	assert.True(t, a.TriggerTime(time.Time{}, time.Time{}).Equal(when))
}

func TestAlarmRepeatTimes(t *testing.T) {
	a := NewAlarm(AlarmDisplay)
	a.SetRepeat(3, NewSecondsDuration(300))

	first := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	times := a.RepeatTimes(first)

	require.Len(t, times, 3)
	assert.True(t, times[0].Equal(first.Add(5*time.Minute)))
	assert.True(t, times[2].Equal(first.Add(15*time.Minute)))
}

func TestAlarmLocationRadius(t *testing.T) {
	a := NewAlarm(AlarmDisplay)
	_, ok := a.LocationRadius()
	assert.False(t, ok)

	a.SetLocationRadius(150.5)
	radius, ok := a.LocationRadius()
	require.True(t, ok)
	assert.Equal(t, 150.5, radius)
}

func TestAlarmEqualIgnoresEnabledAndParent(t *testing.T) {
	a := NewAlarm(AlarmDisplay)
	a.SetDisplay("reminder")
	a.SetRelativeTrigger(NewSecondsDuration(-600), TriggerRelatedStart)

	b := NewAlarm(AlarmDisplay)
	b.SetDisplay("reminder")
	b.SetRelativeTrigger(NewSecondsDuration(-600), TriggerRelatedStart)
	b.SetEnabled(false)

	inc := NewEvent().Incidence()
	inc.AddAlarm(b)

	assert.True(t, a.Equal(b))

	b.SetDisplay("different text")
	assert.False(t, a.Equal(b))
}

func TestAlarmSetEmail(t *testing.T) {
	a := NewAlarm(AlarmEmail)
	recipients := []Person{{Name: "Ada", Email: "ada@example.com"}}
	a.SetEmail("subject", "body", recipients, nil)

	subject, body, recv := a.Email()
	assert.Equal(t, "subject", subject)
	assert.Equal(t, "body", body)
	assert.Equal(t, recipients, recv)
}
