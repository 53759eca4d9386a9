// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationEqualIsUnitSensitive(t *testing.T) {
	sevenDays := NewDaysDuration(7)
	aWeekOfSeconds := NewSecondsDuration(7 * 86400)

	assert.False(t, sevenDays.Equal(aWeekOfSeconds))
	assert.True(t, sevenDays.Equal(NewDaysDuration(7)))
}

func TestDurationEndUsesCalendarDaysForDaily(t *testing.T) {
	start := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)

	daily := NewDaysDuration(1)
	assert.True(t, daily.End(start).Equal(start.AddDate(0, 0, 1)))

	secondly := NewSecondsDuration(86400)
	assert.True(t, secondly.End(start).Equal(start.Add(24*time.Hour)))
}

func TestDurationArithmetic(t *testing.T) {
	a := NewSecondsDuration(60)
	b := NewSecondsDuration(30)

	assert.Equal(t, int64(90), a.Add(b).Value())
	assert.Equal(t, int64(30), a.Sub(b).Value())
	assert.Equal(t, int64(120), a.Mul(2).Value())
	assert.Equal(t, int64(20), a.Div(3).Value())
	assert.Equal(t, int64(-60), a.Negate().Value())
	assert.True(t, a.Negate().IsNegative())
}

func TestDurationAddCoercesMixedUnitsToSeconds(t *testing.T) {
	oneDay := NewDaysDuration(1)
	oneHour := NewSecondsDuration(3600)

	sum := oneDay.Add(oneHour)
	assert.Equal(t, Seconds, sum.Unit())
	assert.Equal(t, int64(86400+3600), sum.Value())
}

func TestDurationToGoDuration(t *testing.T) {
	assert.Equal(t, time.Hour, NewSecondsDuration(3600).ToGoDuration())
	assert.Equal(t, 24*time.Hour, NewDaysDuration(1).ToGoDuration())
}

func TestPeriodFromEndComputesDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	p := NewPeriodFromEnd(start, end)

	assert.False(t, p.HasDuration())
	assert.True(t, p.End().Equal(end))
	assert.Equal(t, int64(90*60), p.Duration().Value())
}

func TestPeriodFromDurationComputesEnd(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	p := NewPeriodFromDuration(start, NewSecondsDuration(3600))

	assert.True(t, p.HasDuration())
	assert.True(t, p.End().Equal(start.Add(time.Hour)))
}

func TestPeriodEqual(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	a := NewPeriodFromEnd(start, start.Add(time.Hour))
	b := NewPeriodFromDuration(start, NewSecondsDuration(3600))

	assert.True(t, a.Equal(b))
}

func TestFromFullNameForms(t *testing.T) {
	p, synthetic := FromFullName("Ada Lovelace <ada@example.com>")
	assert.Equal(t, Person{Name: "Ada Lovelace", Email: "ada@example.com"}, p)
	assert.False(t, synthetic)

	p, synthetic = FromFullName("<ada@example.com>")
	assert.Equal(t, "ada@example.com", p.Email)
	assert.False(t, synthetic)

	p, synthetic = FromFullName("ada@example.com")
	assert.Equal(t, Person{Email: "ada@example.com"}, p)
	assert.False(t, synthetic)

	p, synthetic = FromFullName("Ada Lovelace")
	assert.Equal(t, "Ada.Lovelace", p.Email)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.True(t, synthetic)
}

func TestFromFullNameEmpty(t *testing.T) {
	p, synthetic := FromFullName("   ")
	assert.Equal(t, Person{}, p)
	assert.False(t, synthetic)
}

func TestCustomPropertiesSetGetDelete(t *testing.T) {
	c := NewCustomProperties()
	c.Set("X-EXTRA", "value", map[string]string{"PARAM": "1"})

	got, ok := c.Get("x-extra")
	assert.True(t, ok)
	assert.Equal(t, "value", got.Value)
	assert.Equal(t, "1", got.Parameters["PARAM"])

	c.Delete("X-EXTRA")
	_, ok = c.Get("X-EXTRA")
	assert.False(t, ok)
}

func TestCustomPropertiesVolatileRoutingExcludedFromEqual(t *testing.T) {
	a := NewCustomProperties()
	b := NewCustomProperties()

	a.Set("X-KDE-VOLATILE-TMP", "a-only", nil)
	a.Set("X-SHARED", "same", nil)
	b.Set("X-SHARED", "same", nil)

	assert.True(t, a.Equal(&b))

	v, ok := a.Get("X-KDE-VOLATILE-TMP")
	assert.True(t, ok)
	assert.Equal(t, "a-only", v.Value)
	assert.NotContains(t, a.Keys(), "X-KDE-VOLATILE-TMP")
}

func TestCustomPropertiesEqualDetectsValueDifference(t *testing.T) {
	a := NewCustomProperties()
	b := NewCustomProperties()
	a.Set("X-EXTRA", "one", nil)
	b.Set("X-EXTRA", "two", nil)

	assert.False(t, a.Equal(&b))
}

func TestAttachmentSizeInline(t *testing.T) {
	payload := []byte("hello attachment")
	encoded := base64.StdEncoding.EncodeToString(payload)

	a := NewInlineAttachment(encoded, "text/plain")
	assert.True(t, a.IsInline())
	assert.Equal(t, len(payload), a.Size())
	// second call exercises the cached path
	assert.Equal(t, len(payload), a.Size())
}

func TestAttachmentSizeURIIsZero(t *testing.T) {
	a := NewURIAttachment("https://example.com/file.ics", "text/calendar")
	assert.False(t, a.IsInline())
	assert.Equal(t, 0, a.Size())
}

func TestAttachmentSizeInvalidBase64(t *testing.T) {
	a := NewInlineAttachment("not-valid-base64!!", "text/plain")
	assert.Equal(t, 0, a.Size())
}

func TestAttendeeEqual(t *testing.T) {
	person := Person{Name: "Ada", Email: "ada@example.com"}
	a := NewAttendee(person)
	b := NewAttendee(person)

	assert.True(t, a.Equal(b))

	b.RSVP = true
	assert.False(t, a.Equal(b))
}

func TestAttendeeEqualNilSafety(t *testing.T) {
	var a *Attendee
	var b *Attendee
	assert.True(t, a.Equal(b))

	other := NewAttendee(Person{Email: "x@example.com"})
	assert.False(t, a.Equal(other))
}
