// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"strconv"
	"time"
)

// AlarmType is the VALARM ACTION value.
type AlarmType int

const (
	AlarmInvalid AlarmType = iota
	AlarmDisplay
	AlarmAudio
	AlarmProcedure
	AlarmEmail
)

// TriggerRelation anchors a relative trigger to the parent's start or end.
type TriggerRelation int

const (
	TriggerRelatedStart TriggerRelation = iota
	TriggerRelatedEnd
)

// locationRadiusKey is the custom property alarms use to stash an optional
// geofence radius, per spec §3.
const locationRadiusKey = "X-LOCATION-RADIUS"

// Alarm is an event attached to a parent incidence: a trigger, a repeat
// count and snooze interval, and type-specific payload fields.
type Alarm struct {
	typ     AlarmType
	enabled bool

	triggerIsAbsolute bool
	triggerTime       time.Time
	triggerOffset     Duration
	triggerRelation   TriggerRelation

	repeatCount    int
	snoozeInterval Duration

	text               string
	audioFile          string
	procedureProgram   string
	procedureArguments string
	emailSubject       string
	emailRecipients    []Person
	attachments        []*Attachment

	CustomProperties

	parent *Incidence
}

// NewAlarm builds an enabled-by-default alarm of the given type, owned by
// no parent.
func NewAlarm(typ AlarmType) *Alarm {
	return &Alarm{typ: typ, enabled: true, CustomProperties: NewCustomProperties()}
}

func (a *Alarm) Type() AlarmType    { return a.typ }
func (a *Alarm) Enabled() bool      { return a.enabled }
func (a *Alarm) SetEnabled(b bool)  { a.enabled = b }
func (a *Alarm) Parent() *Incidence { return a.parent }

// setParent is called by Incidence when it takes ownership of the alarm.
func (a *Alarm) setParent(parent *Incidence) { a.parent = parent }

// clearParent breaks the back-reference; called by Incidence during its own
// teardown, per spec §3/§9.
func (a *Alarm) clearParent() { a.parent = nil }

// SetAbsoluteTrigger sets the trigger to an absolute timestamp.
func (a *Alarm) SetAbsoluteTrigger(t time.Time) {
	a.triggerIsAbsolute = true
	a.triggerTime = t
}

// SetRelativeTrigger sets the trigger to a signed offset from the parent's
// start or end.
func (a *Alarm) SetRelativeTrigger(offset Duration, relation TriggerRelation) {
	a.triggerIsAbsolute = false
	a.triggerOffset = offset
	a.triggerRelation = relation
}

func (a *Alarm) IsRelative() bool { return !a.triggerIsAbsolute }

// RelativeTrigger returns the offset and anchor of a relative trigger.
// Only meaningful when IsRelative reports true.
func (a *Alarm) RelativeTrigger() (Duration, TriggerRelation) {
	return a.triggerOffset, a.triggerRelation
}

// TriggerTime resolves the alarm's trigger to an absolute instant given the
// parent's current start/end.
func (a *Alarm) TriggerTime(parentStart, parentEnd time.Time) time.Time {
	if a.triggerIsAbsolute {
		return a.triggerTime
	}
	base := parentStart
	if a.triggerRelation == TriggerRelatedEnd {
		base = parentEnd
	}
	return a.triggerOffset.End(base)
}

func (a *Alarm) SetRepeat(count int, snooze Duration) {
	a.repeatCount = count
	a.snoozeInterval = snooze
}

func (a *Alarm) Repeat() (int, Duration) { return a.repeatCount, a.snoozeInterval }

// RepeatTimes returns every repetition instant (not including the initial
// trigger) following the first trigger at `first`.
func (a *Alarm) RepeatTimes(first time.Time) []time.Time {
	if a.repeatCount <= 0 {
		return nil
	}
	out := make([]time.Time, 0, a.repeatCount)
	t := first
	for i := 0; i < a.repeatCount; i++ {
		t = a.snoozeInterval.End(t)
		out = append(out, t)
	}
	return out
}

func (a *Alarm) SetDisplay(text string) {
	a.typ = AlarmDisplay
	a.text = text
}

func (a *Alarm) SetAudio(file string) {
	a.typ = AlarmAudio
	a.audioFile = file
}

func (a *Alarm) SetProcedure(program, args string) {
	a.typ = AlarmProcedure
	a.procedureProgram = program
	a.procedureArguments = args
}

func (a *Alarm) SetEmail(subject, text string, recipients []Person, attachments []*Attachment) {
	a.typ = AlarmEmail
	a.emailSubject = subject
	a.text = text
	a.emailRecipients = recipients
	a.attachments = attachments
}

func (a *Alarm) Text() string                      { return a.text }
func (a *Alarm) AudioFile() string                 { return a.audioFile }
func (a *Alarm) Procedure() (string, string)       { return a.procedureProgram, a.procedureArguments }
func (a *Alarm) Email() (string, string, []Person) { return a.emailSubject, a.text, a.emailRecipients }
func (a *Alarm) Attachments() []*Attachment         { return a.attachments }

// SetLocationRadius stores the optional geofence radius in meters.
func (a *Alarm) SetLocationRadius(meters float64) {
	a.Set(locationRadiusKey, strconv.FormatFloat(meters, 'f', -1, 64), nil)
}

// LocationRadius returns the geofence radius, if one was set.
func (a *Alarm) LocationRadius() (float64, bool) {
	prop, ok := a.Get(locationRadiusKey)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(prop.Value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Equal compares alarms by type, schedule and type-specific fields only —
// never by enabled flag or parent, per spec §8.
func (a *Alarm) Equal(other *Alarm) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.typ != other.typ {
		return false
	}
	if a.triggerIsAbsolute != other.triggerIsAbsolute {
		return false
	}
	if a.triggerIsAbsolute {
		if !a.triggerTime.Equal(other.triggerTime) {
			return false
		}
	} else if !a.triggerOffset.Equal(other.triggerOffset) || a.triggerRelation != other.triggerRelation {
		return false
	}
	if a.repeatCount != other.repeatCount || !a.snoozeInterval.Equal(other.snoozeInterval) {
		return false
	}
	switch a.typ {
	case AlarmDisplay:
		return a.text == other.text
	case AlarmAudio:
		return a.audioFile == other.audioFile
	case AlarmProcedure:
		return a.procedureProgram == other.procedureProgram && a.procedureArguments == other.procedureArguments
	case AlarmEmail:
		return a.emailSubject == other.emailSubject && a.text == other.text
	default:
		return true
	}
}
