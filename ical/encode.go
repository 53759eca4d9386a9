// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/calcore/kcal/icaldur"
	"github.com/calcore/kcal/model"
)

// Encode writes cal as an RFC 5545 iCalendar stream. VERSION, PRODID,
// CALSCALE and METHOD have no tokens.go constants (see finishCalendar in
// decode.go) and stay raw literals.
func Encode(w io.Writer, cal *model.Calendar) error {
	if err := foldLine(w, "BEGIN:"+string(model.SectionTokenVCalendar)); err != nil {
		return err
	}
	if err := foldLine(w, "VERSION:"+orDefault(cal.Version, "2.0")); err != nil {
		return err
	}
	if err := foldLine(w, "PRODID:"+cal.ProductID); err != nil {
		return err
	}
	if cal.CalScale != "" {
		if err := foldLine(w, "CALSCALE:"+cal.CalScale); err != nil {
			return err
		}
	}
	if cal.Method != "" {
		if err := foldLine(w, "METHOD:"+cal.Method); err != nil {
			return err
		}
	}
	for _, tz := range cal.TimeZones {
		if err := encodeTimeZone(w, tz); err != nil {
			return err
		}
	}
	for _, inc := range cal.Incidences() {
		if err := encodeIncidence(w, inc); err != nil {
			return err
		}
	}
	return foldLine(w, "END:"+string(model.SectionTokenVCalendar))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func encodeTimeZone(w io.Writer, tz *model.VTimeZone) error {
	if err := foldLine(w, "BEGIN:"+string(model.SectionTokenVTimezone)); err != nil {
		return err
	}
	if err := foldLine(w, string(model.TimezoneTokenTimeZoneID)+":"+tz.TZID); err != nil {
		return err
	}
	for _, obs := range tz.Observances {
		name := string(model.SectionTokenVStandard)
		if obs.Daylight {
			name = string(model.SectionTokenVDaylight)
		}
		if err := foldLine(w, "BEGIN:"+name); err != nil {
			return err
		}
		if obs.Start != "" {
			foldLine(w, string(model.TimezoneTokenDTStart)+":"+obs.Start)
		}
		if obs.OffsetFrom != "" {
			foldLine(w, string(model.TimezoneTokenTimeZoneOffsetFrom)+":"+obs.OffsetFrom)
		}
		if obs.OffsetTo != "" {
			foldLine(w, string(model.TimezoneTokenTimeZoneOffsetTo)+":"+obs.OffsetTo)
		}
		if obs.TZName != "" {
			foldLine(w, string(model.TimezoneTokenTimeZoneName)+":"+obs.TZName)
		}
		if obs.RRule != "" {
			foldLine(w, "RRULE:"+obs.RRule)
		}
		if err := foldLine(w, "END:"+name); err != nil {
			return err
		}
	}
	return foldLine(w, "END:"+string(model.SectionTokenVTimezone))
}

func incidenceComponentName(kind model.IncidenceType) string {
	switch kind {
	case model.TypeEvent:
		return string(model.SectionTokenVEvent)
	case model.TypeTodo:
		return string(model.SectionTokenVTodo)
	case model.TypeJournal:
		return string(model.SectionTokenVJournal)
	case model.TypeFreeBusy:
		return string(model.SectionTokenVFreebusy)
	default:
		return string(model.SectionTokenVEvent)
	}
}

func encodeIncidence(w io.Writer, inc *model.Incidence) error {
	name := incidenceComponentName(inc.Type())
	if err := foldLine(w, "BEGIN:"+name); err != nil {
		return err
	}
	if err := foldLine(w, string(model.TodoTokenUID)+":"+inc.UID()); err != nil {
		return err
	}
	if !inc.DTStart().IsZero() {
		foldLine(w, string(model.TodoTokenDTStart)+":"+formatInstant(inc.DTStart(), inc.AllDay()))
	}
	if summary, _ := inc.Summary(); summary != "" {
		foldLine(w, string(model.TodoTokenSummary)+":"+escapeText(summary))
	}
	if desc, _ := inc.Description(); desc != "" {
		foldLine(w, string(model.TodoTokenDescription)+":"+escapeText(desc))
	}
	if loc, _ := inc.Location(); loc != "" {
		foldLine(w, string(model.TodoTokenLocation)+":"+escapeText(loc))
	}
	if inc.Priority() != 0 {
		foldLine(w, string(model.TodoTokenPriority)+":"+strconv.Itoa(inc.Priority()))
	}
	if inc.Secrecy() != "" {
		foldLine(w, string(model.TodoTokenClass)+":"+string(inc.Secrecy()))
	}
	if inc.Status() != "" {
		foldLine(w, string(model.TodoTokenStatus)+":"+string(inc.Status()))
	}
	if len(inc.Categories()) > 0 {
		escaped := make([]string, len(inc.Categories()))
		for i, c := range inc.Categories() {
			escaped[i] = escapeText(c)
		}
		foldLine(w, string(model.TodoTokenCategories)+":"+strings.Join(escaped, ","))
	}
	if inc.URL() != "" {
		foldLine(w, string(model.TodoTokenURL)+":"+inc.URL())
	}
	if g := inc.Geo(); g.Valid() {
		foldLine(w, fmt.Sprintf("%s:%v;%v", model.TodoTokenGeo, g.Latitude, g.Longitude))
	}
	if org := inc.Organizer(); org != nil {
		foldLine(w, encodePerson(string(model.TodoTokenOrganizer), *org))
	}
	for _, a := range inc.Attendees() {
		foldLine(w, encodeAttendee(a))
	}
	for _, c := range inc.Comments() {
		foldLine(w, string(model.TodoTokenComment)+":"+escapeText(c))
	}
	if !inc.RecurrenceID().IsZero() {
		line := string(model.TodoTokenRecurrenceID)
		if inc.ThisAndFuture() {
			line += ";RANGE=THISANDFUTURE"
		}
		foldLine(w, line+":"+formatInstant(inc.RecurrenceID(), inc.AllDay()))
	}

	switch inc.Type() {
	case model.TypeEvent:
		encodeEventFields(w, inc)
	case model.TypeTodo:
		encodeTodoFields(w, inc)
	case model.TypeFreeBusy:
		encodeFreeBusyFields(w, inc)
	}

	encodeRecurrence(w, inc)

	for _, alarm := range inc.Alarms() {
		encodeAlarm(w, alarm)
	}

	return foldLine(w, "END:"+name)
}

func formatInstant(t time.Time, allDay bool) string {
	if allDay {
		return icaldur.FormatIcalDate(t)
	}
	return icaldur.FormatIcalDateTime(t, t.Location() == time.UTC)
}

func encodePerson(prop string, p model.Person) string {
	line := prop
	if p.Name != "" {
		line += ";CN=" + p.Name
	}
	return line + ":mailto:" + p.Email
}

func encodeAttendee(a *model.Attendee) string {
	line := string(model.TodoTokenAttendee)
	if a.Name != "" {
		line += ";CN=" + a.Name
	}
	if a.Role != "" {
		line += ";ROLE=" + string(a.Role)
	}
	if a.PartStat != "" {
		line += ";PARTSTAT=" + string(a.PartStat)
	}
	if a.RSVP {
		line += ";RSVP=TRUE"
	}
	return line + ":mailto:" + a.Email
}

func encodeEventFields(w io.Writer, inc *model.Incidence) {
	e, _ := inc.AsEvent()
	if e.HasEndTime() {
		foldLine(w, string(model.EventTokenDtend)+":"+formatInstant(e.DTEnd(), inc.AllDay()))
	}
	if e.Transparent() {
		foldLine(w, string(model.EventTokenTransp)+":TRANSPARENT")
	} else {
		foldLine(w, string(model.EventTokenTransp)+":OPAQUE")
	}
}

func encodeTodoFields(w io.Writer, inc *model.Incidence) {
	td, _ := inc.AsTodo()
	if due, ok := td.Due(); ok {
		foldLine(w, string(model.TodoTokenDue)+":"+formatInstant(due, inc.AllDay()))
	}
	if pct := td.PercentComplete(); pct > 0 {
		foldLine(w, string(model.TodoTokenPercentComplete)+":"+strconv.Itoa(pct))
	}
	if completed, ok := td.Completed(); ok {
		foldLine(w, string(model.TodoTokenCompleted)+":"+icaldur.FormatIcalDateTime(completed, true))
	}
}

func encodeFreeBusyFields(w io.Writer, inc *model.Incidence) {
	fb, _ := inc.AsFreeBusy()
	if !fb.DTEnd().IsZero() {
		foldLine(w, string(model.FreeBusyTokenDTEnd)+":"+formatInstant(fb.DTEnd(), false))
	}
	for _, p := range fb.Periods() {
		value := icaldur.FormatIcalDateTime(p.Period.Start, true) + "/" + icaldur.FormatIcalDateTime(p.Period.End(), true)
		foldLine(w, string(model.FreeBusyTokenFreeBusy)+";FBTYPE="+string(p.Kind)+":"+value)
	}
}

// encodeRecurrence writes the recurrence-rule properties. RRULE and EXRULE
// have no tokens.go constants (see applyRecurrence in decode.go) and stay
// raw literals; RDATE/EXDATE use TodoToken's constants.
func encodeRecurrence(w io.Writer, inc *model.Incidence) {
	if !inc.Recurs() {
		return
	}
	rec := inc.Recurrence()
	for _, r := range rec.RRules {
		foldLine(w, "RRULE:"+r.String())
	}
	for _, r := range rec.ExRules {
		foldLine(w, "EXRULE:"+r.String())
	}
	for _, rd := range rec.RDates {
		foldLine(w, string(model.TodoTokenRdate)+":"+icaldur.FormatIcalDateTime(rd.Time, true))
	}
	for _, ed := range rec.ExDates {
		foldLine(w, string(model.TodoTokenExceptionDates)+":"+icaldur.FormatIcalDateTime(ed.Time, true))
	}
}

func encodeAlarm(w io.Writer, a *model.Alarm) {
	foldLine(w, "BEGIN:"+string(model.SectionTokenVAlarm))
	switch a.Type() {
	case model.AlarmDisplay:
		foldLine(w, string(model.AlarmTokenAction)+":DISPLAY")
		foldLine(w, string(model.AlarmTokenDescription)+":"+escapeText(a.Text()))
	case model.AlarmAudio:
		foldLine(w, string(model.AlarmTokenAction)+":AUDIO")
	case model.AlarmProcedure:
		foldLine(w, string(model.AlarmTokenAction)+":PROCEDURE")
	case model.AlarmEmail:
		foldLine(w, string(model.AlarmTokenAction)+":EMAIL")
		subject, text, _ := a.Email()
		foldLine(w, string(model.AlarmTokenSummary)+":"+escapeText(subject))
		foldLine(w, string(model.AlarmTokenDescription)+":"+escapeText(text))
	}
	if a.IsRelative() {
		offset, relation := a.RelativeTrigger()
		related := "START"
		if relation == model.TriggerRelatedEnd {
			related = "END"
		}
		foldLine(w, string(model.AlarmTokenTrigger)+";RELATED="+related+":"+icaldur.FormatICalDuration(offset.ToGoDuration()))
	} else {
		foldLine(w, string(model.AlarmTokenTrigger)+";VALUE=DATE-TIME:"+icaldur.FormatIcalDateTime(a.TriggerTime(time.Time{}, time.Time{}), true))
	}
	foldLine(w, "END:"+string(model.SectionTokenVAlarm))
}
