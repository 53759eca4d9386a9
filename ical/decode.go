// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/calcore/kcal/calerr"
	"github.com/calcore/kcal/icaldur"
	"github.com/calcore/kcal/model"
	"github.com/calcore/kcal/rrule"
)

// Decode reads an RFC 5545 iCalendar stream into a Calendar, generalizing
// the teacher's single-component state-machine parser (parse.ParseIcalString)
// into a nested BEGIN/END component stack covering all five top-level
// component kinds plus VALARM and VTIMEZONE sub-components (spec §4.7).
func Decode(r io.Reader) (*model.Calendar, error) {
	lines, err := unfold(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, calerr.New(calerr.CodeNoCalendar)
	}

	first, err := parseLine(lines[0])
	if err != nil || first.Name != "BEGIN" || strings.ToUpper(first.Value) != string(model.SectionTokenVCalendar) {
		return nil, calerr.New(calerr.CodeParseErrorICal, "must start with BEGIN:VCALENDAR")
	}
	last, err := parseLine(lines[len(lines)-1])
	if err != nil || last.Name != "END" || strings.ToUpper(last.Value) != string(model.SectionTokenVCalendar) {
		return nil, calerr.New(calerr.CodeParseErrorICal, "must end with END:VCALENDAR")
	}

	compat := pickCompat(scanProdID(lines))

	var cal *model.Calendar
	var stack []*builder

	for _, raw := range lines {
		line, err := parseLine(raw)
		if err != nil {
			return nil, err
		}

		switch line.Name {
		case "BEGIN":
			stack = append(stack, newBuilder(strings.ToUpper(line.Value), compat))
			continue
		case "END":
			if len(stack) == 0 {
				return nil, calerr.New(calerr.CodeParseErrorICal, "unmatched END:"+line.Value)
			}
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if len(stack) == 0 {
				cal = b.finishCalendar()
				continue
			}
			b.finish()
			parent := stack[len(stack)-1]
			parent.absorb(b)
			continue
		}

		if len(stack) == 0 {
			continue
		}
		stack[len(stack)-1].set(line)
	}

	if cal == nil {
		return nil, calerr.New(calerr.CodeNoCalendar)
	}
	return cal, nil
}

// scanProdID returns the VCALENDAR-level PRODID value, if any, without
// running the full parse — pickCompat needs it before any component
// builder exists. Only a PRODID seen directly inside VCALENDAR (stack
// depth 1) counts; a same-named property nested in a sub-component is
// ignored.
func scanProdID(lines []string) string {
	depth := 0
	for _, raw := range lines {
		line, err := parseLine(raw)
		if err != nil {
			continue
		}
		switch line.Name {
		case "BEGIN":
			depth++
			continue
		case "END":
			depth--
			continue
		}
		if depth == 1 && line.Name == "PRODID" {
			return line.Value
		}
	}
	return ""
}

// builder accumulates content lines for one open component and, on END,
// materializes it into the corresponding model type.
type builder struct {
	kind string

	props map[string][]contentLine

	calendar *model.Calendar

	tzResult  *model.VTimeZone
	incResult *model.Incidence

	// incidences and timezones buffer the root (VCALENDAR) builder's
	// absorbed children. finishCalendar runs only once the matching
	// END:VCALENDAR line is reached — after every child has already been
	// absorbed — so children can't be added to b.calendar directly; they
	// are buffered here and drained into the new Calendar by finishCalendar.
	incidences []*model.Incidence
	timezones  []*model.VTimeZone

	// compat applies the producer-specific fixes of spec §4.7, selected
	// once per document by pickCompat and shared by every builder in the
	// parse stack.
	compat compatFixer
}

func newBuilder(kind string, compat compatFixer) *builder {
	return &builder{kind: kind, props: make(map[string][]contentLine), compat: compat}
}

func (b *builder) set(line contentLine) { b.props[line.Name] = append(b.props[line.Name], line) }
func (b *builder) first(name string) (contentLine, bool) {
	v, ok := b.props[name]
	if !ok || len(v) == 0 {
		return contentLine{}, false
	}
	return v[0], true
}
func (b *builder) value(name string) (string, bool) {
	l, ok := b.first(name)
	if !ok {
		return "", false
	}
	return l.Value, true
}

// finish materializes b's accumulated properties into its result, based on
// its component kind. Called once, as b is popped off the parse stack.
func (b *builder) finish() {
	switch model.SectionToken(b.kind) {
	case model.SectionTokenVEvent:
		inc := (*model.Incidence)(model.NewEvent())
		applyCommon(inc, b)
		applyEvent(inc, b)
		b.incResult = inc
	case model.SectionTokenVTodo:
		inc := (*model.Incidence)(model.NewTodo())
		applyCommon(inc, b)
		applyTodo(inc, b)
		b.incResult = inc
	case model.SectionTokenVJournal:
		inc := (*model.Incidence)(model.NewJournal())
		applyCommon(inc, b)
		b.incResult = inc
	case model.SectionTokenVFreebusy:
		inc := (*model.Incidence)(model.NewFreeBusy())
		applyCommon(inc, b)
		applyFreeBusy(inc, b)
		b.incResult = inc
	case model.SectionTokenVTimezone:
		tzid, _ := b.value(string(model.TimezoneTokenTimeZoneID))
		lastMod, _ := b.value(string(model.TimezoneTokenLastMod))
		b.tzResult = &model.VTimeZone{TZID: tzid, LastModified: lastMod}
	}
}

// absorb folds an already-finished child component into its parent.
func (b *builder) absorb(child *builder) {
	switch model.SectionToken(child.kind) {
	case model.SectionTokenVAlarm:
		if b.incResult != nil {
			b.incResult.AddAlarm(child.toAlarm())
		}
	case model.SectionTokenVStandard, model.SectionTokenVDaylight:
		if b.tzResult != nil {
			b.tzResult.Observances = append(b.tzResult.Observances, child.toObservance(model.SectionToken(child.kind) == model.SectionTokenVDaylight))
		}
	case model.SectionTokenVTimezone:
		if child.tzResult != nil {
			b.timezones = append(b.timezones, child.tzResult)
		}
	case model.SectionTokenVEvent, model.SectionTokenVTodo, model.SectionTokenVJournal, model.SectionTokenVFreebusy:
		if child.incResult != nil {
			b.incidences = append(b.incidences, child.incResult)
		}
	}
}

// finishCalendar reads the VCALENDAR-level properties. PRODID, VERSION,
// CALSCALE and METHOD have no constants in tokens.go (they belong to no
// per-component token block, since they only ever appear once at the
// top level) and stay raw literals.
func (b *builder) finishCalendar() *model.Calendar {
	prodID, _ := b.value("PRODID")
	cal := model.NewCalendar(prodID)
	if v, ok := b.value("VERSION"); ok {
		cal.Version = v
	}
	if v, ok := b.value("CALSCALE"); ok {
		cal.CalScale = v
	}
	if v, ok := b.value("METHOD"); ok {
		cal.Method = v
	}
	cal.TimeZones = append(cal.TimeZones, b.timezones...)
	for _, inc := range b.incidences {
		cal.AddIncidence(inc)
	}
	b.calendar = cal
	return cal
}

func loc(params map[string][]string, compat compatFixer) *time.Location {
	if compat != nil && compat.DisableTimezones() {
		return time.UTC
	}
	if tzid, ok := params["TZID"]; ok && len(tzid) > 0 {
		if l, err := time.LoadLocation(tzid[0]); err == nil {
			return l
		}
	}
	return time.UTC
}

func parseDateOrDateTime(line contentLine, compat compatFixer) (time.Time, bool, error) {
	isDate := false
	if v, ok := line.Params["VALUE"]; ok && len(v) > 0 && strings.EqualFold(v[0], "DATE") {
		isDate = true
	}
	location := loc(line.Params, compat)
	if isDate {
		t, err := icaldur.ParseIcalDate(line.Value, location)
		return t, true, err
	}
	t, err := icaldur.ParseIcalDateTime(line.Value, location)
	return t, false, err
}

func (b *builder) toAlarm() *model.Alarm {
	typ := model.AlarmInvalid
	switch v, _ := b.value(string(model.AlarmTokenAction)); strings.ToUpper(v) {
	case "DISPLAY":
		typ = model.AlarmDisplay
	case "AUDIO":
		typ = model.AlarmAudio
	case "PROCEDURE":
		typ = model.AlarmProcedure
	case "EMAIL":
		typ = model.AlarmEmail
	}
	a := model.NewAlarm(typ)

	if trig, ok := b.first(string(model.AlarmTokenTrigger)); ok {
		if rel, ok := trig.Params["RELATED"]; ok && len(rel) > 0 && strings.EqualFold(rel[0], "END") {
			if d, err := icaldur.ParseICalDuration(trig.Value); err == nil {
				a.SetRelativeTrigger(b.compat.FixAlarmOffset(durationFromGo(d)), model.TriggerRelatedEnd)
			}
		} else if valType, ok := trig.Params["VALUE"]; ok && len(valType) > 0 && strings.EqualFold(valType[0], "DATE-TIME") {
			if t, err := icaldur.ParseIcalDateTime(trig.Value, time.UTC); err == nil {
				a.SetAbsoluteTrigger(t)
			}
		} else if d, err := icaldur.ParseICalDuration(trig.Value); err == nil {
			a.SetRelativeTrigger(b.compat.FixAlarmOffset(durationFromGo(d)), model.TriggerRelatedStart)
		} else if t, err := icaldur.ParseIcalDateTime(trig.Value, time.UTC); err == nil {
			a.SetAbsoluteTrigger(t)
		}
	}

	if v, ok := b.value(string(model.AlarmTokenRepeat)); ok {
		count, _ := strconv.Atoi(v)
		var snooze model.Duration
		if dv, ok := b.value(string(model.AlarmTokenDuration)); ok {
			if d, err := icaldur.ParseICalDuration(dv); err == nil {
				snooze = durationFromGo(d)
			}
		}
		a.SetRepeat(count, snooze)
	}

	switch typ {
	case model.AlarmDisplay:
		v, _ := b.value(string(model.AlarmTokenDescription))
		a.SetDisplay(unescapeText(v))
	case model.AlarmAudio:
		v, _ := b.value(string(model.AlarmTokenAttach))
		a.SetAudio(v)
	case model.AlarmProcedure:
		v, _ := b.value(string(model.AlarmTokenAttach))
		a.SetProcedure(v, "")
	case model.AlarmEmail:
		subject, _ := b.value(string(model.AlarmTokenSummary))
		desc, _ := b.value(string(model.AlarmTokenDescription))
		a.SetEmail(unescapeText(subject), unescapeText(desc), nil, nil)
	}
	return a
}

func (b *builder) toObservance(daylight bool) model.TZObservance {
	from, _ := b.value(string(model.TimezoneTokenTimeZoneOffsetFrom))
	to, _ := b.value(string(model.TimezoneTokenTimeZoneOffsetTo))
	name, _ := b.value(string(model.TimezoneTokenTimeZoneName))
	start, _ := b.value(string(model.TimezoneTokenDTStart))
	rruleVal, _ := b.value("RRULE")
	var rdates []string
	for _, l := range b.props[string(model.TimezoneTokenRdate)] {
		rdates = append(rdates, l.Value)
	}
	return model.TZObservance{
		Daylight: daylight, OffsetFrom: from, OffsetTo: to, TZName: name,
		Start: start, RRule: rruleVal, RDates: rdates,
	}
}

// durationFromGo converts a Go time.Duration to the model's dual-unit
// Duration type in seconds, since RFC 5545 durations with only hour/
// minute/second components have no day-count ambiguity.
func durationFromGo(d time.Duration) model.Duration {
	return model.NewSecondsDuration(int64(d / time.Second))
}

// applyRecurrence reads the recurrence-rule properties shared by every
// component kind. RRULE and EXRULE have no corresponding constants in
// tokens.go (RFC 5545 never lists them under a single component's token
// block since they recur identically across VEVENT/VTODO/VJOURNAL), so
// they stay raw literals; RDATE/EXDATE are wired via TodoToken, whose
// constant set happens to be the complete superset of the common
// properties (see applyCommon).
func applyRecurrence(inc *model.Incidence, b *builder) {
	for _, l := range b.props["RRULE"] {
		if rule, err := rrule.ParseRecurrenceRule(l.Value); err == nil {
			b.compat.FixYearlyRule(rule)
			inc.Recurrence().AddRRule(rule)
		}
	}
	for _, l := range b.props["EXRULE"] {
		if rule, err := rrule.ParseRecurrenceRule(l.Value); err == nil {
			inc.Recurrence().AddExRule(rule)
		}
	}
	for _, l := range b.props[string(model.TodoTokenRdate)] {
		for _, part := range splitStructured(l.Value) {
			if t, isDate, err := parseDateOrDateTime(contentLine{Value: part, Params: l.Params}, b.compat); err == nil {
				typ := rrule.RDateDateTime
				if isDate {
					typ = rrule.RDateDate
				}
				inc.Recurrence().AddRDate(t, typ)
			}
		}
	}
	for _, l := range b.props[string(model.TodoTokenExceptionDates)] {
		for _, part := range splitStructured(l.Value) {
			if t, isDate, err := parseDateOrDateTime(contentLine{Value: part, Params: l.Params}, b.compat); err == nil {
				typ := rrule.ExDateDateTime
				if isDate {
					typ = rrule.ExDateDate
				}
				inc.Recurrence().AddExDate(t, typ)
			}
		}
	}
	b.compat.FixRecurrenceCount(inc.Recurrence())
	if inc.Recurs() {
		b.compat.FixStartExDate(inc.Recurrence(), inc.DTStart())
	}
}

// applyCommon reads the properties shared by every component kind (RFC
// 5545 §3.8's common property set). TodoToken's constant block is used
// throughout since it is the only one of tokens.go's per-component token
// types that names every common property (EventToken lacks PRIORITY,
// CLASS, URL, ATTACH and RECURRENCE-ID; JournalToken lacks PRIORITY, GEO
// and LOCATION; FreeBusyToken lacks PRIORITY, CLASS, ATTACH and
// RECURRENCE-ID);
// the literal string values are identical across all of them regardless.
func applyCommon(inc *model.Incidence, b *builder) {
	if v, ok := b.value(string(model.TodoTokenUID)); ok {
		inc.SetUID(v)
	}
	if l, ok := b.first(string(model.TodoTokenDTStart)); ok {
		if t, isDate, err := parseDateOrDateTime(l, b.compat); err == nil {
			inc.SetDTStart(t)
			inc.SetAllDay(isDate)
		}
	}
	if v, ok := b.value(string(model.TodoTokenSummary)); ok {
		inc.SetSummary(unescapeText(v), false)
	}
	if v, ok := b.value(string(model.TodoTokenDescription)); ok {
		inc.SetDescription(unescapeText(v), false)
	}
	if v, ok := b.value(string(model.TodoTokenLocation)); ok {
		inc.SetLocation(unescapeText(v), false)
	}
	if v, ok := b.value(string(model.TodoTokenPriority)); ok {
		if p, err := strconv.Atoi(v); err == nil {
			inc.SetPriority(b.compat.FixPriority(p))
		}
	}
	if v, ok := b.value(string(model.TodoTokenClass)); ok {
		inc.SetSecrecy(model.Secrecy(v))
	}
	if v, ok := b.value(string(model.TodoTokenCategories)); ok {
		var cats []string
		for _, c := range splitStructured(v) {
			cats = append(cats, unescapeText(c))
		}
		inc.SetCategories(cats)
	}
	if v, ok := b.value(string(model.TodoTokenURL)); ok {
		inc.SetURL(v)
	}
	if v, ok := b.value(string(model.TodoTokenGeo)); ok {
		parts := strings.SplitN(v, ";", 2)
		if len(parts) == 2 {
			lat, errLat := strconv.ParseFloat(parts[0], 64)
			lon, errLon := strconv.ParseFloat(parts[1], 64)
			if errLat == nil && errLon == nil {
				inc.SetGeo(model.NewGeo(lat, lon))
			}
		}
	}
	if l, ok := b.first(string(model.TodoTokenOrganizer)); ok {
		person := organizerToPerson(l)
		inc.SetOrganizer(person)
	}
	for _, l := range b.props[string(model.TodoTokenAttendee)] {
		person := organizerToPerson(l)
		att := model.NewAttendee(person)
		if role, ok := l.Params["ROLE"]; ok && len(role) > 0 {
			att.Role = model.Role(role[0])
		}
		if ps, ok := l.Params["PARTSTAT"]; ok && len(ps) > 0 {
			att.PartStat = model.PartStat(ps[0])
		}
		if rsvp, ok := l.Params["RSVP"]; ok && len(rsvp) > 0 {
			att.RSVP = strings.EqualFold(rsvp[0], "TRUE")
		}
		inc.AddAttendee(att)
	}
	for _, l := range b.props[string(model.TodoTokenComment)] {
		inc.AddComment(unescapeText(l.Value))
	}
	for _, l := range b.props[string(model.TodoTokenContact)] {
		inc.AddContact(unescapeText(l.Value))
	}
	for _, l := range b.props[string(model.TodoTokenRelated)] {
		rel := model.RelatedToParent
		if reltype, ok := l.Params["RELTYPE"]; ok && len(reltype) > 0 {
			rel = model.RelationType(reltype[0])
		}
		inc.AddRelatedTo(rel, l.Value)
	}
	for _, l := range b.props[string(model.TodoTokenAttach)] {
		if uri, ok := l.Params["VALUE"]; ok && len(uri) > 0 && strings.EqualFold(uri[0], "BINARY") {
			mt := ""
			if m, ok := l.Params["FMTTYPE"]; ok && len(m) > 0 {
				mt = m[0]
			}
			inc.AddAttachment(model.NewInlineAttachment(l.Value, mt))
		} else {
			mt := ""
			if m, ok := l.Params["FMTTYPE"]; ok && len(m) > 0 {
				mt = m[0]
			}
			inc.AddAttachment(model.NewURIAttachment(l.Value, mt))
		}
	}
	if l, ok := b.first(string(model.TodoTokenRecurrenceID)); ok {
		if t, _, err := parseDateOrDateTime(l, b.compat); err == nil {
			inc.SetRecurrenceID(t)
			if rng, ok := l.Params["RANGE"]; ok && len(rng) > 0 && strings.EqualFold(rng[0], "THISANDFUTURE") {
				inc.SetThisAndFuture(true)
			}
		}
	}
	if l, ok := b.first(string(model.TodoTokenCreated)); ok {
		if t, _, err := parseDateOrDateTime(l, b.compat); err == nil {
			inc.SetCreated(t)
		}
	}
	if l, ok := b.first(string(model.TodoTokenDTStamp)); ok {
		if dtstamp, _, err := parseDateOrDateTime(l, b.compat); err == nil {
			inc.SetCreated(b.compat.FixCreated(inc.Created(), dtstamp))
		}
	}
	applyRecurrence(inc, b)
}

func organizerToPerson(l contentLine) model.Person {
	name := ""
	if cn, ok := l.Params["CN"]; ok && len(cn) > 0 {
		name = cn[0]
	}
	email := strings.TrimPrefix(l.Value, "mailto:")
	email = strings.TrimPrefix(email, "MAILTO:")
	return model.Person{Name: name, Email: email}
}

func applyEvent(incBase *model.Incidence, b *builder) {
	e, _ := incBase.AsEvent()
	if l, ok := b.first(string(model.EventTokenDtend)); ok {
		if t, isDate, err := parseDateOrDateTime(l, b.compat); err == nil {
			e.SetDTEnd(b.compat.FixFloatingAllDayEnd(t, isDate))
		}
	} else if v, ok := b.value(string(model.EventTokenDuration)); ok {
		if d, err := icaldur.ParseICalDuration(v); err == nil {
			e.SetDuration(durationFromGo(d))
		}
	}
	if v, ok := b.value(string(model.EventTokenTransp)); ok {
		e.SetTransparent(strings.EqualFold(v, "TRANSPARENT"))
	}
	if v, ok := b.value(string(model.EventTokenStatus)); ok {
		e.SetStatus(model.Status(v))
	}
}

func applyTodo(incBase *model.Incidence, b *builder) {
	td, _ := incBase.AsTodo()
	if l, ok := b.first(string(model.TodoTokenDue)); ok {
		if t, isDate, err := parseDateOrDateTime(l, b.compat); err == nil {
			td.SetDue(b.compat.FixFloatingAllDayEnd(t, isDate))
		}
	} else if v, ok := b.value(string(model.TodoTokenDuration)); ok {
		if d, err := icaldur.ParseICalDuration(v); err == nil {
			td.SetDuration(durationFromGo(d))
		}
	}
	if v, ok := b.value(string(model.TodoTokenPercentComplete)); ok {
		if pct, err := strconv.Atoi(v); err == nil {
			td.SetPercentComplete(pct)
		}
	}
	if l, ok := b.first(string(model.TodoTokenCompleted)); ok {
		if t, _, err := parseDateOrDateTime(l, b.compat); err == nil {
			td.SetCompleted(t)
		}
	}
	if v, ok := b.value(string(model.TodoTokenStatus)); ok {
		td.Incidence().SetStatus(model.Status(v))
	}
}

func applyFreeBusy(incBase *model.Incidence, b *builder) {
	fb, _ := incBase.AsFreeBusy()
	if l, ok := b.first(string(model.FreeBusyTokenDTEnd)); ok {
		if t, _, err := parseDateOrDateTime(l, b.compat); err == nil {
			fb.SetDTEnd(t)
		}
	}
	for _, l := range b.props[string(model.FreeBusyTokenFreeBusy)] {
		kind := model.FreeBusyBusy
		if fbtype, ok := l.Params["FBTYPE"]; ok && len(fbtype) > 0 {
			kind = model.FreeBusyKind(strings.ToUpper(fbtype[0]))
		}
		for _, part := range splitStructured(l.Value) {
			start, end, err := icaldur.ParsePeriod(part, time.UTC)
			if err != nil {
				continue
			}
			fb.AddPeriod(model.NewPeriodFromEnd(start, end), kind)
		}
	}
}
