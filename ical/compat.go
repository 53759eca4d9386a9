// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"strconv"
	"strings"
	"time"

	"github.com/calcore/kcal/model"
	"github.com/calcore/kcal/rrule"
)

// compatFixer applies a historic-producer compatibility fix to values as
// they come off the wire (spec §4.7). identityCompat is the no-op base
// case; each named shim below wraps another fixer and overrides only the
// method(s) it changes, per §9's "compatibility shims as a decorator
// chain" design note. pickCompat assembles the chain that applies to a
// given PRODID.
type compatFixer interface {
	// FixFloatingAllDayEnd corrects a floating all-day DTEND/DUE that is
	// off-by-one (producers < 3.1 stored the end date inclusive).
	FixFloatingAllDayEnd(t time.Time, isDate bool) time.Time
	// FixYearlyRule rewrites a YEARLY rule's day-of-year encoding
	// (producers < 3.1) into BYMONTH/BYMONTHDAY.
	FixYearlyRule(rule *rrule.RecurrenceRule)
	// FixRecurrenceCount adjusts a COUNT-bounded rule to account for
	// producers < 3.2 excluding EXDATE'd instances from COUNT.
	FixRecurrenceCount(rec *rrule.Recurrence)
	// FixPriority remaps a producer's 1..5 PRIORITY onto the model's 1..9
	// scale (producers < 3.4).
	FixPriority(p int) int
	// FixStartExDate appends an EXDATE at dt-start when dt-start does not
	// itself match the recurrence rule (producers < 3.5).
	FixStartExDate(rec *rrule.Recurrence, dtStart time.Time)
	// FixAlarmOffset negates a relative alarm offset (Outlook < 2000 stored
	// negative offsets as positive).
	FixAlarmOffset(d model.Duration) model.Duration
	// DisableTimezones reports whether timezone shifting on load should be
	// skipped entirely (3.2-prerelease producers).
	DisableTimezones() bool
	// FixCreated supplies CREATED from DTSTAMP when CREATED is absent
	// (producers < 4.10).
	FixCreated(created, dtstamp time.Time) time.Time
}

// identityCompat applies no fixes. It is the base of every chain.
type identityCompat struct{}

func (identityCompat) FixFloatingAllDayEnd(t time.Time, isDate bool) time.Time { return t }
func (identityCompat) FixYearlyRule(rule *rrule.RecurrenceRule)                {}
func (identityCompat) FixRecurrenceCount(rec *rrule.Recurrence)                {}
func (identityCompat) FixPriority(p int) int                                  { return p }
func (identityCompat) FixStartExDate(rec *rrule.Recurrence, dtStart time.Time) {}
func (identityCompat) FixAlarmOffset(d model.Duration) model.Duration          { return d }
func (identityCompat) DisableTimezones() bool                                  { return false }
func (identityCompat) FixCreated(created, dtstamp time.Time) time.Time         { return created }

// floatingDateShim implements the < 3.1 floating all-day end-date fix.
type floatingDateShim struct{ compatFixer }

func (s floatingDateShim) FixFloatingAllDayEnd(t time.Time, isDate bool) time.Time {
	if isDate {
		return t.AddDate(0, 0, 1)
	}
	return t
}

// yearlyDayOfYearShim implements the < 3.1 YEARLY day-of-year fix: rewrite
// a BYYEARDAY-style rule into BYMONTH/BYMONTHDAY, using a non-leap
// reference year the way the historic producer's leap-year fudge assumed.
type yearlyDayOfYearShim struct{ compatFixer }

func (s yearlyDayOfYearShim) FixYearlyRule(rule *rrule.RecurrenceRule) {
	if rule.Frequency != rrule.FrequencyYearly || len(rule.ByYearDay) == 0 {
		return
	}
	const referenceYear = 2001 // non-leap, matches the historic fudge
	ref := time.Date(referenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, yday := range rule.ByYearDay {
		if yday <= 0 {
			continue
		}
		d := ref.AddDate(0, 0, yday-1)
		rule.ByMonth = append(rule.ByMonth, int(d.Month()))
		rule.ByMonthDay = append(rule.ByMonthDay, d.Day())
	}
	rule.ByYearDay = nil
}

// rdurationShim implements the < 3.2 RDURATION fix: historic producers'
// COUNT excluded instances that were then EXDATE'd, so COUNT undercounts
// by the number of EXDATEs once the model expands the full, unexcluded
// series. Restore the original count by adding them back.
type rdurationShim struct{ compatFixer }

func (s rdurationShim) FixRecurrenceCount(rec *rrule.Recurrence) {
	count, ok := rec.Duration()
	if !ok || len(rec.ExDates) == 0 {
		return
	}
	rec.SetDuration(count + len(rec.ExDates))
}

// priorityShim implements the < 3.4 PRIORITY remap: 1,2,3,4,5 -> 1,3,5,7,9.
type priorityShim struct{ compatFixer }

func (s priorityShim) FixPriority(p int) int {
	if p < 1 || p > 5 {
		return p
	}
	return p*2 - 1
}

// startExDateShim implements the < 3.5 fix: when dt-start does not match
// the rule, producers omitted an implicit EXDATE at dt-start that the
// model's merge algorithm (spec §4.2) otherwise assumes.
type startExDateShim struct{ compatFixer }

func (s startExDateShim) FixStartExDate(rec *rrule.Recurrence, dtStart time.Time) {
	if dtStart.IsZero() || len(rec.RRules) == 0 {
		return
	}
	if rec.RecursAt(dtStart) {
		return
	}
	rec.AddExDate(dtStart, rrule.ExDateDateTime)
}

// outlookAlarmShim implements the Outlook < 2000 fix: relative alarm
// offsets were stored positive when they should be negative (before the
// trigger time).
type outlookAlarmShim struct{ compatFixer }

func (s outlookAlarmShim) FixAlarmOffset(d model.Duration) model.Duration {
	if !d.IsNegative() {
		return d.Negate()
	}
	return d
}

// disableTimezoneShim implements the 3.2-prerelease fix: timezone
// shifting on load is skipped entirely.
type disableTimezoneShim struct{ compatFixer }

func (s disableTimezoneShim) DisableTimezones() bool { return true }

// createdFromDTStampShim implements the < 4.10 fix: copy DTSTAMP into
// CREATED when the component omitted CREATED.
type createdFromDTStampShim struct{ compatFixer }

func (s createdFromDTStampShim) FixCreated(created, dtstamp time.Time) time.Time {
	if created.IsZero() {
		return dtstamp
	}
	return created
}

// producerVersion is a parsed PRODID, e.g. "-//K Desktop Environment//
// NONSGML KOrganizer 3.3.2//EN" yields name "KOrganizer", version
// {3,3,2}.
type producerVersion struct {
	name  string
	major int
	minor int
	patch int
	pre   bool // true for prerelease/beta builds, e.g. "3.2-prerelease"
}

// parseProducer extracts the producer name and version from a PRODID
// value by scanning its slash-separated segments for the first token
// that looks like "<Name> <major>.<minor>[.<patch>][-suffix]".
func parseProducer(prodID string) producerVersion {
	for _, segment := range strings.Split(prodID, "//") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		fields := strings.Fields(segment)
		for i := len(fields) - 1; i >= 0; i-- {
			if v, ok := parseVersionToken(fields[i]); ok {
				nameFields := fields[:i]
				if len(nameFields) > 0 && strings.EqualFold(nameFields[0], "NONSGML") {
					nameFields = nameFields[1:]
				}
				v.name = strings.TrimSpace(strings.Join(nameFields, " "))
				return v
			}
		}
	}
	return producerVersion{}
}

func parseVersionToken(tok string) (producerVersion, bool) {
	pre := false
	if idx := strings.IndexAny(tok, "-+"); idx >= 0 {
		pre = true
		tok = tok[:idx]
	}
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return producerVersion{}, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return producerVersion{}, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return producerVersion{}, false
	}
	patch := 0
	if len(parts) > 2 {
		patch, _ = strconv.Atoi(parts[2])
	}
	return producerVersion{major: major, minor: minor, patch: patch, pre: pre}, true
}

// before reports whether v is strictly earlier than major.minor.
func (v producerVersion) before(major, minor int) bool {
	if v.major != major {
		return v.major < major
	}
	return v.minor < minor
}

// isOutlook reports whether the producer name looks like Microsoft
// Outlook (the vCard/iCal PRODID convention embeds the product name, not
// a vendor field).
func (v producerVersion) isOutlook() bool {
	return strings.Contains(strings.ToUpper(v.name), "OUTLOOK") ||
		strings.Contains(strings.ToUpper(v.name), "MICROSOFT")
}

// pickCompat assembles the compatibility chain for a decoded PRODID, per
// the table in spec §4.7. Fixes are layered oldest-reason-first; a
// producer far enough behind accumulates every applicable shim.
func pickCompat(prodID string) compatFixer {
	v := parseProducer(prodID)
	if v.name == "" {
		return identityCompat{}
	}

	var chain compatFixer = identityCompat{}

	if v.isOutlook() && v.before(2000, 0) {
		chain = outlookAlarmShim{chain}
	}
	if v.pre && v.major == 3 && v.minor == 2 {
		chain = disableTimezoneShim{chain}
	}
	if v.before(3, 1) {
		chain = floatingDateShim{chain}
		chain = yearlyDayOfYearShim{chain}
	}
	if v.before(3, 2) {
		chain = rdurationShim{chain}
	}
	if v.before(3, 4) {
		chain = priorityShim{chain}
	}
	if v.before(3, 5) {
		chain = startExDateShim{chain}
	}
	if v.before(4, 10) {
		chain = createdFromDTStampShim{chain}
	}
	return chain
}
