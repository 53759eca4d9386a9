// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package vcal

import (
	"strconv"
	"strings"
	"time"

	"github.com/calcore/kcal/rrule"
)

// translateVCalRRule converts vCalendar 1.0's enumerated-letter recurrence
// grammar (e.g. "D1 #10", "W1 MO TU #0", "MD1 15 #0", "YM1 6 #0") into an
// RFC 5545 RecurrenceRule, per spec §4.7's vCalendar compatibility note.
// Returns ok=false for a form this translator doesn't recognize.
func translateVCalRRule(value string, dtStart time.Time) (*rrule.RecurrenceRule, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, false
	}

	typeField := fields[0]
	rest := fields[1:]

	rule := &rrule.RecurrenceRule{WeekStart: rrule.Monday}

	var interval string
	for i, c := range typeField {
		if c >= '0' && c <= '9' {
			interval = typeField[i:]
			typeField = typeField[:i]
			break
		}
	}
	if n, err := strconv.Atoi(interval); err == nil && n > 0 {
		rule.Interval = n
	} else {
		rule.Interval = 1
	}

	switch strings.ToUpper(typeField) {
	case "D":
		rule.Frequency = rrule.FrequencyDaily
	case "W":
		rule.Frequency = rrule.FrequencyWeekly
	case "MP", "MD":
		rule.Frequency = rrule.FrequencyMonthly
	case "YM", "YD":
		rule.Frequency = rrule.FrequencyYearly
	default:
		return nil, false
	}

	var days []string
	for _, f := range rest {
		switch {
		case f == "":
			continue
		case strings.HasPrefix(f, "#"):
			countStr := strings.TrimPrefix(f, "#")
			if countStr == "0" {
				continue // "#0" means "forever" in vCalendar 1.0
			}
			if n, err := strconv.Atoi(countStr); err == nil {
				rule.Count = &n
			}
		case len(f) == 2 && isVCalWeekday(f):
			days = append(days, f)
		}
	}
	for _, d := range days {
		rule.ByDay = append(rule.ByDay, rrule.ByDay{Weekday: rrule.WeekdayCode(strings.ToUpper(d))})
	}

	return rule, true
}

func isVCalWeekday(s string) bool {
	switch strings.ToUpper(s) {
	case "MO", "TU", "WE", "TH", "FR", "SA", "SU":
		return true
	default:
		return false
	}
}
