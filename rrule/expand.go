// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import "time"

// periodCandidates returns the instants the rule produces in the k-th
// period (0-based) after dtStart, before BYSETPOS is applied. A nil return
// means the period contributed nothing (e.g. Feb 31 on a monthly rule).
func (r *RecurrenceRule) periodCandidates(dtStart time.Time, k int) []time.Time {
	interval := r.Interval
	if interval <= 0 {
		interval = 1
	}
	loc := dtStart.Location()

	switch r.Frequency {
	case FrequencyYearly:
		year := dtStart.Year() + k*interval
		days := r.yearlyDaysOfYear(dtStart, year)
		return r.datesToInstants(dtStart, dayOfYearDates(year, days, loc))

	case FrequencyMonthly:
		totalMonths := int(dtStart.Month()-1) + k*interval
		year := dtStart.Year() + totalMonths/12
		month := time.Month(totalMonths%12 + 1)
		days := r.monthlyDaysOfMonth(dtStart, year, month)
		return r.datesToInstants(dtStart, daysOfMonthDates(year, month, days, loc))

	case FrequencyWeekly:
		weekStart := startOfWeek(dtStart, r.effectiveWeekStart())
		periodStart := weekStart.AddDate(0, 0, 7*k*interval)
		dates := r.weeklyDates(dtStart, periodStart)
		return r.datesToInstants(dtStart, dates)

	case FrequencyDaily:
		date := dateOnly(dtStart).AddDate(0, 0, k*interval)
		if !r.dateMatchesFilters(date) {
			return nil
		}
		return r.datesToInstants(dtStart, []time.Time{date})

	case FrequencyHourly:
		instant := dtStart.Add(time.Duration(k*interval) * time.Hour)
		if !r.instantMatchesFilters(instant) {
			return nil
		}
		return []time.Time{instant}

	case FrequencyMinutely:
		instant := dtStart.Add(time.Duration(k*interval) * time.Minute)
		if !r.instantMatchesFilters(instant) {
			return nil
		}
		return []time.Time{instant}

	case FrequencySecondly:
		instant := dtStart.Add(time.Duration(k*interval) * time.Second)
		if !r.instantMatchesFilters(instant) {
			return nil
		}
		return []time.Time{instant}
	}
	return nil
}

func (r *RecurrenceRule) effectiveWeekStart() WeekdayCode {
	if r.WeekStart == "" {
		return Monday
	}
	return r.WeekStart
}

// yearlyDaysOfYear resolves the set of day-of-year values a YEARLY rule
// produces for the given year.
func (r *RecurrenceRule) yearlyDaysOfYear(dtStart time.Time, year int) []int {
	switch {
	case len(r.ByMonth) > 0:
		var days []int
		for _, month := range r.ByMonth {
			if month < 1 || month > 12 {
				continue
			}
			m := time.Month(month)
			var monthDays []int
			switch {
			case len(r.ByDay) > 0:
				monthDays = byDayDaysOfMonth(year, m, r.ByDay)
			case len(r.ByMonthDay) > 0:
				monthDays = resolveMonthDays(year, m, r.ByMonthDay)
			default:
				monthDays = []int{dtStart.Day()}
			}
			for _, d := range monthDays {
				days = append(days, dayOfYear(year, m, d))
			}
		}
		return days
	case len(r.ByWeekNo) > 0:
		return r.byWeekNoDaysOfYear(year)
	case len(r.ByYearDay) > 0:
		return resolveYearDays(year, r.ByYearDay)
	case len(r.ByDay) > 0:
		return byDayDaysOfYear(year, r.ByDay)
	default:
		return []int{dayOfYear(year, dtStart.Month(), dtStart.Day())}
	}
}

func (r *RecurrenceRule) byWeekNoDaysOfYear(year int) []int {
	wkst := r.effectiveWeekStart()
	var days []int
	for _, wn := range r.ByWeekNo {
		weekStart := isoWeekStart(year, wn, wkst)
		if len(r.ByDay) > 0 {
			for _, bd := range r.ByDay {
				offset := weekdayOffset(wkst, bd.Weekday)
				d := weekStart.AddDate(0, 0, offset)
				if d.Year() == year {
					days = append(days, dayOfYear(year, d.Month(), d.Day()))
				}
			}
		} else {
			for i := 0; i < 7; i++ {
				d := weekStart.AddDate(0, 0, i)
				if d.Year() == year {
					days = append(days, dayOfYear(year, d.Month(), d.Day()))
				}
			}
		}
	}
	return days
}

// monthlyDaysOfMonth resolves the set of day-of-month values a MONTHLY rule
// produces for the given year/month.
func (r *RecurrenceRule) monthlyDaysOfMonth(dtStart time.Time, year int, month time.Month) []int {
	switch {
	case len(r.ByDay) > 0:
		return byDayDaysOfMonth(year, month, r.ByDay)
	case len(r.ByMonthDay) > 0:
		return resolveMonthDays(year, month, r.ByMonthDay)
	default:
		day := dtStart.Day()
		if day > daysInMonth(year, month) {
			return nil
		}
		return []int{day}
	}
}

func (r *RecurrenceRule) weeklyDates(dtStart, weekStart time.Time) []time.Time {
	if len(r.ByDay) == 0 {
		// Same weekday offset as dtStart within this period's week.
		offset := weekdayOffset(r.effectiveWeekStart(), weekdayFromGo[dtStart.Weekday()])
		return []time.Time{weekStart.AddDate(0, 0, offset)}
	}
	var dates []time.Time
	for _, bd := range r.ByDay {
		offset := weekdayOffset(r.effectiveWeekStart(), bd.Weekday)
		dates = append(dates, weekStart.AddDate(0, 0, offset))
	}
	return dates
}

func (r *RecurrenceRule) dateMatchesFilters(date time.Time) bool {
	if len(r.ByMonth) > 0 && !containsInt(r.ByMonth, int(date.Month())) {
		return false
	}
	if len(r.ByMonthDay) > 0 {
		resolved := resolveMonthDays(date.Year(), date.Month(), r.ByMonthDay)
		if !containsInt(resolved, date.Day()) {
			return false
		}
	}
	if len(r.ByDay) > 0 {
		match := false
		wd := weekdayFromGo[date.Weekday()]
		for _, bd := range r.ByDay {
			if bd.Weekday == wd {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func (r *RecurrenceRule) instantMatchesFilters(instant time.Time) bool {
	if !r.dateMatchesFilters(instant) {
		return false
	}
	if len(r.ByHour) > 0 && !containsInt(r.ByHour, instant.Hour()) {
		return false
	}
	if len(r.ByMinute) > 0 && !containsInt(r.ByMinute, instant.Minute()) {
		return false
	}
	if len(r.BySecond) > 0 && !containsInt(r.BySecond, instant.Second()) {
		return false
	}
	return true
}

// datesToInstants attaches a time-of-day to each date, expanding across
// BYHOUR/BYMINUTE/BYSECOND when present.
func (r *RecurrenceRule) datesToInstants(dtStart time.Time, dates []time.Time) []time.Time {
	hours := r.ByHour
	if len(hours) == 0 {
		hours = []int{dtStart.Hour()}
	}
	minutes := r.ByMinute
	if len(minutes) == 0 {
		minutes = []int{dtStart.Minute()}
	}
	seconds := r.BySecond
	if len(seconds) == 0 {
		seconds = []int{dtStart.Second()}
	}

	var out []time.Time
	for _, d := range dates {
		for _, h := range hours {
			for _, m := range minutes {
				for _, s := range seconds {
					out = append(out, time.Date(d.Year(), d.Month(), d.Day(), h, m, s, dtStart.Nanosecond(), dtStart.Location()))
				}
			}
		}
	}
	return out
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dayOfYear(year int, month time.Month, day int) int {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).YearDay()
}

func daysInYear(year int) int {
	if time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}

func resolveMonthDays(year int, month time.Month, raw []int) []int {
	n := daysInMonth(year, month)
	var out []int
	for _, d := range raw {
		day := d
		if day < 0 {
			day = n + day + 1
		}
		if day >= 1 && day <= n {
			out = append(out, day)
		}
	}
	return out
}

func resolveYearDays(year int, raw []int) []int {
	n := daysInYear(year)
	var out []int
	for _, d := range raw {
		day := d
		if day < 0 {
			day = n + day + 1
		}
		if day >= 1 && day <= n {
			out = append(out, day)
		}
	}
	return out
}

func daysOfMonthDates(year int, month time.Month, days []int, loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		out = append(out, time.Date(year, month, d, 0, 0, 0, 0, loc))
	}
	return out
}

func dayOfYearDates(year int, days []int, loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		out = append(out, time.Date(year, time.January, d, 0, 0, 0, 0, loc))
	}
	return out
}

// byDayDaysOfMonth resolves BYDAY ordinals ("2FR", "-1SU") within one month.
func byDayDaysOfMonth(year int, month time.Month, byDay []ByDay) []int {
	n := daysInMonth(year, month)
	var out []int
	for _, bd := range byDay {
		matches := weekdayDaysInMonth(year, month, bd.Weekday)
		if bd.Pos == 0 {
			out = append(out, matches...)
			continue
		}
		idx := bd.Pos
		if idx < 0 {
			idx = len(matches) + idx + 1
		}
		if idx >= 1 && idx <= len(matches) {
			out = append(out, matches[idx-1])
		}
	}
	_ = n
	return out
}

func weekdayDaysInMonth(year int, month time.Month, wd WeekdayCode) []int {
	target := weekdayOrder[wd]
	n := daysInMonth(year, month)
	var out []int
	for d := 1; d <= n; d++ {
		if time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Weekday() == target {
			out = append(out, d)
		}
	}
	return out
}

// byDayDaysOfYear resolves BYDAY ordinals across a whole year (YEARLY rules
// with no BYMONTH/BYWEEKNO scoping).
func byDayDaysOfYear(year int, byDay []ByDay) []int {
	var out []int
	for _, bd := range byDay {
		var matches []int
		for doy := 1; doy <= daysInYear(year); doy++ {
			d := time.Date(year, time.January, doy, 0, 0, 0, 0, time.UTC)
			if weekdayFromGo[d.Weekday()] == bd.Weekday {
				matches = append(matches, doy)
			}
		}
		if bd.Pos == 0 {
			out = append(out, matches...)
			continue
		}
		idx := bd.Pos
		if idx < 0 {
			idx = len(matches) + idx + 1
		}
		if idx >= 1 && idx <= len(matches) {
			out = append(out, matches[idx-1])
		}
	}
	return out
}

// weekdayOffset is the number of days from a week beginning at wkst to wd.
func weekdayOffset(wkst, wd WeekdayCode) int {
	start := int(weekdayOrder[wkst])
	target := int(weekdayOrder[wd])
	diff := target - start
	if diff < 0 {
		diff += 7
	}
	return diff
}

// startOfWeek returns the date (at midnight) of the wkst-day on or before t.
func startOfWeek(t time.Time, wkst WeekdayCode) time.Time {
	d := dateOnly(t)
	offset := weekdayOffset(wkst, weekdayFromGo[t.Weekday()])
	return d.AddDate(0, 0, -offset)
}

// isoWeekStart returns the wkst-aligned start date of week number wn in
// year, using the "week 1 contains the first wkst-day on or after Jan 1
// whose week contains at least 4 days of the year" approximation.
func isoWeekStart(year, wn int, wkst WeekdayCode) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	firstWeekStart := startOfWeek(jan1, wkst)
	if jan1.Sub(firstWeekStart).Hours()/24 >= 4 {
		firstWeekStart = firstWeekStart.AddDate(0, 0, 7)
	}
	if wn < 0 {
		nextJan1 := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		lastWeekStart := startOfWeek(nextJan1, wkst)
		if nextJan1.Sub(lastWeekStart).Hours()/24 < 4 {
			lastWeekStart = lastWeekStart.AddDate(0, 0, -7)
		}
		weeks := int(lastWeekStart.Sub(firstWeekStart).Hours()/24/7) + 1
		wn = weeks + wn + 1
	}
	return firstWeekStart.AddDate(0, 0, 7*(wn-1))
}
