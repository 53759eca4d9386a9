package icaldur

import (
	"strings"
	"time"
)

// iCalDateTimeFormat represents the standard iCal UTC datetime format
// Format: YYYYMMDDTHHMMSSZ (e.g., 20250928T183000Z).
const iCalDateTimeFormat = "20060102T150405Z"

// iCalLocalDateTimeFormat is the floating/local-time form, no trailing Z.
const iCalLocalDateTimeFormat = "20060102T150405"

// iCalDateFormat is the DATE-only value form (e.g. 20250928).
const iCalDateFormat = "20060102"

// ParseIcalTime parses an iCal DATE-TIME value; the trailing "Z" is
// optional and a floating value is read as UTC.
func ParseIcalTime(value string) (time.Time, error) {
	return ParseIcalDateTime(value, time.UTC)
}

// ParseIcalDateTime parses a DATE-TIME value in either its UTC or floating
// form, attaching loc to floating values.
func ParseIcalDateTime(value string, loc *time.Location) (time.Time, error) {
	if strings.HasSuffix(value, "Z") {
		return time.Parse(iCalDateTimeFormat, value)
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(iCalLocalDateTimeFormat, value, loc)
}

// ParseIcalDate parses a DATE-only value into midnight of that day in loc.
func ParseIcalDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(iCalDateFormat, value, loc)
}

// FormatIcalDateTime renders t back into its UTC or floating wire form.
func FormatIcalDateTime(t time.Time, utc bool) string {
	if utc {
		return t.UTC().Format(iCalDateTimeFormat)
	}
	return t.Format(iCalLocalDateTimeFormat)
}

// FormatIcalDate renders the date-only form of t.
func FormatIcalDate(t time.Time) string {
	return t.Format(iCalDateFormat)
}

// ParsePeriod parses an RFC 5545 PERIOD value: either "start/end" or
// "start/duration".
func ParsePeriod(value string, loc *time.Location) (start, end time.Time, err error) {
	startStr, rest, _ := strings.Cut(value, "/")
	start, err = ParseIcalDateTime(startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if strings.HasPrefix(rest, "P") || strings.HasPrefix(rest, "+P") || strings.HasPrefix(rest, "-P") {
		dur, derr := ParseICalDuration(rest)
		if derr != nil {
			return time.Time{}, time.Time{}, derr
		}
		return start, start.Add(dur), nil
	}
	end, err = ParseIcalDateTime(rest, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
