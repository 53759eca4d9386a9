// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package vcal reads legacy vCalendar 1.0 streams into the model package's
// object model. It is read-only: vCalendar 1.0 is a deprecated wire format
// and this codec never emits it, per spec §4.7/Non-goals.
package vcal

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/calcore/kcal/calerr"
	"github.com/calcore/kcal/icaldur"
	"github.com/calcore/kcal/model"
)

// vCal10DateTimeFormat is vCalendar 1.0's local (zoneless) date-time form.
const vCal10DateTimeFormat = "20060102T150405"

// Decode reads a vCalendar 1.0 stream into a Calendar. Unlike RFC 5545,
// vCalendar 1.0 has no VJOURNAL/VFREEBUSY and its RRULE grammar is an
// enumerated-letter form (e.g. "D1 20000101 #10") rather than the
// FREQ=...;INTERVAL=... grammar rrule.ParseRecurrenceRule expects; both
// differences are handled here rather than in the ical package.
func Decode(r io.Reader) (*model.Calendar, error) {
	lines, err := unfoldVCal(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, calerr.New(calerr.CodeNoCalendar)
	}

	cal := model.NewCalendar("")
	cal.Version = "1.0"

	var current *model.Incidence
	var inEvent, inTodo bool

	for _, line := range lines {
		upper := strings.ToUpper(line)
		switch {
		case upper == "BEGIN:VEVENT":
			current = (*model.Incidence)(model.NewEvent())
			inEvent, inTodo = true, false
			continue
		case upper == "BEGIN:VTODO":
			current = (*model.Incidence)(model.NewTodo())
			inEvent, inTodo = false, true
			continue
		case upper == "END:VEVENT" || upper == "END:VTODO":
			if current != nil {
				cal.AddIncidence(current)
			}
			current, inEvent, inTodo = nil, false, false
			continue
		case upper == "BEGIN:VCALENDAR" || upper == "END:VCALENDAR":
			continue
		}

		if current == nil || (!inEvent && !inTodo) {
			continue
		}
		applyVCalProperty(current, line)
	}

	return cal, nil
}

func applyVCalProperty(inc *model.Incidence, line string) {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return
	}
	head := line[:colon]
	value := line[colon+1:]
	name := head
	if semi := strings.IndexByte(head, ';'); semi != -1 {
		name = head[:semi]
	}

	switch strings.ToUpper(name) {
	case "UID":
		inc.SetUID(value)
	case "SUMMARY":
		inc.SetSummary(value, false)
	case "DESCRIPTION":
		inc.SetDescription(value, false)
	case "LOCATION":
		inc.SetLocation(value, false)
	case "DTSTART":
		if t, err := parseVCalDateTime(value); err == nil {
			inc.SetDTStart(t)
		}
	case "DTEND":
		if t, err := parseVCalDateTime(value); err == nil {
			if e, ok := inc.AsEvent(); ok {
				e.SetDTEnd(t)
			}
		}
	case "DUE":
		if t, err := parseVCalDateTime(value); err == nil {
			if td, ok := inc.AsTodo(); ok {
				td.SetDue(t)
			}
		}
	case "PRIORITY":
		if p, err := strconv.Atoi(value); err == nil {
			inc.SetPriority(p)
		}
	case "CATEGORIES":
		inc.SetCategories(strings.Split(value, ";"))
	case "RRULE":
		if rule, ok := translateVCalRRule(value, inc.DTStart()); ok {
			inc.Recurrence().AddRRule(rule)
		}
	}
}

func parseVCalDateTime(value string) (time.Time, error) {
	if strings.Contains(value, "T") {
		return time.ParseInLocation(vCal10DateTimeFormat, strings.TrimSuffix(value, "Z"), time.UTC)
	}
	return icaldur.ParseIcalDate(value, time.UTC)
}

func unfoldVCal(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	var current strings.Builder
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		if raw == "" {
			continue
		}
		if raw[0] == ' ' && current.Len() > 0 {
			current.WriteString(raw[1:])
			continue
		}
		if current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		current.WriteString(raw)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, calerr.New(calerr.CodeLoadError, err.Error())
	}
	return lines, nil
}
