// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// TZObservance is one STANDARD or DAYLIGHT sub-component of a VTIMEZONE:
// an offset pair plus the recurrence rule describing when it applies.
type TZObservance struct {
	Daylight     bool
	OffsetFrom   string
	OffsetTo     string
	TZName       string
	Start        string // DTSTART, local wall-clock form
	RRule        string // raw RRULE value, parsed lazily by the tz package
	RDates       []string
}

// VTimeZone represents a VTIMEZONE component: a TZID plus its observances,
// either carried verbatim from the wire or synthesized from an IANA
// zoneinfo name by the tz package (spec §4.6).
type VTimeZone struct {
	TZID         string
	LastModified string
	Observances  []TZObservance
}
