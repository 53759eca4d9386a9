// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package xcal reads RFC 6321 xCal XML into the model package's object
// model. Only the RFC 6321 <icalendar><vcalendar><properties>/<components>
// shape is read; the legacy pre-RFC dialect is not recognized.
// Read-only, per spec §4.7/Non-goals — xcal never emits XML.
package xcal

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/calcore/kcal/calerr"
	"github.com/calcore/kcal/icaldur"
	"github.com/calcore/kcal/model"
)

// xmlCalendar mirrors RFC 6321 §3's <icalendar><vcalendar> document shape.
// encoding/xml is the only XML library available anywhere in the example
// pack; see DESIGN.md for why no third-party XML library was wired here.
type xmlCalendar struct {
	XMLName   xml.Name       `xml:"icalendar"`
	VCalendar []xmlVCalendar `xml:"vcalendar"`
}

type xmlVCalendar struct {
	Properties xmlProperties `xml:"properties"`
	Components xmlComponents `xml:"components"`
}

type xmlProperties struct {
	Items []xmlProperty `xml:",any"`
}

type xmlProperty struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
	Date    string `xml:"date"`
	DateTime string `xml:"date-time"`
	Text2   string `xml:"text"`
	Integer string `xml:"integer"`
}

type xmlComponents struct {
	VEvent []xmlComponent `xml:"vevent"`
	VTodo  []xmlComponent `xml:"vtodo"`
	VJournal []xmlComponent `xml:"vjournal"`
}

type xmlComponent struct {
	Properties xmlProperties `xml:"properties"`
}

func (p xmlProperty) value() string {
	switch {
	case p.DateTime != "":
		return p.DateTime
	case p.Date != "":
		return p.Date
	case p.Text2 != "":
		return p.Text2
	case p.Integer != "":
		return p.Integer
	default:
		return strings.TrimSpace(p.Text)
	}
}

// Decode reads an xCal XML document into a Calendar.
func Decode(r io.Reader) (*model.Calendar, error) {
	var doc xmlCalendar
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, calerr.New(calerr.CodeParseErrorUnableToParse, err.Error())
	}
	if len(doc.VCalendar) == 0 {
		return nil, calerr.New(calerr.CodeNoCalendar)
	}
	vcal := doc.VCalendar[0]

	prodID := propValue(vcal.Properties, "prodid")
	cal := model.NewCalendar(prodID)
	if v := propValue(vcal.Properties, "version"); v != "" {
		cal.Version = v
	}

	for _, c := range vcal.Components.VEvent {
		cal.AddIncidence((*model.Incidence)(buildEvent(c)))
	}
	for _, c := range vcal.Components.VTodo {
		cal.AddIncidence((*model.Incidence)(buildTodo(c)))
	}
	for _, c := range vcal.Components.VJournal {
		cal.AddIncidence((*model.Incidence)(buildJournal(c)))
	}

	return cal, nil
}

func propValue(props xmlProperties, name string) string {
	for _, p := range props.Items {
		if strings.EqualFold(p.XMLName.Local, name) {
			return p.value()
		}
	}
	return ""
}

func parseInstant(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := icaldur.ParseIcalDateTime(value, time.UTC); err == nil {
		return t, true
	}
	if t, err := icaldur.ParseIcalDate(value, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func applyCommonXML(inc *model.Incidence, props xmlProperties) {
	if v := propValue(props, "uid"); v != "" {
		inc.SetUID(v)
	}
	if t, ok := parseInstant(propValue(props, "dtstart")); ok {
		inc.SetDTStart(t)
	}
	if v := propValue(props, "summary"); v != "" {
		inc.SetSummary(v, false)
	}
	if v := propValue(props, "description"); v != "" {
		inc.SetDescription(v, false)
	}
	if v := propValue(props, "location"); v != "" {
		inc.SetLocation(v, false)
	}
	if v := propValue(props, "priority"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			inc.SetPriority(p)
		}
	}
	if v := propValue(props, "status"); v != "" {
		inc.SetStatus(model.Status(strings.ToUpper(v)))
	}
}

func buildEvent(c xmlComponent) *model.Event {
	e := model.NewEvent()
	applyCommonXML((*model.Incidence)(e), c.Properties)
	if t, ok := parseInstant(propValue(c.Properties, "dtend")); ok {
		e.SetDTEnd(t)
	}
	return e
}

func buildTodo(c xmlComponent) *model.Todo {
	td := model.NewTodo()
	applyCommonXML((*model.Incidence)(td), c.Properties)
	if t, ok := parseInstant(propValue(c.Properties, "due")); ok {
		td.SetDue(t)
	}
	return td
}

func buildJournal(c xmlComponent) *model.Journal {
	j := model.NewJournal()
	applyCommonXML((*model.Incidence)(j), c.Properties)
	return j
}
