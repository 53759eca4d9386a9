// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/calcore/kcal/rrule"
)

// IncidenceType distinguishes the four concrete incidence kinds that all
// share the Incidence struct, per spec §9's "polymorphic incidence list"
// note: Event/Todo/Journal/FreeBusy are struct variants over one common
// type rather than an interface hierarchy.
type IncidenceType int

const (
	TypeEvent IncidenceType = iota
	TypeTodo
	TypeJournal
	TypeFreeBusy
)

// Status is the shared VEVENT/VTODO/VJOURNAL STATUS vocabulary; validity
// of a given value is type-specific and enforced by SetStatus.
type Status string

const (
	StatusNone        Status = ""
	StatusTentative    Status = "TENTATIVE"
	StatusConfirmed    Status = "CONFIRMED"
	StatusCancelled    Status = "CANCELLED"
	StatusNeedsAction  Status = "NEEDS-ACTION"
	StatusCompleted    Status = "COMPLETED"
	StatusInProcess    Status = "IN-PROCESS"
	StatusDraft        Status = "DRAFT"
	StatusFinal        Status = "FINAL"
)

var validStatusByType = map[IncidenceType]map[Status]bool{
	TypeEvent: {StatusNone: true, StatusTentative: true, StatusConfirmed: true, StatusCancelled: true},
	TypeTodo: {StatusNone: true, StatusNeedsAction: true, StatusCompleted: true, StatusInProcess: true,
		StatusCancelled: true},
	TypeJournal: {StatusNone: true, StatusDraft: true, StatusFinal: true, StatusCancelled: true},
}

// Secrecy is the CLASS property value.
type Secrecy string

const (
	SecrecyPublic       Secrecy = "PUBLIC"
	SecrecyPrivate      Secrecy = "PRIVATE"
	SecrecyConfidential Secrecy = "CONFIDENTIAL"
)

// RelationType is the RELTYPE= parameter of a RELATED-TO property.
type RelationType string

const (
	RelatedToParent  RelationType = "PARENT"
	RelatedToChild   RelationType = "CHILD"
	RelatedToSibling RelationType = "SIBLING"
)

// Geo is a WGS84 coordinate pair. An incidence with no GEO property reports
// Valid()==false, with kcalendarcore's historical 255.0 sentinel in both
// Latitude and Longitude, per spec §9.
type Geo struct {
	Latitude  float64
	Longitude float64
	valid     bool
}

const invalidGeoCoordinate = 255.0

func NewGeo(lat, lon float64) Geo { return Geo{Latitude: lat, Longitude: lon, valid: true} }

func (g Geo) Valid() bool { return g.valid }

// Incidence is the common representation shared by Event, Todo, Journal,
// and FreeBusy: everything RFC 5545 components have in common sits here,
// and each concrete type is defined on this same layout (spec §3).
type Incidence struct {
	IncidenceBase

	kind IncidenceType

	created  time.Time
	revision int

	summary          string
	summaryRich      bool
	description      string
	descriptionRich  bool
	location         string
	locationRich     bool

	color      string
	categories []string
	resources  []string
	priority   int

	status  Status
	secrecy Secrecy

	alarms      []*Alarm
	attachments []*Attachment
	conferences []*Conference
	relatedTo   map[RelationType][]string

	geo Geo

	recurrence *rrule.Recurrence

	recurrenceID  time.Time
	thisAndFuture bool

	schedulingID string
	localOnly    bool

	// Event-specific. A DTEND and a DURATION are mutually exclusive, per
	// spec §4.4.
	dtEnd       time.Time
	hasDTEnd    bool
	eventDur    Duration
	hasEventDur bool
	transparent bool

	// Todo-specific.
	due             time.Time
	hasDue          bool
	completed       time.Time
	hasCompleted    bool
	percentComplete int

	// FreeBusy-specific.
	freeBusyPeriods []FreeBusyPeriod
}

func newIncidence(kind IncidenceType) Incidence {
	return Incidence{
		IncidenceBase: newIncidenceBase(),
		kind:          kind,
		secrecy:       SecrecyPublic,
		relatedTo:     make(map[RelationType][]string),
	}
}

func (i *Incidence) Type() IncidenceType { return i.kind }

func (i *Incidence) Created() time.Time { return i.created }
func (i *Incidence) SetCreated(t time.Time) {
	if i.ReadOnly() {
		return
	}
	i.created = t
}

func (i *Incidence) Revision() int { return i.revision }
func (i *Incidence) IncrementRevision() {
	i.revision++
	i.touch()
}

func (i *Incidence) Summary() (text string, rich bool) { return i.summary, i.summaryRich }
func (i *Incidence) SetSummary(text string, rich bool) {
	if i.ReadOnly() {
		return
	}
	i.summary, i.summaryRich = text, rich
	i.markDirty(FieldSummary)
	i.notify()
}

func (i *Incidence) Description() (text string, rich bool) { return i.description, i.descriptionRich }
func (i *Incidence) SetDescription(text string, rich bool) {
	if i.ReadOnly() {
		return
	}
	i.description, i.descriptionRich = text, rich
	i.markDirty(FieldDescription)
	i.notify()
}

func (i *Incidence) Location() (text string, rich bool) { return i.location, i.locationRich }
func (i *Incidence) SetLocation(text string, rich bool) {
	if i.ReadOnly() {
		return
	}
	i.location, i.locationRich = text, rich
	i.markDirty(FieldLocation)
	i.notify()
}

func (i *Incidence) Color() string      { return i.color }
func (i *Incidence) SetColor(c string)  { i.color = c }

func (i *Incidence) Categories() []string { return i.categories }
func (i *Incidence) SetCategories(cats []string) {
	if i.ReadOnly() {
		return
	}
	i.categories = cats
	i.markDirty(FieldCategories)
}

func (i *Incidence) Resources() []string   { return i.resources }
func (i *Incidence) SetResources(r []string) { i.resources = r }

// Priority is 0 (undefined) or 1 (highest) through 9 (lowest), per RFC
// 5545 §3.8.1.9. Out-of-range values are silently rejected.
func (i *Incidence) Priority() int { return i.priority }
func (i *Incidence) SetPriority(p int) {
	if i.ReadOnly() || p < 0 || p > 9 {
		return
	}
	i.priority = p
	i.markDirty(FieldPriority)
}

func (i *Incidence) Status() Status { return i.status }

// SetStatus silently rejects a status not valid for this incidence's type,
// per spec §4.4's per-type STATUS vocabulary.
func (i *Incidence) SetStatus(s Status) {
	if i.ReadOnly() {
		return
	}
	if allowed, ok := validStatusByType[i.kind]; ok && !allowed[s] {
		return
	}
	i.status = s
	i.markDirty(FieldStatus)
	i.notify()
}

func (i *Incidence) Secrecy() Secrecy     { return i.secrecy }
func (i *Incidence) SetSecrecy(s Secrecy) {
	if i.ReadOnly() {
		return
	}
	i.secrecy = s
	i.markDirty(FieldSecrecy)
}

func (i *Incidence) Alarms() []*Alarm { return i.alarms }

func (i *Incidence) AddAlarm(a *Alarm) {
	if i.ReadOnly() || a == nil {
		return
	}
	a.setParent(i)
	i.alarms = append(i.alarms, a)
}

func (i *Incidence) ClearAlarms() {
	for _, a := range i.alarms {
		a.clearParent()
	}
	i.alarms = nil
}

func (i *Incidence) Attachments() []*Attachment { return i.attachments }
func (i *Incidence) AddAttachment(a *Attachment) {
	if i.ReadOnly() || a == nil {
		return
	}
	i.attachments = append(i.attachments, a)
}

func (i *Incidence) Conferences() []*Conference { return i.conferences }
func (i *Incidence) AddConference(c *Conference) {
	if i.ReadOnly() || c == nil {
		return
	}
	i.conferences = append(i.conferences, c)
}

func (i *Incidence) RelatedTo(rel RelationType) []string { return i.relatedTo[rel] }
func (i *Incidence) AddRelatedTo(rel RelationType, uid string) {
	if i.ReadOnly() || uid == "" {
		return
	}
	i.relatedTo[rel] = append(i.relatedTo[rel], uid)
}

func (i *Incidence) Geo() Geo {
	if !i.geo.valid {
		return Geo{Latitude: invalidGeoCoordinate, Longitude: invalidGeoCoordinate}
	}
	return i.geo
}
func (i *Incidence) SetGeo(g Geo)  { i.geo = g }
func (i *Incidence) ClearGeo()     { i.geo = Geo{} }

// Recurrence lazily allocates the incidence's Recurrence on first access,
// mirroring kcalendarcore's Private::recurrence(), and wires the incidence
// itself as the rrule.Observer so dirty tracking and notifications fire on
// any rule/exception change, per spec §9's model/rrule cycle note.
func (i *Incidence) Recurrence() *rrule.Recurrence {
	if i.recurrence == nil {
		i.recurrence = rrule.NewRecurrence(i.DTStart(), i.AllDay())
		i.recurrence.AddObserver(i)
	}
	return i.recurrence
}

func (i *Incidence) Recurs() bool {
	return i.recurrence != nil && (len(i.recurrence.RRules) > 0 || len(i.recurrence.RDates) > 0)
}

// RecurrenceUpdated implements rrule.Observer.
func (i *Incidence) RecurrenceUpdated() {
	i.markDirty(FieldRecurrence)
	i.notify()
}

func (i *Incidence) RecurrenceID() time.Time      { return i.recurrenceID }
func (i *Incidence) SetRecurrenceID(t time.Time)  { i.recurrenceID = t }
func (i *Incidence) ThisAndFuture() bool          { return i.thisAndFuture }
func (i *Incidence) SetThisAndFuture(v bool)      { i.thisAndFuture = v }
func (i *Incidence) IsException() bool            { return !i.recurrenceID.IsZero() }

func (i *Incidence) SchedulingID() string      { return i.schedulingID }
func (i *Incidence) SetSchedulingID(id string) { i.schedulingID = id }

func (i *Incidence) LocalOnly() bool      { return i.localOnly }
func (i *Incidence) SetLocalOnly(v bool)  { i.localOnly = v }

// AsTodo narrows a generic *Incidence to *Todo when its kind is TypeTodo.
// Used by CalFilter, which operates on the common type.
func (i *Incidence) AsTodo() (*Todo, bool) {
	if i.kind != TypeTodo {
		return nil, false
	}
	return (*Todo)(i), true
}

func (i *Incidence) AsEvent() (*Event, bool) {
	if i.kind != TypeEvent {
		return nil, false
	}
	return (*Event)(i), true
}

func (i *Incidence) AsJournal() (*Journal, bool) {
	if i.kind != TypeJournal {
		return nil, false
	}
	return (*Journal)(i), true
}

func (i *Incidence) AsFreeBusy() (*FreeBusy, bool) {
	if i.kind != TypeFreeBusy {
		return nil, false
	}
	return (*FreeBusy)(i), true
}
