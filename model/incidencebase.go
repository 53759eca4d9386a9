// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/calcore/kcal/uidgen"
)

// IncidenceObserver is notified when an incidence's fields change, so that
// an owning Calendar can keep its indices current.
type IncidenceObserver interface {
	IncidenceUpdated(uid string)
}

// Field identifies a single mutable field on IncidenceBase, for the dirty
// set tracked by setters that silently reject illegal values (spec §9).
type Field int

const (
	FieldDTStart Field = iota
	FieldOrganizer
	FieldSummary
	FieldDescription
	FieldLocation
	FieldStatus
	FieldPriority
	FieldCategories
	FieldRecurrence
	FieldAttendee
	FieldSecrecy
)

// IncidenceBase holds the fields and behavior shared by every incidence
// type: Event, Todo, Journal, FreeBusy. It is never used standalone — it
// is always embedded in Incidence, per spec §3/§9.
type IncidenceBase struct {
	uid          string
	organizer    *Person
	dtStart      time.Time
	allDay       bool
	lastModified time.Time
	readOnly     bool

	attendees        []*Attendee
	comments         []string
	contacts         []string
	customProperties CustomProperties
	url              string

	dirty map[Field]bool

	observers []IncidenceObserver
}

func newIncidenceBase() IncidenceBase {
	return IncidenceBase{
		uid:              uidgen.New(),
		customProperties: NewCustomProperties(),
		dirty:            make(map[Field]bool),
	}
}

func (b *IncidenceBase) markDirty(f Field) { b.dirty[f] = true }

// IsDirty reports whether f has been set since construction or the last
// ClearDirty.
func (b *IncidenceBase) IsDirty(f Field) bool { return b.dirty[f] }

// ClearDirty resets the dirty set, typically after a successful save.
func (b *IncidenceBase) ClearDirty() { b.dirty = make(map[Field]bool) }

func (b *IncidenceBase) notify() {
	for _, obs := range b.observers {
		obs.IncidenceUpdated(b.uid)
	}
}

func (b *IncidenceBase) AddObserver(obs IncidenceObserver) { b.observers = append(b.observers, obs) }

func (b *IncidenceBase) RemoveObserver(obs IncidenceObserver) {
	for i, o := range b.observers {
		if o == obs {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

func (b *IncidenceBase) UID() string { return b.uid }

// SetUID is rejected (a no-op) when the incidence is read-only or uid is
// empty.
func (b *IncidenceBase) SetUID(uid string) {
	if b.readOnly || uid == "" {
		return
	}
	b.uid = uid
}

func (b *IncidenceBase) ReadOnly() bool     { return b.readOnly }
func (b *IncidenceBase) SetReadOnly(v bool) { b.readOnly = v }

func (b *IncidenceBase) Organizer() *Person { return b.organizer }

func (b *IncidenceBase) SetOrganizer(p Person) {
	if b.readOnly {
		return
	}
	b.organizer = &p
	b.markDirty(FieldOrganizer)
	b.notify()
}

func (b *IncidenceBase) DTStart() time.Time { return b.dtStart }

func (b *IncidenceBase) SetDTStart(t time.Time) {
	if b.readOnly {
		return
	}
	b.dtStart = t
	b.markDirty(FieldDTStart)
	b.notify()
}

func (b *IncidenceBase) AllDay() bool { return b.allDay }

func (b *IncidenceBase) SetAllDay(v bool) {
	if b.readOnly {
		return
	}
	b.allDay = v
	b.notify()
}

func (b *IncidenceBase) LastModified() time.Time { return b.lastModified }
func (b *IncidenceBase) touch()                  { b.lastModified = nowFunc() }

func (b *IncidenceBase) Attendees() []*Attendee { return b.attendees }

func (b *IncidenceBase) AddAttendee(a *Attendee) {
	if b.readOnly || a == nil {
		return
	}
	b.attendees = append(b.attendees, a)
	b.markDirty(FieldAttendee)
	b.notify()
}

func (b *IncidenceBase) ClearAttendees() { b.attendees = nil }

func (b *IncidenceBase) Comments() []string { return b.comments }
func (b *IncidenceBase) AddComment(c string) {
	if b.readOnly {
		return
	}
	b.comments = append(b.comments, c)
}

func (b *IncidenceBase) Contacts() []string { return b.contacts }
func (b *IncidenceBase) AddContact(c string) {
	if b.readOnly {
		return
	}
	b.contacts = append(b.contacts, c)
}

func (b *IncidenceBase) CustomProperties() *CustomProperties { return &b.customProperties }

func (b *IncidenceBase) URL() string { return b.url }
func (b *IncidenceBase) SetURL(u string) {
	if b.readOnly {
		return
	}
	b.url = u
}
