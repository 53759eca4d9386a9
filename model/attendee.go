// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// Role is the ATTENDEE ROLE= parameter value.
type Role string

const (
	RoleChair          Role = "CHAIR"
	RoleRequired       Role = "REQ-PARTICIPANT"
	RoleOptional       Role = "OPT-PARTICIPANT"
	RoleNonParticipant Role = "NON-PARTICIPANT"
)

// PartStat is the ATTENDEE PARTSTAT= parameter value.
type PartStat string

const (
	PartStatNeedsAction PartStat = "NEEDS-ACTION"
	PartStatAccepted    PartStat = "ACCEPTED"
	PartStatDeclined    PartStat = "DECLINED"
	PartStatTentative   PartStat = "TENTATIVE"
	PartStatDelegated   PartStat = "DELEGATED"
	PartStatCompleted   PartStat = "COMPLETED"
	PartStatInProcess   PartStat = "IN-PROCESS"
)

// Attendee is a Person plus scheduling metadata.
type Attendee struct {
	Person
	Role           Role
	PartStat       PartStat
	RSVP           bool
	DelegatedFrom  []string
	DelegatedTo    []string
	CustomProperties
}

func NewAttendee(person Person) *Attendee {
	return &Attendee{
		Person:           person,
		Role:             RoleRequired,
		PartStat:         PartStatNeedsAction,
		CustomProperties: NewCustomProperties(),
	}
}

func (a *Attendee) Equal(other *Attendee) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Person.Equal(other.Person) && a.Role == other.Role && a.PartStat == other.PartStat &&
		a.RSVP == other.RSVP
}
