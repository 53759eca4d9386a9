// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// Journal is the VJOURNAL incidence variant: a DTSTART with no duration,
// describing a point-in-time note. Shares Incidence's memory layout, per
// event.go.
type Journal Incidence

func NewJournal() *Journal {
	inc := newIncidence(TypeJournal)
	return (*Journal)(&inc)
}

func (j *Journal) base() *Incidence      { return (*Incidence)(j) }
func (j *Journal) UID() string           { return j.base().UID() }
func (j *Journal) Incidence() *Incidence { return j.base() }
func (j *Journal) Status() Status        { return j.base().Status() }
func (j *Journal) SetStatus(s Status)    { j.base().SetStatus(s) }
