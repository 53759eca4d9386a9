// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "time"

// FreeBusyKind is the FBTYPE= parameter of a free/busy period.
type FreeBusyKind string

const (
	FreeBusyFree            FreeBusyKind = "FREE"
	FreeBusyBusy            FreeBusyKind = "BUSY"
	FreeBusyBusyTentative   FreeBusyKind = "BUSY-TENTATIVE"
	FreeBusyBusyUnavailable FreeBusyKind = "BUSY-UNAVAILABLE"
)

// FreeBusyPeriod pairs a Period with its FBTYPE classification.
type FreeBusyPeriod struct {
	Period Period
	Kind   FreeBusyKind
}

// FreeBusy is the VFREEBUSY incidence variant: a list of busy/free
// intervals over a window, published or requested by an organizer.
// Shares Incidence's memory layout, per event.go.
type FreeBusy Incidence

func NewFreeBusy() *FreeBusy {
	inc := newIncidence(TypeFreeBusy)
	return (*FreeBusy)(&inc)
}

func (f *FreeBusy) base() *Incidence      { return (*Incidence)(f) }
func (f *FreeBusy) UID() string           { return f.base().UID() }
func (f *FreeBusy) Incidence() *Incidence { return f.base() }

func (f *FreeBusy) SetDTEnd(t time.Time) {
	if f.ReadOnly() {
		return
	}
	f.dtEnd, f.hasDTEnd = t, true
}

func (f *FreeBusy) DTEnd() time.Time { return f.dtEnd }

func (f *FreeBusy) AddPeriod(p Period, kind FreeBusyKind) {
	if f.ReadOnly() {
		return
	}
	f.freeBusyPeriods = append(f.freeBusyPeriods, FreeBusyPeriod{Period: p, Kind: kind})
}

func (f *FreeBusy) Periods() []FreeBusyPeriod { return f.freeBusyPeriods }
