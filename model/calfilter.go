// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "strings"

// CalFilterCriteria is a bitmask of the filter's enabled checks.
type CalFilterCriteria int

const (
	HideCompletedTodos CalFilterCriteria = 1 << iota
	HideInactiveTodos
	HideRecurring
	HideCategories
)

// CalFilter narrows a calendar's incidence list down by to-do completion,
// recurrence, and category membership, per spec §4.5.
type CalFilter struct {
	Name       string
	Criteria   CalFilterCriteria
	Categories []string
	// CompletedTimespan, in days, excludes completed to-dos completed more
	// than this many days ago. Zero means no timespan limit.
	CompletedTimespan int
}

// NewCalFilter returns an empty, all-permissive filter.
func NewCalFilter(name string) *CalFilter {
	return &CalFilter{Name: name}
}

func (f *CalFilter) has(c CalFilterCriteria) bool { return f.Criteria&c != 0 }

// Passes reports whether incidence survives this filter's criteria.
func (f *CalFilter) Passes(inc *Incidence) bool {
	if f == nil {
		return true
	}
	if f.has(HideRecurring) && inc.Recurs() {
		return false
	}
	if td, ok := inc.AsTodo(); ok {
		if f.has(HideCompletedTodos) && td.IsCompleted() {
			if f.CompletedTimespan <= 0 {
				return false
			}
			if c, ok := td.Completed(); !ok || c.Before(nowFunc().AddDate(0, 0, -f.CompletedTimespan)) {
				return false
			}
		}
		if f.has(HideInactiveTodos) && !td.IsCompleted() {
			if st := td.StartDate(); !st.IsZero() && st.After(nowFunc()) {
				return false
			}
		}
	}
	if f.has(HideCategories) && len(f.Categories) > 0 {
		for _, cat := range inc.Categories() {
			for _, excluded := range f.Categories {
				if strings.EqualFold(cat, excluded) {
					return false
				}
			}
		}
	}
	return true
}

// Apply returns the subset of incidences that pass the filter.
func (f *CalFilter) Apply(incidences []*Incidence) []*Incidence {
	if f == nil {
		return incidences
	}
	out := make([]*Incidence, 0, len(incidences))
	for _, inc := range incidences {
		if f.Passes(inc) {
			out = append(out, inc)
		}
	}
	return out
}
