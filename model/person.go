// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "strings"

// Person is a name and an email address, as found in ORGANIZER/ATTENDEE
// free text or CN= parameters.
type Person struct {
	Name  string
	Email string
}

// FromFullName parses the historic free-text person forms:
//
//	"Name <email>", "<email>", "email", or bare "Name".
//
// When given a bare name with no "@", the email is synthesized by
// replacing spaces with dots — a deliberately preserved bug-compatible
// behavior (spec §4.1, §9 open question (a)). synthetic reports whether
// that fallback fired, so callers can flag the identity as unverified.
func FromFullName(fullName string) (person Person, synthetic bool) {
	s := strings.TrimSpace(fullName)
	if s == "" {
		return Person{}, false
	}

	if open := strings.IndexByte(s, '<'); open != -1 {
		if closeIdx := strings.IndexByte(s[open:], '>'); closeIdx != -1 {
			email := s[open+1 : open+closeIdx]
			name := strings.TrimSpace(s[:open])
			return Person{Name: name, Email: email}, false
		}
	}

	if strings.Contains(s, "@") {
		return Person{Email: s}, false
	}

	synthesizedEmail := strings.ReplaceAll(s, " ", ".")
	return Person{Name: s, Email: synthesizedEmail}, true
}

func (p Person) Equal(other Person) bool {
	return p.Name == other.Name && p.Email == other.Email
}
