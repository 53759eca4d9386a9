// Package uidgen generates the globally unique identifiers calcore stamps
// onto every incidence it creates.
package uidgen

import "github.com/google/uuid"

// New returns a fresh RFC 4122 v4 UID suitable for IncidenceBase.UID.
func New() string {
	return uuid.NewString()
}
