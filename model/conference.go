// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// Conference describes a CONFERENCE property: a joinable URI plus a
// human label and a set of feature tags (AUDIO, VIDEO, CHAT, ...).
type Conference struct {
	URI      string
	Label    string
	Features []string
}
