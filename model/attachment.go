// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "encoding/base64"

// Attachment is either a URI reference or an inline base64 blob, both
// tagged with a MIME type.
type Attachment struct {
	MimeType string

	uri    string
	data   string // raw base64 text, as read from the wire
	inline bool

	decodedLen    int
	decodedLenSet bool
}

// NewURIAttachment builds a URI-referenced attachment.
func NewURIAttachment(uri, mimeType string) *Attachment {
	return &Attachment{uri: uri, MimeType: mimeType}
}

// NewInlineAttachment builds an inline base64-encoded attachment.
func NewInlineAttachment(base64Data, mimeType string) *Attachment {
	return &Attachment{data: base64Data, inline: true, MimeType: mimeType}
}

func (a *Attachment) IsInline() bool { return a.inline }
func (a *Attachment) URI() string    { return a.uri }
func (a *Attachment) Data() string   { return a.data }

// Size lazily decodes the inline blob to report its byte length, caching
// the result. Returns 0 for URI attachments.
func (a *Attachment) Size() int {
	if !a.inline {
		return 0
	}
	if a.decodedLenSet {
		return a.decodedLen
	}
	decoded, err := base64.StdEncoding.DecodeString(a.data)
	if err != nil {
		return 0
	}
	a.decodedLen = len(decoded)
	a.decodedLenSet = true
	return a.decodedLen
}
