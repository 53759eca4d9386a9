// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "strings"

// volatilePrefix marks custom properties that are kept in memory only and
// never serialized or compared, per spec §9.
const volatilePrefix = "X-KDE-VOLATILE"

// CustomProperty is one non-standard X- (or IANA) property value plus its
// parameters, keyed by parameter name.
type CustomProperty struct {
	Value      string
	Parameters map[string]string
}

// CustomProperties is the extensible typed key/value bag attached to every
// incidence, attendee, and alarm (component B).
type CustomProperties struct {
	props    map[string]CustomProperty
	volatile map[string]string
}

// NewCustomProperties returns an empty, ready-to-use bag.
func NewCustomProperties() CustomProperties {
	return CustomProperties{props: make(map[string]CustomProperty)}
}

// Set stores value under the uppercased key. Keys beginning with
// X-KDE-VOLATILE are routed to the unexported sidecar instead.
func (c *CustomProperties) Set(key, value string, params map[string]string) {
	key = strings.ToUpper(key)
	if strings.HasPrefix(key, volatilePrefix) {
		if c.volatile == nil {
			c.volatile = make(map[string]string)
		}
		c.volatile[key] = value
		return
	}
	if c.props == nil {
		c.props = make(map[string]CustomProperty)
	}
	c.props[key] = CustomProperty{Value: value, Parameters: params}
}

// Get returns the named custom property, if any. Volatile keys are also
// retrievable, for symmetry with Set.
func (c *CustomProperties) Get(key string) (CustomProperty, bool) {
	key = strings.ToUpper(key)
	if strings.HasPrefix(key, volatilePrefix) {
		v, ok := c.volatile[key]
		return CustomProperty{Value: v}, ok
	}
	v, ok := c.props[key]
	return v, ok
}

// Delete removes the named custom property.
func (c *CustomProperties) Delete(key string) {
	key = strings.ToUpper(key)
	if strings.HasPrefix(key, volatilePrefix) {
		delete(c.volatile, key)
		return
	}
	delete(c.props, key)
}

// Keys returns the serializable (non-volatile) property keys.
func (c *CustomProperties) Keys() []string {
	keys := make([]string, 0, len(c.props))
	for k := range c.props {
		keys = append(keys, k)
	}
	return keys
}

// Equal compares only the serializable properties; volatile keys are
// excluded from equality per spec §9.
func (c *CustomProperties) Equal(other *CustomProperties) bool {
	if len(c.props) != len(other.props) {
		return false
	}
	for k, v := range c.props {
		ov, ok := other.props[k]
		if !ok || ov.Value != v.Value {
			return false
		}
	}
	return true
}
