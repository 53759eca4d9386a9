// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package ical reads and writes RFC 5545 iCalendar data into and out of
// the model package's in-memory object model.
package ical

import (
	"bufio"
	"io"
	"strings"

	"github.com/calcore/kcal/calerr"
)

// unfold reads CRLF/LF-terminated content lines, rejoining RFC 5545's
// folded continuation lines (any line starting with a single space or
// tab is a continuation of the previous one), per spec §4.7.
func unfold(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var lines []string
	var current strings.Builder

	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		if raw == "" {
			continue
		}
		if (raw[0] == ' ' || raw[0] == '\t') && current.Len() > 0 {
			current.WriteString(raw[1:])
			continue
		}
		if current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		current.WriteString(raw)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, calerr.New(calerr.CodeLoadError, err.Error())
	}
	return lines, nil
}

// contentLine is one parsed NAME;PARAM=VALUE;...:VALUE line.
type contentLine struct {
	Name   string
	Params map[string][]string
	Value  string
}

// parseLine splits a content line into name, parameters, and value,
// respecting double-quoted parameter values. Grounded on the teacher's
// findUnquotedColonIndex/splitParameters approach, generalized to also
// split parameter names from parameter values.
func parseLine(line string) (contentLine, error) {
	colon := findUnquotedColon(line)
	if colon == -1 {
		return contentLine{}, calerr.New(calerr.CodeParseErrorUnableToParse, line)
	}
	head := line[:colon]
	value := line[colon+1:]

	semi := strings.IndexByte(head, ';')
	name := head
	var rawParams []string
	if semi != -1 {
		name = head[:semi]
		rawParams = splitParams(head[semi+1:])
	}
	name = strings.ToUpper(name)

	params := make(map[string][]string, len(rawParams))
	for _, p := range rawParams {
		eq := strings.IndexByte(p, '=')
		if eq == -1 {
			continue
		}
		key := strings.ToUpper(p[:eq])
		val := strings.Trim(p[eq+1:], `"`)
		params[key] = append(params[key], val)
	}

	return contentLine{Name: name, Params: params, Value: value}, nil
}

func splitParams(s string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for _, c := range s {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteRune(c)
		case c == ';' && !inQuotes:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func findUnquotedColon(line string) int {
	inQuotes := false
	for i, c := range line {
		switch c {
		case '"':
			inQuotes = !inQuotes
		case ':':
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

// splitStructured splits a comma-separated property value (CATEGORIES,
// RESOURCES, EXDATE, RDATE lists) while respecting the RFC 5545 escaping
// of commas within TEXT values.
func splitStructured(value string) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	for _, c := range value {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == ',':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	out = append(out, cur.String())
	return out
}

// unescapeText undoes RFC 5545 §3.3.11 TEXT escaping.
func unescapeText(s string) string {
	var b strings.Builder
	escaped := false
	for _, c := range s {
		if escaped {
			switch c {
			case 'n', 'N':
				b.WriteByte('\n')
			case '\\', ';', ',':
				b.WriteRune(c)
			default:
				b.WriteRune(c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// escapeText applies RFC 5545 §3.3.11 TEXT escaping.
func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)
	return r.Replace(s)
}

// foldLine wraps a content line at 75 octets, emitting RFC 5545's folded
// continuation form (CRLF followed by a single leading space).
func foldLine(w io.Writer, line string) error {
	const maxLen = 75
	for len(line) > maxLen {
		if _, err := io.WriteString(w, line[:maxLen]+"\r\n "); err != nil {
			return err
		}
		line = line[maxLen:]
	}
	_, err := io.WriteString(w, line+"\r\n")
	return err
}
