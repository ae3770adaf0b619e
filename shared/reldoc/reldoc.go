// Package reldoc defines the release entry record shared by the changelog,
// release notes, and consistency services.
package reldoc

import (
	"fmt"
	"strings"
	"time"

	"github.com/dthorne/relvet/shared/vers"
)

// Entry is one published release: a version identifier, a date, and the
// human-readable change descriptions. Entries are never mutated after
// publication; documents list them newest first.
type Entry struct {
	Version string
	Date    string
	Changes []string
	Line    int
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"02-Jan-2006",
	"January 2, 2006",
}

// ParseDate parses a release date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseVersion parses the entry's version identifier.
func (e Entry) ParseVersion() (vers.Version, error) {
	return vers.Parse(e.Version)
}

// ParsedDate parses the entry's date.
func (e Entry) ParsedDate() (time.Time, error) {
	return ParseDate(e.Date)
}

// Newest returns the entry with the highest parseable version, or false
// when no entry has one.
func Newest(entries []Entry) (Entry, bool) {
	var (
		best    Entry
		bestVer vers.Version
		found   bool
	)
	for _, e := range entries {
		v, err := e.ParseVersion()
		if err != nil {
			continue
		}
		if !found || vers.Less(bestVer, v) {
			best, bestVer, found = e, v, true
		}
	}
	return best, found
}
