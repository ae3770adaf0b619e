// Package vers parses and compares dotted-integer version identifiers.
package vers

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dotted-integer release identifier such as 1.0.14.
type Version struct {
	Segments []int
	Raw      string
}

// Parse converts a version string into a Version. A leading "v" is
// tolerated. Every dot-separated segment must be a non-negative integer.
func Parse(s string) (Version, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "v")
	if s == "" {
		return Version{}, fmt.Errorf("empty version identifier")
	}

	parts := strings.Split(s, ".")
	segments := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version segment %q in %q", p, raw)
		}
		segments = append(segments, n)
	}

	return Version{Segments: segments, Raw: raw}, nil
}

// Compare returns -1, 0, or 1 when a is lower than, equal to, or higher
// than b. Missing segments compare as zero, so 1.0 equals 1.0.0.
func Compare(a, b Version) int {
	n := len(a.Segments)
	if len(b.Segments) > n {
		n = len(b.Segments)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a.Segments) {
			av = a.Segments[i]
		}
		if i < len(b.Segments) {
			bv = b.Segments[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether a orders strictly before b.
func Less(a, b Version) bool {
	return Compare(a, b) < 0
}

func (v Version) String() string {
	parts := make([]string, len(v.Segments))
	for i, s := range v.Segments {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ".")
}
