package logging

import (
	"strconv"
	"strings"
)

// SeverityMask is the "-L 0-2,20-23,51" severity mask syntax: a set of
// individual severities and inclusive ranges, or everything when the mask
// is "A".
type SeverityMask struct {
	all    bool
	ranges [][2]int
}

// ParseSeverityMask parses the -L flag's argument. An empty string and "A"
// both mean "log every severity".
func ParseSeverityMask(s string) (SeverityMask, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "A") {
		return SeverityMask{all: true}, nil
	}

	var m SeverityMask
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, err := parseSeverityRange(part)
		if err != nil {
			return SeverityMask{}, err
		}
		m.ranges = append(m.ranges, [2]int{lo, hi})
	}
	return m, nil
}

func parseSeverityRange(part string) (lo, hi int, err error) {
	if i := strings.IndexByte(part, '-'); i > 0 {
		lo, err = strconv.Atoi(part[:i])
		if err != nil {
			return 0, 0, err
		}
		hi, err = strconv.Atoi(part[i+1:])
		return lo, hi, err
	}
	n, err := strconv.Atoi(part)
	return n, n, err
}

// Allows reports whether sev passes the mask. A mask with no ranges (the
// zero value) allows every severity.
func (m SeverityMask) Allows(sev int) bool {
	if m.all || len(m.ranges) == 0 {
		return true
	}
	for _, r := range m.ranges {
		if sev >= r[0] && sev <= r[1] {
			return true
		}
	}
	return false
}
