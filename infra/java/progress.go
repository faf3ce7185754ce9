package java

import (
	"regexp"
	"strconv"
)

var (
	iterationBegins = regexp.MustCompile(`ITERATION (\d+) BEGINS`)
	shutdownMarker  = regexp.MustCompile(`S H U T D O W N`)
)

// ParseIteration extracts the iteration number of a controller
// "ITERATION <n> BEGINS" line.
func ParseIteration(line string) (int, bool) {
	m := iterationBegins.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsShutdown reports whether the controller started its shutdown sequence.
func IsShutdown(line string) bool {
	return shutdownMarker.MatchString(line)
}
