// Package precision names the numeric evaluation strategies and decides
// when two scores count as equal under a tolerance.
package precision

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how scores are computed.
type Mode int

const (
	// Exact scores are symbolic and compare by identity.
	Exact Mode = iota
	// Certified scores carry a rigorous float64 enclosure.
	Certified
	// Double is IEEE binary64.
	Double
	// Single is IEEE binary32.
	Single
)

var ErrUnknownMode = errors.New("unknown precision")

var wireNames = map[string]Mode{
	"arb256": Exact,
	"high":   Exact,
	"mag":    Certified,
	"double": Double,
	"float":  Single,
}

// ParseMode maps a request's precision string to a Mode. Matching ignores
// case and surrounding space.
func ParseMode(name string) (Mode, error) {
	m, ok := wireNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w %q (want one of float, double, mag, arb256, high)", ErrUnknownMode, name)
	}
	return m, nil
}

func (m Mode) String() string {
	switch m {
	case Exact:
		return "exact"
	case Certified:
		return "certified"
	case Double:
		return "double"
	case Single:
		return "single"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// WireName is the canonical request spelling of m.
func (m Mode) WireName() string {
	switch m {
	case Exact:
		return "arb256"
	case Certified:
		return "mag"
	case Double:
		return "double"
	case Single:
		return "float"
	}
	return m.String()
}
