package scan

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aeriscope/cloudcatalog/internal/domain"
)

// Limit truncates an enumerated context list. Three forms:
//
//	""        no limit
//	"0.25"    fraction in (0,1): first ceil(0.25*N) entries, minimum 1
//	"50"      integer: first 50 entries
//
// Never a random sample; truncation preserves enumeration order.
type Limit struct {
	fraction float64
	count    int
	kind     limitKind
}

type limitKind int

const (
	limitNone limitKind = iota
	limitFraction
	limitCount
)

// NoLimit selects every context.
var NoLimit = Limit{kind: limitNone}

// ParseLimit parses the textual limit form used in configuration.
func ParseLimit(s string) (Limit, error) {
	if s == "" {
		return NoLimit, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return Limit{}, fmt.Errorf("limit count %d is negative", n)
		}
		return Limit{kind: limitCount, count: n}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Limit{}, fmt.Errorf("limit %q is neither an integer nor a fraction", s)
	}
	if f <= 0 || f >= 1 {
		return Limit{}, fmt.Errorf("fractional limit %v outside (0, 1)", f)
	}
	return Limit{kind: limitFraction, fraction: f}, nil
}

// Apply truncates contexts per the limit.
func (l Limit) Apply(contexts []domain.SampleContext) []domain.SampleContext {
	switch l.kind {
	case limitFraction:
		n := int(math.Ceil(l.fraction * float64(len(contexts))))
		if n < 1 {
			n = 1
		}
		if n > len(contexts) {
			n = len(contexts)
		}
		return contexts[:n]
	case limitCount:
		if l.count < len(contexts) {
			return contexts[:l.count]
		}
		return contexts
	default:
		return contexts
	}
}
