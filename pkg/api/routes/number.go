package routes

import (
	"math"
	"strconv"
	"strings"
)

// Number is a request field sent either as a JSON number or as a numeric string.
// A JSON null counts as present.
type Number struct {
	Present bool
	raw     string
}

func (n *Number) UnmarshalJSON(data []byte) error {
	n.Present = true
	n.raw = string(data)

	return nil
}

// Float parses the field, rejecting anything that is not a finite number
func (n Number) Float() (float64, bool) {
	if !n.Present {
		return 0, false
	}

	raw := strings.TrimSpace(n.raw)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}
