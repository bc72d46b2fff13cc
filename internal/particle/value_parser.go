// Package particle provides the value notation used by particle effect
// definitions in the scene configuration.
package particle

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidValue is returned when a value string is neither a fixed value nor a range.
var ErrInvalidValue = errors.New("invalid particle value")

// Range is a closed interval [Min, Max] sampled uniformly.
// A fixed value is a Range with Min == Max.
type Range struct {
	Min float64
	Max float64
}

// Fixed returns a Range that always samples v.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// ParseRange parses a value string from a particle definition.
// Supported formats:
//   - Fixed value: "0.015" → Min=Max=0.015
//   - Range: "[0.08 0.23]" → Min=0.08, Max=0.23
//   - Single bracketed value: "[30]" → Min=Max=30
//
// Returns ErrInvalidValue (wrapped) for anything else, including Min > Max.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty value", ErrInvalidValue)
	}

	if strings.HasPrefix(s, "[") || strings.HasSuffix(s, "]") {
		if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
			return Range{}, fmt.Errorf("%w: unbalanced brackets in %q", ErrInvalidValue, s)
		}
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 1:
			v, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Range{}, fmt.Errorf("%w: %q: %v", ErrInvalidValue, s, err)
			}
			return Fixed(v), nil
		case 2:
			lo, err1 := strconv.ParseFloat(parts[0], 64)
			hi, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return Range{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidValue, s)
			}
			if lo > hi {
				return Range{}, fmt.Errorf("%w: %q has min > max", ErrInvalidValue, s)
			}
			return Range{Min: lo, Max: hi}, nil
		default:
			return Range{}, fmt.Errorf("%w: %q needs one or two numbers", ErrInvalidValue, s)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %v", ErrInvalidValue, s, err)
	}
	return Fixed(v), nil
}

// Sample draws a value uniformly from [Min, Max).
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// String formats the range back into definition notation.
func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.FormatFloat(r.Min, 'g', -1, 64)
	}
	return "[" + strconv.FormatFloat(r.Min, 'g', -1, 64) + " " + strconv.FormatFloat(r.Max, 'g', -1, 64) + "]"
}

// UnmarshalText lets config decoders (koanf/mapstructure) fill a Range from a string.
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalYAML accepts both quoted ("[0.1 0.3]") and bare numeric scalars.
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrInvalidValue, value.Line)
	}
	return r.UnmarshalText([]byte(value.Value))
}
