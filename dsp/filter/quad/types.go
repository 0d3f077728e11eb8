package quad

import (
	"fmt"
	"strings"
)

// FilterType selects the response shape.
type FilterType int

const (
	// TypeLP12 is a two-pole low-pass.
	TypeLP12 FilterType = iota
	// TypeLP24 is a four-pole low-pass.
	TypeLP24
	// TypeHP12 is a two-pole high-pass.
	TypeHP12
	// TypeHP24 is a four-pole high-pass.
	TypeHP24
	// TypeBP12 is a two-pole band-pass with unity peak gain.
	TypeBP12
	// TypeBP24 is a four-pole band-pass.
	TypeBP24
	// TypeNotch12 is a two-pole band-reject.
	TypeNotch12
	// TypeNotch24 is two cascaded band-reject stages.
	TypeNotch24
	// TypeAllpass is a first-order all-pass.
	TypeAllpass
	// TypeLadderLP is a nonlinear four-stage transistor-ladder low-pass.
	TypeLadderLP
	// TypeSampleHold holds the input for a pitch-controlled interval.
	TypeSampleHold

	numFilterTypes
)

var filterTypeNames = [numFilterTypes]string{
	TypeLP12:       "lp12",
	TypeLP24:       "lp24",
	TypeHP12:       "hp12",
	TypeHP24:       "hp24",
	TypeBP12:       "bp12",
	TypeBP24:       "bp24",
	TypeNotch12:    "notch12",
	TypeNotch24:    "notch24",
	TypeAllpass:    "apf",
	TypeLadderLP:   "ladder",
	TypeSampleHold: "snh",
}

func (t FilterType) String() string {
	if t < 0 || t >= numFilterTypes {
		return "unknown"
	}

	return filterTypeNames[t]
}

// ParseFilterType resolves a name as returned by FilterType.String.
func ParseFilterType(name string) (FilterType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range filterTypeNames {
		if n == name {
			return FilterType(t), nil
		}
	}

	return 0, fmt.Errorf("quad: unknown filter type %q", name)
}

// SubType selects a numerical realization of a FilterType. Its meaning
// depends on the type; see Catalog for the valid pairs.
type SubType int

const (
	// SubTypeNone is the only subtype of types with a single implementation.
	SubTypeNone SubType = iota
	// SubTypeSVF is the trapezoidal state-variable realization.
	SubTypeSVF
	// SubTypeRough is the cheap direct-form realization with approximated
	// coefficient math.
	SubTypeRough
	// SubTypeSmooth is the direct-form-I realization, robust under fast
	// coefficient modulation.
	SubTypeSmooth
	// SubTypeNotch is the full-depth notch.
	SubTypeNotch
	// SubTypeNotchMild is the shallow notch.
	SubTypeNotchMild

	numSubTypes
)

var subTypeNames = [numSubTypes]string{
	SubTypeNone:      "none",
	SubTypeSVF:       "svf",
	SubTypeRough:     "rough",
	SubTypeSmooth:    "smooth",
	SubTypeNotch:     "notch",
	SubTypeNotchMild: "notchmild",
}

func (st SubType) String() string {
	if st < 0 || st >= numSubTypes {
		return "unknown"
	}

	return subTypeNames[st]
}

// ParseSubType resolves a name as returned by SubType.String. The empty
// string maps to SubTypeNone.
func ParseSubType(name string) (SubType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SubTypeNone, nil
	}

	for st, n := range subTypeNames {
		if n == name {
			return SubType(st), nil
		}
	}

	return 0, fmt.Errorf("quad: unknown filter subtype %q", name)
}

// Config is a (type, subtype) pair.
type Config struct {
	Type    FilterType
	SubType SubType
}

func (c Config) String() string {
	if c.SubType == SubTypeNone {
		return c.Type.String()
	}

	return c.Type.String() + "/" + c.SubType.String()
}

// ParseConfig parses "type" or "type/subtype".
func ParseConfig(s string) (Config, error) {
	typeName, subName, _ := strings.Cut(s, "/")

	t, err := ParseFilterType(typeName)
	if err != nil {
		return Config{}, err
	}

	st, err := ParseSubType(subName)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Type: t, SubType: st}
	if !Valid(t, st) {
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupported, cfg)
	}

	return cfg, nil
}

// Valid reports whether (t, st) is part of the catalog.
func Valid(t FilterType, st SubType) bool {
	return Unit(t, st) != nil
}

// Catalog returns every valid (type, subtype) pair in table order.
func Catalog() []Config {
	out := make([]Config, 0, int(numFilterTypes)*int(numSubTypes))
	for t := range numFilterTypes {
		for st := range numSubTypes {
			if units[t][st] != nil {
				out = append(out, Config{Type: t, SubType: st})
			}
		}
	}

	return out
}
