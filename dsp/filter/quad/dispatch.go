package quad

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
)

// ErrUnsupported is returned for a (type, subtype) pair outside the catalog.
var ErrUnsupported = errors.New("quad: unsupported filter type/subtype")

// UnitFunc processes one sample on all four lanes of s. It first advances
// the coefficients it uses by one glide step, then updates the filter
// memory in place and returns the output.
type UnitFunc func(s *State, in vec4.Vec) vec4.Vec

var units = [numFilterTypes][numSubTypes]UnitFunc{
	TypeLP12: {SubTypeSVF: svf12, SubTypeRough: rough12, SubTypeSmooth: smooth12},
	TypeLP24: {SubTypeSVF: svf24, SubTypeRough: rough24, SubTypeSmooth: smooth24},
	TypeHP12: {SubTypeSVF: svf12, SubTypeRough: rough12, SubTypeSmooth: smooth12},
	TypeHP24: {SubTypeSVF: svf24, SubTypeRough: rough24, SubTypeSmooth: smooth24},
	TypeBP12: {SubTypeSVF: svf12, SubTypeRough: rough12, SubTypeSmooth: smooth12},
	TypeBP24: {SubTypeSVF: svf24, SubTypeRough: rough24, SubTypeSmooth: smooth24},

	// Notches run on the SVF core; the response lives in the mix coefficients.
	TypeNotch12: {SubTypeNotch: svf12, SubTypeNotchMild: svf12},
	TypeNotch24: {SubTypeNotch: svf24, SubTypeNotchMild: svf24},

	TypeAllpass:    {SubTypeNone: allpass1},
	TypeLadderLP:   {SubTypeNone: ladder},
	TypeSampleHold: {SubTypeNone: sampleHold},
}

// Unit returns the processing routine for (t, st), or nil when the pair is
// not part of the catalog. The result must not be called when nil.
func Unit(t FilterType, st SubType) UnitFunc {
	if t < 0 || t >= numFilterTypes || st < 0 || st >= numSubTypes {
		return nil
	}

	return units[t][st]
}

// Lookup is Unit with an error for pairs outside the catalog.
func Lookup(t FilterType, st SubType) (UnitFunc, error) {
	fn := Unit(t, st)
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, Config{Type: t, SubType: st})
	}

	return fn, nil
}
