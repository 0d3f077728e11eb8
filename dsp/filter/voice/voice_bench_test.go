package voice

import (
	"testing"

	"github.com/cwbudde/algo-quadfilter/dsp/filter/quad"
	"github.com/cwbudde/algo-quadfilter/internal/testutil"
)

func BenchmarkProcess1024(b *testing.B) {
	tests := []struct {
		name string
		t    quad.FilterType
		st   quad.SubType
	}{
		{name: "lp24_svf", t: quad.TypeLP24, st: quad.SubTypeSVF},
		{name: "lp24_rough", t: quad.TypeLP24, st: quad.SubTypeRough},
		{name: "ladder", t: quad.TypeLadderLP, st: quad.SubTypeNone},
	}

	for _, tc := range tests {
		b.Run(tc.name, func(b *testing.B) {
			p, err := New(tc.t, tc.st, 48000, WithMix(0.5))
			if err != nil {
				b.Fatalf("New() error = %v", err)
			}

			src := testutil.NoiseLanes(1, 0.5, 1024)

			var dst [4][]float64
			for lane := range dst {
				dst[lane] = make([]float64, 1024)
			}

			b.SetBytes(4 * 1024 * 8)
			b.ReportAllocs()
			b.ResetTimer()

			for i := range b.N {
				p.SetParams(Params{Note: 60 + float64(i%12), Resonance: 0.5})
				if _, err := p.Process(dst, src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
