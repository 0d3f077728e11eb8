// Command qfresponse prints the sine-probe response of quad filters.
//
// Usage:
//
//	qfresponse [flags] [type/subtype ...]
//
// Without arguments it prints every catalog entry. Each row holds the RMS
// level in dB of the filter's response to a full-scale sine, measured over
// -length samples from a reset state. Unity gain reads -3.01 dB.
//
// Examples:
//
//	qfresponse lp12/svf lp12/rough
//	qfresponse -note 60 -reso 0.9 ladder
//	qfresponse -cutoff 1000 hp12/smooth
//	qfresponse -freqs 50,100,200,400,800,1600 bp24/smooth
//	qfresponse -fft 4096 notch12/notch
//	qfresponse -list
//	qfresponse -cpu
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-quadfilter/dsp/core"
	"github.com/cwbudde/algo-quadfilter/dsp/filter/quad"
	"github.com/cwbudde/algo-quadfilter/measure/response"
)

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	length := flag.Int("length", response.DefaultLength, "probe length in samples")
	note := flag.Float64("note", response.DefaultNote, "cutoff note (69 = 440 Hz)")
	cutoff := flag.Float64("cutoff", 0, "cutoff in Hz; overrides -note when > 0")
	reso := flag.Float64("reso", response.DefaultResonance, "resonance 0..1")
	drive := flag.Float64("drive", 0, "ladder drive (0 = default)")
	freqList := flag.String("freqs", "", "comma-separated probe frequencies in Hz")
	fftSize := flag.Int("fft", 0, "print the FFT magnitude response at the probe frequencies using this size")
	list := flag.Bool("list", false, "list catalog entries")
	showCPU := flag.Bool("cpu", false, "print detected SIMD features")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: qfresponse [flags] [type/subtype ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints sine-probe RMS levels of quad filters.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every catalog entry.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  qfresponse lp12/svf lp12/rough\n")
		fmt.Fprintf(os.Stderr, "  qfresponse -note 60 -reso 0.9 ladder\n")
		fmt.Fprintf(os.Stderr, "  qfresponse -fft 4096 notch12/notch\n")
	}
	flag.Parse()

	if *showCPU {
		printCPU(os.Stdout)
		return
	}

	if *list {
		for _, cfg := range quad.Catalog() {
			fmt.Println(cfg)
		}

		return
	}

	freqs := response.DefaultFrequencies
	if *freqList != "" {
		var err error
		if freqs, err = parseFrequencies(*freqList); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}

	configs, err := resolveConfigs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	opts := []response.Option{
		response.WithLength(*length),
		response.WithNote(cutoffNote(*note, *cutoff)),
		response.WithResonance(*reso),
		response.WithAux(quad.AuxData{Drive: *drive}),
	}

	if err := printTable(os.Stdout, configs, *rate, freqs, *fftSize, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cutoffNote returns note, or the note of hz when hz is positive.
func cutoffNote(note, hz float64) float64 {
	if hz > 0 {
		return core.HzToNote(hz)
	}

	return note
}

func parseFrequencies(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		hz, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid frequency %q: %w", field, err)
		}

		out = append(out, hz)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no frequencies in %q", s)
	}

	return out, nil
}

func resolveConfigs(names []string) ([]quad.Config, error) {
	if len(names) == 0 {
		return quad.Catalog(), nil
	}

	out := make([]quad.Config, 0, len(names))
	for _, name := range names {
		cfg, err := quad.ParseConfig(name)
		if err != nil {
			return nil, fmt.Errorf("%w (use -list to see available)", err)
		}

		out = append(out, cfg)
	}

	return out, nil
}

func printTable(w io.Writer, configs []quad.Config, rate float64, freqs []float64, fftSize int, opts []response.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"Filter"}
	for _, hz := range freqs {
		header = append(header, strconv.FormatFloat(hz, 'f', -1, 64)+" Hz")
	}

	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, cfg := range configs {
		p, err := response.New(cfg, rate, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", cfg, err)
		}

		levels, err := measure(p, freqs, fftSize)
		if err != nil {
			return fmt.Errorf("%s: %w", cfg, err)
		}

		row := []string{cfg.String()}
		for _, db := range levels {
			row = append(row, fmt.Sprintf("%.2f", db))
		}

		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")+"\t"); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return tw.Flush()
}

// measure returns the sine-probe levels, or with fftSize > 0 the FFT
// magnitude at the bin nearest each frequency.
func measure(p *response.Probe, freqs []float64, fftSize int) ([]float64, error) {
	if fftSize <= 0 {
		points, err := p.Sweep(freqs)
		if err != nil {
			return nil, err
		}

		out := make([]float64, len(points))
		for i, pt := range points {
			out[i] = pt.DB
		}

		return out, nil
	}

	points, err := p.MagnitudeResponse(fftSize)
	if err != nil {
		return nil, err
	}

	binHz := points[1].Hz

	out := make([]float64, len(freqs))
	for i, hz := range freqs {
		bin := int(hz/binHz + 0.5)
		if bin < 0 || bin >= len(points) {
			return nil, fmt.Errorf("%w: %v", response.ErrInvalidFrequency, hz)
		}

		out[i] = points[bin].DB
	}

	return out, nil
}
