//go:build portaudio

// Command qfplay streams noise through a swept quad filter to the default
// audio output. Build with -tags portaudio; it needs the PortAudio C
// library.
//
// Usage:
//
//	qfplay [flags] [type/subtype]
//
// The four filter lanes run one octave apart and are mixed down to the
// available output channels. The cutoff sweeps between -low and -high notes
// with period -period.
//
// Examples:
//
//	qfplay
//	qfplay -reso 0.9 lp24/svf
//	qfplay -drive 3 -duration 20s ladder
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/algo-quadfilter/dsp/filter/quad"
	"github.com/cwbudde/algo-quadfilter/dsp/filter/voice"
	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
	pa "github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 512

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	low := flag.Float64("low", 40, "lowest cutoff note")
	high := flag.Float64("high", 100, "highest cutoff note")
	period := flag.Duration("period", 4*time.Second, "sweep period")
	reso := flag.Float64("reso", 0.6, "resonance 0..1")
	drive := flag.Float64("drive", 0, "ladder drive (0 = default)")
	gain := flag.Float64("gain", -12, "output gain in dB")
	duration := flag.Duration("duration", 0, "stop after this long (0 = until interrupted)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: qfplay [flags] [type/subtype]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := quad.Config{Type: quad.TypeLP24, SubType: quad.SubTypeSVF}
	if flag.NArg() > 0 {
		var err error
		if cfg, err = quad.ParseConfig(flag.Arg(0)); err != nil {
			log.Fatalf("qfplay: %v", err)
		}
	}

	proc, err := voice.New(cfg.Type, cfg.SubType, *rate, voice.WithGainDB(*gain))
	if err != nil {
		log.Fatalf("qfplay: %v", err)
	}

	if err := pa.Initialize(); err != nil {
		log.Fatalf("qfplay: unable to set up portaudio: %v", err)
	}
	defer func() {
		if err := pa.Terminate(); err != nil {
			log.Printf("qfplay: termination error: %v", err)
		}
	}()

	dev, err := pa.DefaultOutputDevice()
	if err != nil {
		log.Fatalf("qfplay: no default output: %v", err)
	}

	channels := min(max(dev.MaxOutputChannels, 1), 2)
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, framesPerBuffer)
	}

	stream, err := pa.OpenDefaultStream(0, channels, *rate, framesPerBuffer, &out)
	if err != nil {
		log.Fatalf("qfplay: unable to open stream: %v", err)
	}
	defer stream.Close()

	log.Printf("qfplay: %s on %s, %d channels at %.0f Hz", cfg, dev.Name, channels, *rate)

	if err := stream.Start(); err != nil {
		log.Fatalf("qfplay: %v", err)
	}
	defer stream.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	rng := rand.New(rand.NewSource(1))

	var src, dst [vec4.Lanes][]float64
	for lane := range src {
		src[lane] = make([]float64, framesPerBuffer)
		dst[lane] = make([]float64, framesPerBuffer)
	}

	elapsed := 0.0
	for {
		select {
		case <-stop:
			return
		case <-deadline:
			return
		default:
		}

		phase := 0.5 - 0.5*math.Cos(2*math.Pi*elapsed/period.Seconds())
		base := *low + (*high-*low)*phase

		for lane := range vec4.Lanes {
			p := voice.Params{Note: base + 12*float64(lane) - 18, Resonance: *reso}
			p.Aux.Drive = *drive

			if err := proc.SetLaneParams(lane, p); err != nil {
				log.Fatalf("qfplay: %v", err)
			}

			for i := range src[lane] {
				src[lane][i] = rng.Float64()*2 - 1
			}
		}

		if _, err := proc.Process(dst, src); err != nil {
			log.Fatalf("qfplay: %v", err)
		}

		downmix(out, dst)

		if err := stream.Write(); err != nil {
			log.Fatalf("qfplay: write error: %v", err)
		}

		elapsed += framesPerBuffer / *rate
	}
}

// downmix spreads the four lanes across the output channels: lanes 0 and 2
// left, 1 and 3 right.
func downmix(out [][]float32, lanes [vec4.Lanes][]float64) {
	for i := range out[0] {
		for ch := range out {
			sum := 0.0
			for lane := ch % 2; lane < vec4.Lanes; lane += 2 {
				sum += lanes[lane][i]
			}

			if len(out) == 1 {
				sum = lanes[0][i] + lanes[1][i] + lanes[2][i] + lanes[3][i]
			}

			out[ch][i] = float32(max(-1, min(1, 0.5*sum)))
		}
	}
}
