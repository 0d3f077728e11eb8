package core

import (
	"errors"
	"fmt"
)

// DefaultBlockSize is the block length used when no block size is given.
const DefaultBlockSize = 64

var (
	// ErrInvalidSampleRate is returned for a sample rate that is not finite and positive.
	ErrInvalidSampleRate = errors.New("core: sample rate must be > 0 and finite")
	// ErrInvalidBlockSize is returned for a block size below one sample.
	ErrInvalidBlockSize = errors.New("core: block size must be > 0")
)

// ProcessorConfig defines the time base of a block processor.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// WithBlockSize sets the number of samples per parameter block.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.BlockSize = blockSize
	}
}

// NewProcessorConfig builds a validated config. There is no default sample
// rate; the block size defaults to DefaultBlockSize.
func NewProcessorConfig(sampleRate float64, opts ...ProcessorOption) (ProcessorConfig, error) {
	cfg := ProcessorConfig{
		SampleRate: sampleRate,
		BlockSize:  DefaultBlockSize,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return ProcessorConfig{}, err
	}

	return cfg, nil
}

// Validate checks the sample rate and block size.
func (cfg ProcessorConfig) Validate() error {
	if !IsFinite(cfg.SampleRate) || cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, cfg.SampleRate)
	}

	if cfg.BlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, cfg.BlockSize)
	}

	return nil
}

// Nyquist returns half the sample rate.
func (cfg ProcessorConfig) Nyquist() float64 {
	return 0.5 * cfg.SampleRate
}
