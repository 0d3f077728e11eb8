// Package voice runs a quad filter over planar block buffers.
//
// A Processor owns one quad.State and one coefficient maker per lane, so
// each of the four lanes (voices) can take its own note and resonance. New
// parameters take effect at the next block boundary and glide linearly
// across that block. The wet signal can be mixed with the dry input and
// scaled by an output gain.
package voice
