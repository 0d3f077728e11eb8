// Package vec4 provides a fixed-width four-lane vector for packed filter
// processing.
//
// A [Vec] carries one scalar per lane. Lanes never interact: every
// operation is elementwise, so four independent filter instances can share
// a single instruction stream. The type is a plain array value, which keeps
// it allocation-free and lets the compiler keep it in registers.
//
// Planar helpers ([Pack], [Unpack]) move samples between four separate
// channel buffers and a stream of vectors.
package vec4
