package vec4

// Pack interleaves four planar channels into dst.
//
// dst must hold at least n vectors where n is the length of the shortest
// non-nil channel. A nil channel contributes zeros and does not limit n.
// Pack returns n.
func Pack(dst []Vec, ch [Lanes][]float64) int {
	n := frameCount(ch, len(dst))
	for lane, buf := range ch {
		if buf == nil {
			for i := range n {
				dst[i][lane] = 0
			}

			continue
		}

		for i := range n {
			dst[i][lane] = buf[i]
		}
	}

	return n
}

// Unpack scatters src back into four planar channels. Nil channels are
// skipped. Unpack returns the number of frames written.
func Unpack(ch [Lanes][]float64, src []Vec) int {
	n := frameCount(ch, len(src))
	for lane, buf := range ch {
		if buf == nil {
			continue
		}

		for i := range n {
			buf[i] = src[i][lane]
		}
	}

	return n
}

func frameCount(ch [Lanes][]float64, limit int) int {
	n := limit
	for _, buf := range ch {
		if buf != nil && len(buf) < n {
			n = len(buf)
		}
	}

	return n
}
