package huff

// Difference applies the encode-side inverse of the cumulative-sum
// post-processing filter: order 1 replaces each byte with its first
// difference mod 256, order 2 applies the transform twice. src is not
// modified.
func Difference(src []byte, order int) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	for range order {
		var prev byte
		for i := range out {
			cur := out[i]
			out[i] = cur - prev
			prev = cur
		}
	}

	return out
}

// Integrate applies the decode-side cumulative-sum filter in place: order 1
// replaces each byte with the running sum of itself and all previous bytes
// mod 256, order 2 integrates twice.
func Integrate(buf []byte, order int) {
	for range order {
		var acc byte
		for i := range buf {
			acc += buf[i]
			buf[i] = acc
		}
	}
}
