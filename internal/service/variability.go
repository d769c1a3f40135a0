package service

import "crypto/md5"

// VariabilityFactor derives a stable per-segment multiplier in [0.30, 1.00]
// from the segment id alone. The mapping is part of the public contract and
// must not change: MD5 of the UTF-8 id, the 128-bit digest read as an
// unsigned big-endian integer, reduced (digest mod 71 + 30) / 100. Any other
// hash or reduction would silently repaint every rendered map.
func VariabilityFactor(segmentID string) float64 {
	digest := md5.Sum([]byte(segmentID))

	// Byte-wise fold is equivalent to the big-integer mod 71.
	r := 0
	for _, b := range digest {
		r = (r*256 + int(b)) % 71
	}
	return float64(r+30) / 100.0
}
