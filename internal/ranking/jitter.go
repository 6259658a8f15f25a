package ranking

import (
	"hash/fnv"
	"strconv"
)

// Jitter maps an idea ID to a stable multiplier in [1.000, 1.099]:
//
//	1 + (fnv1a32(decimal id) mod 100) / 1000
//
// The same ID always yields the same value, across processes and restarts.
func Jitter(id uint64) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatUint(id, 10)))
	return 1 + float64(h.Sum32()%100)/1000
}
