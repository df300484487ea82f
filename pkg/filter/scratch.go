package filter

import "sync"

type scratchBuffer struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() interface{} {
		return &scratchBuffer{data: make([]float64, 640*480*3)}
	},
}

// getScratch returns a zeroed slice of at least n elements, detached from the
// frame being processed.
func getScratch(n int) *scratchBuffer {
	s := scratchPool.Get().(*scratchBuffer)
	if cap(s.data) < n {
		s.data = make([]float64, n)
		return s
	}
	s.data = s.data[:n]
	for i := range s.data {
		s.data[i] = 0
	}
	return s
}

func putScratch(s *scratchBuffer) {
	// don't hold on to anything larger than a 4k frame
	if cap(s.data) <= 3840*2160*3 {
		scratchPool.Put(s)
	}
}
