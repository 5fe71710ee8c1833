package nav

// ReflectionFilter is a fixed-size moving average over raw reflectance
// readings. The buffer is primed with the first real reading so the mean
// has no startup transient toward zero.
type ReflectionFilter struct {
	buf    []float64
	next   int
	primed bool
}

const defaultFilterSize = 5

// NewReflectionFilter creates a filter over the last size readings.
// Size zero or below falls back to the default of 5.
func NewReflectionFilter(size int) *ReflectionFilter {
	if size <= 0 {
		size = defaultFilterSize
	}
	return &ReflectionFilter{buf: make([]float64, size)}
}

// Primed reports whether the buffer has been seeded with a first reading.
func (f *ReflectionFilter) Primed() bool { return f.primed }

// Size returns the buffer length, constant after construction.
func (f *ReflectionFilter) Size() int { return len(f.buf) }

// Prime fills every slot with v.
func (f *ReflectionFilter) Prime(v float64) {
	for i := range f.buf {
		f.buf[i] = v
	}
	f.next = 0
	f.primed = true
}

// Push evicts the oldest reading, stores v, and returns the mean of the
// buffer contents.
func (f *ReflectionFilter) Push(v float64) float64 {
	if !f.primed {
		f.Prime(v)
		return v
	}
	f.buf[f.next] = v
	f.next = (f.next + 1) % len(f.buf)
	return f.Mean()
}

// Mean returns the arithmetic mean of the current buffer contents.
func (f *ReflectionFilter) Mean() float64 {
	var sum float64
	for _, v := range f.buf {
		sum += v
	}
	return sum / float64(len(f.buf))
}
