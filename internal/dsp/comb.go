package dsp

// Comb is a feedback comb filter: a delay line whose output is fed back
// into itself. Used as a cheap single-tap reverb.
type Comb struct {
	buf      []float32
	idx      int
	feedback float32
}

// NewComb creates a comb with the given delay length in samples.
// Feedback is clamped below 1 so the loop cannot run away.
func NewComb(size int, feedback float32) *Comb {
	if size < 1 {
		size = 1
	}
	return &Comb{
		buf:      make([]float32, size),
		feedback: Clamp(feedback, 0, 0.98),
	}
}

// Process pushes one sample through the delay loop.
func (c *Comb) Process(x float32) float32 {
	y := c.buf[c.idx]
	c.buf[c.idx] = x + y*c.feedback
	c.idx++
	if c.idx >= len(c.buf) {
		c.idx = 0
	}
	return y
}
