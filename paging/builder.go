package paging

// A Builder can build paging engines.
type Builder struct {
	frameCount int
	algorithm  string
}

// MakeBuilder creates a new builder with the default configuration of 8
// frames and FIFO replacement.
func MakeBuilder() Builder {
	return Builder{
		frameCount: 8,
		algorithm:  "FIFO",
	}
}

// WithFrameCount sets the number of physical frames in the pool.
func (b Builder) WithFrameCount(n int) Builder {
	b.frameCount = n
	return b
}

// WithAlgorithm sets the replacement policy by name. Unrecognized names
// fall back to FIFO.
func (b Builder) WithAlgorithm(name string) Builder {
	b.algorithm = name
	return b
}

// Build returns a newly created engine. It panics if the frame count is not
// positive; callers that need an error instead should use Engine.Init.
func (b Builder) Build() *Engine {
	e := new(Engine)

	_, err := e.Init(b.frameCount, b.algorithm)
	if err != nil {
		panic(err)
	}

	return e
}
