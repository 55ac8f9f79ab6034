package pool

import (
	"strings"
	"sync"
)

// BuilderPool pools strings.Builder instances so the hot normalization
// path does not allocate a fresh builder per call.
type BuilderPool struct {
	pool sync.Pool
}

// NewBuilderPool creates a new strings.Builder pool.
func NewBuilderPool() *BuilderPool {
	return &BuilderPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			},
		},
	}
}

// Get retrieves a builder from the pool or creates a new one.
func (bp *BuilderPool) Get() *strings.Builder {
	return bp.pool.Get().(*strings.Builder)
}

// Put resets the builder and returns it to the pool.
func (bp *BuilderPool) Put(sb *strings.Builder) {
	sb.Reset()
	bp.pool.Put(sb)
}
