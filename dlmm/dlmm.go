package dlmm

import (
	"go.uber.org/zap"
)

// DLMM quotes swaps, values positions and plans deposits against pool
// records the caller has already fetched. It holds no pool state and is safe
// for concurrent use.
type DLMM struct {
	logger *zap.Logger
}

func NewDLMM(opts ...Option) *DLMM {
	o := &DLMM{
		logger: zap.NewNop(),
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

type Option func(*DLMM)

func WithLogger(logger *zap.Logger) Option {
	return func(d *DLMM) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Logger returns the logger the client was built with.
func (m *DLMM) Logger() *zap.Logger {
	return m.logger
}
