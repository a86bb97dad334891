// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package blocksplit

import "go.uber.org/zap"

type options struct {
	log         *zap.SugaredLogger
	verbose     bool
	concurrency int
}

// Option configures Split.
type Option func(*options)

// WithLogger sets the logger that receives the split diagnostics.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithVerbose reports the final split points at info level.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithConcurrency evaluates the samples of a minimum search round with up to
// n goroutines. The oracle must then be safe for concurrent use.
// n <= 1 keeps the search sequential.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		log:         zap.NewNop().Sugar(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
