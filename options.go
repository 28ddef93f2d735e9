package scanout

import (
	"log/slog"
	"time"
)

// Option configures an Engine during creation.
// Use functional options to inject collaborators.
//
// Example:
//
//	eng := scanout.New(dev,
//	    scanout.WithFeedback(advisor),
//	    scanout.WithLogger(slog.Default()),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	logger         *slog.Logger
	sink           FeedbackSink
	clock          func() time.Time
	importCapacity int
	debounce       time.Duration
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		clock:    time.Now,
		debounce: DefaultFeedbackDebounce,
	}
}

// WithLogger sets a per-engine logger, overriding the package logger
// configured with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithFeedback sets the dmabuf-feedback sink receiving debounced scanout
// tranche hints. Without a sink, no hints are produced.
func WithFeedback(sink FeedbackSink) Option {
	return func(o *engineOptions) {
		o.sink = sink
	}
}

// WithClock injects the time source used for feedback debouncing.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithImportCacheCapacity sets the per-shard capacity of the framebuffer
// import cache. Values <= 0 select the cache default.
func WithImportCacheCapacity(capacity int) Option {
	return func(o *engineOptions) {
		o.importCapacity = capacity
	}
}

// WithFeedbackDebounce sets the minimum period a scanout-tranche decision
// must stay stable before it is forwarded. Values below
// DefaultFeedbackDebounce are clamped up: flipping hints every repaint is
// exactly what the debounce exists to prevent.
func WithFeedbackDebounce(d time.Duration) Option {
	return func(o *engineOptions) {
		if d < DefaultFeedbackDebounce {
			d = DefaultFeedbackDebounce
		}
		o.debounce = d
	}
}
