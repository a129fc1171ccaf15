package rank

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithScorer replaces the default criteria scorer.
func WithScorer(s Scorer) Option {
	return func(r *Ranker) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithWorkers bounds the scoring fan-out. Zero sizes the fan-out from
// GOMAXPROCS; one forces serial scoring.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		if n >= 0 {
			r.workers = n
		}
	}
}

// WithTopN sets the result depth used when a caller passes zero.
func WithTopN(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.topN = n
		}
	}
}
