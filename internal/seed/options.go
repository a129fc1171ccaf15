package seed

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithPatterns sets how many patterns to generate.
func WithPatterns(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.patternCount = n
		}
	}
}

// WithYarns sets how many yarns to generate.
func WithYarns(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.yarnCount = n
		}
	}
}

// WithWorkers sets how many goroutines build rows concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}
