package smoketest

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	StatsSettleDelay     = 2 * time.Second
	PercentageMultiplier = 100
	ScoreEpsilon         = 1e-9
	TopMatchDisplayCount = 10
)
