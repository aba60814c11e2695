package race

import "time"

// Clock supplies the current wall-clock instant in epoch milliseconds.
// Injected so tests can fix the instant; production code uses SystemClock.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) NowMillis() int64 { return time.Now().UnixMilli() }
