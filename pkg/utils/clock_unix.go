package utils

import "time"

var started = time.Now()

// Clock returns the elapsed time since the process started.
func Clock() time.Duration {
	return time.Since(started)
}
