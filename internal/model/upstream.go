// Package model defines shared types for the probe.
package model

import "time"

// UpstreamResult is what survives of an upstream response once its body has
// been drained: the status code and how long the call took.
type UpstreamResult struct {
	StatusCode int
	Duration   time.Duration
}
