// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSendDelay = 1 * time.Second
	defaultSendBurst = 4
)

// newSendLimiter builds the outgoing rate limiter. A short burst goes out
// unthrottled, then messages are spaced out to stay under server flood
// limits. A negative SendDelay disables limiting entirely.
func newSendLimiter(conf *Config) *rate.Limiter {
	delay := conf.SendDelay.Std()
	if delay < 0 {
		return nil
	}
	if delay == 0 {
		delay = defaultSendDelay
	}

	burst := conf.SendBurst
	if burst <= 0 {
		burst = defaultSendBurst
	}

	return rate.NewLimiter(rate.Every(delay), burst)
}
