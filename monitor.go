// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"context"
	"strconv"
	"time"
)

const (
	// pingCheckInterval is how often the keepalive wakes up.
	pingCheckInterval = 10 * time.Second
	// defaultPingDelay is how long the server may stay silent before we
	// start pinging it.
	defaultPingDelay = 30 * time.Second
)

// pingLoop is the keepalive producer. It only ever enqueues checks; the
// actual decision runs on the event loop where state access is safe.
func (c *Connection) pingLoop(ctx context.Context) {
	tick := time.NewTicker(pingCheckInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			c.queue.add(c.checkKeepalive)
		}
	}
}

// checkKeepalive pings the server when it has been silent too long. The
// token is a timestamp so a stale PONG is recognisable in logs. The
// keepalive never disconnects on its own; a dead peer surfaces through
// the reader instead.
func (c *Connection) checkKeepalive() {
	// Silence during registration is the handshake's problem, not the
	// keepalive's.
	if c.state.connection.Lifecycle != LifecycleConnected {
		return
	}

	delay := c.Config.PingDelay.Std()
	if delay <= 0 {
		delay = defaultPingDelay
	}

	silent := c.now().Sub(c.state.connection.LastPingOrPong)
	if silent < delay {
		return
	}

	c.log.debug.Printf("server silent for %s, pinging", silent)
	c.metrics.pingSent()

	token := strconv.FormatInt(c.now().Unix(), 10)
	c.write(&Message{Command: PING, Params: []string{token}})
}
