// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeepaliveQuietServerGetsPinged(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c.state.connection.LastPingOrPong = base
	c.now = func() time.Time { return base.Add(31 * time.Second) }

	c.checkKeepalive()

	sent := tr.written()
	require.Len(t, sent, 1)

	expected := strconv.FormatInt(base.Add(31*time.Second).Unix(), 10)
	assert.Equal(t, "PING "+expected, sent[0])
}

func TestKeepaliveOnlyRunsWhileConnected(t *testing.T) {
	c, tr := testConnection(t, nil)
	c.sendRegistrationMessages()
	tr.reset()

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c.state.connection.LastPingOrPong = base
	c.now = func() time.Time { return base.Add(time.Hour) }

	// A slow handshake is not keepalive silence.
	c.checkKeepalive()

	assert.Empty(t, tr.written())
}

func TestKeepaliveRecentActivitySkipsPing(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c.state.connection.LastPingOrPong = base
	c.now = func() time.Time { return base.Add(29 * time.Second) }

	c.checkKeepalive()

	assert.Empty(t, tr.written())
}

func TestKeepaliveHonoursConfiguredDelay(t *testing.T) {
	conf := testConfig()
	conf.PingDelay = Duration(5 * time.Second)

	c, tr := registeredConnection(t, conf)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c.state.connection.LastPingOrPong = base
	c.now = func() time.Time { return base.Add(6 * time.Second) }

	c.checkKeepalive()

	assert.Len(t, tr.written(), 1)
}

func TestKeepaliveNeverDisconnects(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c.state.connection.LastPingOrPong = base
	c.now = func() time.Time { return base.Add(24 * time.Hour) }

	// However long the silence, only the reader may kill the
	// connection.
	for i := 0; i < 10; i++ {
		c.checkKeepalive()
	}

	assert.Equal(t, LifecycleConnected, c.state.connection.Lifecycle)
}

func TestPONGAfterKeepaliveSilencesIt(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c.state.connection.LastPingOrPong = base
	c.now = func() time.Time { return base.Add(31 * time.Second) }

	c.checkKeepalive()
	require.Len(t, tr.written(), 1)

	feed(c, ":irc.example.com PONG irc.example.com :token")
	tr.reset()

	c.checkKeepalive()
	assert.Empty(t, tr.written())
}
