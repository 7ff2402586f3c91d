// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptTransport is a Transport fed from a test script. Inbound lines
// come from a channel, outbound messages are captured.
type scriptTransport struct {
	lines chan string
	done  chan struct{}
	once  sync.Once

	mu   sync.Mutex
	sent []string
}

func newScriptTransport() *scriptTransport {
	return &scriptTransport{
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}
}

func (t *scriptTransport) SetUp() error { return nil }

func (t *scriptTransport) ReadLine() (string, bool) {
	select {
	case line, ok := <-t.lines:
		if !ok {
			return "", false
		}
		return line, true
	case <-t.done:
		return "", false
	}
}

func (t *scriptTransport) Write(m *Message) error {
	return t.WriteRaw(m.String())
}

func (t *scriptTransport) WriteRaw(raw string) error {
	t.mu.Lock()
	t.sent = append(t.sent, raw)
	t.mu.Unlock()

	return nil
}

func (t *scriptTransport) TearDown() {
	t.once.Do(func() { close(t.done) })
}

func (t *scriptTransport) written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.sent))
	copy(out, t.sent)

	return out
}

func (t *scriptTransport) reset() {
	t.mu.Lock()
	t.sent = nil
	t.mu.Unlock()
}

func testConfig() *Config {
	return &Config{
		Server:    "irc.example.com",
		Port:      6667,
		Nick:      "tester",
		SendDelay: -1, // No rate limiting in tests.
	}
}

// testConnection builds a connection wired to a script transport, without
// running the event loop. Tests drive it by calling feed.
func testConnection(t *testing.T, conf *Config) (*Connection, *scriptTransport) {
	t.Helper()

	if conf == nil {
		conf = testConfig()
	}

	c, err := New(conf)
	require.NoError(t, err)

	tr := newScriptTransport()
	c.transport = tr
	c.sleep = func(time.Duration) {}

	return c, tr
}

// feed processes raw lines as though they arrived on the event loop.
func feed(c *Connection, lines ...string) {
	for _, line := range lines {
		c.processLine(line)
	}

	c.state.publish()
}

// drain runs everything queued by commands, without the event loop.
func drain(c *Connection) {
	for {
		c.queue.mu.Lock()
		if len(c.queue.items) == 0 {
			c.queue.mu.Unlock()
			break
		}

		fn := c.queue.items[0]
		c.queue.items = c.queue.items[1:]
		c.queue.mu.Unlock()

		fn()
	}

	c.state.publish()
}

// registeredConnection is a connection that has been driven through a
// minimal successful handshake.
func registeredConnection(t *testing.T, conf *Config) (*Connection, *scriptTransport) {
	t.Helper()

	c, tr := testConnection(t, conf)
	c.sendRegistrationMessages()

	feed(c,
		":irc.example.com CAP tester LS :multi-prefix away-notify chghost",
		":irc.example.com CAP tester ACK :multi-prefix away-notify chghost",
		":irc.example.com 001 tester :Welcome to the Example network, tester",
		":irc.example.com 376 tester :End of /MOTD command.",
	)

	require.Equal(t, LifecycleConnected, c.State().Connection.Lifecycle)
	tr.reset()

	return c, tr
}

// joinChannel puts the connection in a channel via a self JOIN echo.
func joinChannel(c *Connection, channel string) {
	feed(c, ":tester!tester@example.com JOIN "+channel)
}
