// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Connection is a single run against a single server. Inbound lines,
// keepalive checks, and user commands all funnel through one queue and
// run on one goroutine, so handlers never race on state.
type Connection struct {
	// Config should not be modified after New.
	Config *Config

	state    *state
	queue    *eventQueue
	events   *Dispatcher
	handlers map[string]handlerFunc

	caps *capManager
	sasl *saslManager
	reg  *registrationManager

	transport Transport
	limiter   *rate.Limiter

	log     *logger
	metrics *Metrics

	// Injectable for tests.
	now   func() time.Time
	sleep func(time.Duration)

	runCtx context.Context
}

// New validates the configuration and builds a connection. The connection
// does nothing until Run is called.
func New(config *Config) (*Connection, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	c := &Connection{
		Config:   config,
		queue:    newEventQueue(),
		events:   newDispatcher(),
		handlers: registerHandlers(),
		limiter:  newSendLimiter(config),
		log:      newLogger(config.Debug),
		now:      time.Now,
		sleep:    time.Sleep,
		runCtx:   context.Background(),
	}

	c.state = newState(config)
	c.reg = newRegistrationManager(c.log)
	c.reg.subscribe(c)
	c.sasl = newSaslManager(c)
	c.caps = newCapManager(c)

	return c, nil
}

// UseMetrics attaches a counter set. Must be called before Run.
func (c *Connection) UseMetrics(m *Metrics) {
	c.metrics = m
}

// Subscribe registers fn for events of the given kind. Handlers run
// synchronously on the event loop, so they see consistent state but must
// not block.
func (c *Connection) Subscribe(kind EventKind, fn func(event interface{})) string {
	return c.events.Subscribe(kind, fn)
}

// Unsubscribe removes a subscription by id.
func (c *Connection) Unsubscribe(id string) bool {
	return c.events.Unsubscribe(id)
}

// State returns the most recent state snapshot. The snapshot is immutable
// and safe to hold from any goroutine.
func (c *Connection) State() IrcState {
	return c.state.current()
}

// Run connects and drives the event loop until the connection reaches the
// disconnected state or ctx is cancelled. It blocks for the life of the
// connection.
func (c *Connection) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.runCtx = ctx

	if c.transport == nil {
		c.transport = newSocketTransport(c.Config, c.log)
	}

	if err := c.transport.SetUp(); err != nil {
		return err
	}
	defer c.transport.TearDown()

	c.sendRegistrationMessages()

	go c.lineLoop(ctx)
	go c.pingLoop(ctx)
	go func() {
		<-ctx.Done()
		c.queue.interrupt()
		c.transport.TearDown()
	}()

	for {
		fn, ok := c.queue.grab()
		if !ok {
			return ctx.Err()
		}

		fn()
		c.state.publish()

		if c.state.connection.Lifecycle == LifecycleDisconnected {
			return nil
		}
	}
}

// sendRegistrationMessages starts the handshake: capability negotiation
// first so registration is held open, then the RFC1459 basics.
func (c *Connection) sendRegistrationMessages() {
	c.reg.register("base")
	c.setLifecycle(LifecycleRegistering)

	c.caps.startNegotiation()

	if c.Config.ServerPass != "" {
		c.write(&Message{Command: PASS, Params: []string{c.Config.ServerPass}})
	}

	c.write(&Message{Command: NICK, Params: []string{c.Config.Nick}})
	c.write(&Message{Command: USER, Params: []string{c.Config.User, "8", "*"}, Trailing: c.Config.Name})
}

// lineLoop is the reader producer. Anything going wrong here, including a
// panic, turns into a forced disconnect rather than a crash.
func (c *Connection) lineLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.log.warn.Printf("line producer panicked: %v", r)
			c.forceDisconnect()
		}
	}()

	for {
		line, ok := c.transport.ReadLine()
		if !ok {
			if ctx.Err() == nil {
				c.forceDisconnect()
			}
			return
		}

		c.metrics.lineReceived()
		c.queue.add(func() { c.processLine(line) })
	}
}

// processLine parses and dispatches one inbound line.
func (c *Connection) processLine(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}

	c.log.trace.Printf("< %s", line)

	m := ParseMessage(line)
	if m == nil {
		c.log.warn.Printf("dropped unparseable line: %q", line)
		return
	}

	if handler, ok := c.handlers[m.Command]; ok {
		handler(c, m)
	}
}

// forceDisconnect is how producers kill the connection: pending work is
// dropped and the only thing left for the loop is the state change.
func (c *Connection) forceDisconnect() {
	c.queue.clear()
	c.queue.add(func() {
		c.setLifecycle(LifecycleDisconnected)
	})
}

// setLifecycle changes the lifecycle state and announces it.
func (c *Connection) setLifecycle(l LifecycleState) {
	if c.state.connection.Lifecycle == l {
		return
	}

	c.state.connection.Lifecycle = l
	c.log.debug.Printf("lifecycle: %s", l)

	if l == LifecycleDisconnected {
		c.metrics.disconnected()
	}

	c.fire(ConnectionLifecycleEvent{Lifecycle: l})
}

// fire publishes the current state and delivers an event, so subscribers
// reading State() see the world the event describes.
func (c *Connection) fire(event interface{}) {
	c.state.publish()

	if kind, ok := eventKindOf(event); ok {
		c.metrics.eventFired(kind.String())
	}

	c.events.fire(event)
}

// write sends a message through the rate limiter to the transport.
func (c *Connection) write(m *Message) {
	if c.limiter != nil {
		if err := c.limiter.Wait(c.runCtx); err != nil {
			return
		}
	}

	if err := c.transport.Write(m); err != nil {
		c.log.warn.Printf("write failed: %v", err)
		return
	}

	c.metrics.messageSent()
}

// isSelf reports whether nick is us, under the current case mapping.
func (c *Connection) isSelf(nick string) bool {
	return c.state.parsing.CaseMapping.Equal(nick, c.state.connection.Nickname)
}

// eachJoined runs fn for every joined channel.
func (c *Connection) eachJoined(fn func(ch *ChannelState)) {
	c.state.channels.joined.Each(func(_ string, v interface{}) {
		fn(v.(*ChannelState))
	})
}

// onRegistrationSucceeded runs the post-registration sequence: identify
// with services, optionally wait for them to catch up, join the
// configured channels, and only then report connected.
func (c *Connection) onRegistrationSucceeded() {
	nickserv := c.state.connection.NickServ

	if nickserv.ShouldAuth {
		c.write(&Message{
			Command:  PRIVMSG,
			Params:   []string{"NickServ"},
			Trailing: "identify " + nickserv.Credentials.Account + " " + nickserv.Credentials.Password,
		})

		if nickserv.ChannelJoinWait > 0 {
			c.sleep(nickserv.ChannelJoinWait)
		}
	}

	c.joinConfiguredChannels()
	c.setLifecycle(LifecycleConnected)
}

// onRegistrationFailed gives up on the connection.
func (c *Connection) onRegistrationFailed() {
	c.log.warn.Print("registration failed, disconnecting")
	c.setLifecycle(LifecycleDisconnected)
}

// joinConfiguredChannels sends a single batched JOIN. Keyed channels come
// first so the key list lines up with the channel list.
func (c *Connection) joinConfiguredChannels() {
	var names, keys []string

	for _, ch := range c.Config.Channels {
		if ch.Key == "" {
			continue
		}

		names = append(names, ch.Name)
		keys = append(keys, ch.Key)
		c.state.channels.joining.Set(ch.Name, &JoiningChannelState{Name: ch.Name, Key: ch.Key})
	}

	for _, ch := range c.Config.Channels {
		if ch.Key != "" {
			continue
		}

		names = append(names, ch.Name)
		c.state.channels.joining.Set(ch.Name, &JoiningChannelState{Name: ch.Name})
	}

	if len(names) == 0 {
		return
	}

	params := []string{strings.Join(names, ",")}
	if len(keys) > 0 {
		params = append(params, strings.Join(keys, ","))
	}

	c.write(&Message{Command: JOIN, Params: params})
}
