// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

// Commands may be called from any goroutine. Each one is queued behind
// whatever the event loop is doing, so commands interleave cleanly with
// inbound traffic and state updates.

// Join asks to join a channel, with an optional key.
func (c *Connection) Join(name, key string) {
	c.queue.add(func() {
		if !c.state.parsing.isChannel(name) && !IsValidChannel(name) {
			c.log.warn.Printf("refusing to join invalid channel: %q", name)
			return
		}

		c.state.channels.joining.Set(name, &JoiningChannelState{Name: name, Key: key})

		params := []string{name}
		if key != "" {
			params = append(params, key)
		}

		c.write(&Message{Command: JOIN, Params: params})
	})
}

// Part leaves a channel, with an optional reason.
func (c *Connection) Part(name, reason string) {
	c.queue.add(func() {
		c.write(&Message{Command: PART, Params: []string{name}, Trailing: reason})
	})
}

// Message sends a PRIVMSG to a channel or nickname.
func (c *Connection) Message(target, text string) {
	c.queue.add(func() {
		c.write(&Message{Command: PRIVMSG, Params: []string{target}, Trailing: text})
	})
}

// Notice sends a NOTICE to a channel or nickname.
func (c *Connection) Notice(target, text string) {
	c.queue.add(func() {
		c.write(&Message{Command: NOTICE, Params: []string{target}, Trailing: text})
	})
}

// Action sends a CTCP ACTION ("/me") to a channel or nickname.
func (c *Connection) Action(target, text string) {
	c.queue.add(func() {
		c.write(&Message{Command: PRIVMSG, Params: []string{target}, Trailing: encodeCTCP(ctcpAction, text)})
	})
}

// Nick asks the server for a new nickname. State updates when the server
// confirms.
func (c *Connection) Nick(nick string) {
	c.queue.add(func() {
		if !IsValidNick(nick) {
			c.log.warn.Printf("refusing to use invalid nickname: %q", nick)
			return
		}

		c.write(&Message{Command: NICK, Params: []string{nick}})
	})
}

// Quit tells the server we're leaving. The disconnect itself arrives via
// the server closing the connection or echoing the QUIT back.
func (c *Connection) Quit(reason string) {
	c.queue.add(func() {
		c.write(&Message{Command: QUIT, Trailing: reason})
	})
}

// SendRaw writes a raw protocol line as-is.
func (c *Connection) SendRaw(raw string) {
	c.queue.add(func() {
		m := ParseMessage(raw)
		if m == nil {
			c.log.warn.Printf("refusing to send unparseable line: %q", raw)
			return
		}

		c.write(m)
	})
}
