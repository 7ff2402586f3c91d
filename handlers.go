// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import "strings"

// handlerFunc reacts to a single inbound message on the event loop.
type handlerFunc func(c *Connection, m *Message)

// registerHandlers builds the command dispatch table. Commands without an
// entry are ignored.
func registerHandlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		PING:         handlePING,
		PONG:         handlePONG,
		JOIN:         handleJOIN,
		PART:         handlePART,
		KICK:         handleKICK,
		QUIT:         handleQUIT,
		NICK:         handleNICK,
		TOPIC:        handleTOPIC,
		MODE:         handleMODE,
		PRIVMSG:      handlePRIVMSG,
		NOTICE:       handleNOTICE,
		ACCOUNT:      handleACCOUNT,
		AWAY:         handleAWAY,
		CHGHOST:      handleCHGHOST,
		CAP:          func(c *Connection, m *Message) { c.caps.handle(m) },
		AUTHENTICATE: func(c *Connection, m *Message) { c.sasl.onChallenge(m) },

		RPL_WELCOME:  handleRPLWELCOME,
		RPL_CREATED:  handleRPLCREATED,
		RPL_ISUPPORT: handleRPLISUPPORT,
		RPL_TOPIC:    handleRPLTOPIC,
		RPL_NAMREPLY: handleRPLNAMREPLY,

		RPL_ENDOFMOTD: handleMOTDEnd,
		ERR_NOMOTD:    handleMOTDEnd,

		ERR_NICKNAMEINUSE: handleNICKNAMEINUSE,

		ERR_CHANNELISFULL:  handleJoinFailure,
		ERR_INVITEONLYCHAN: handleJoinFailure,
		ERR_BANNEDFROMCHAN: handleJoinFailure,
		ERR_BADCHANNELKEY:  handleJoinFailure,

		RPL_LOGGEDIN:    handleRPLLOGGEDIN,
		RPL_SASLSUCCESS: func(c *Connection, m *Message) { c.sasl.onSuccess(m) },
		ERR_SASLFAIL:    func(c *Connection, m *Message) { c.sasl.onFailure(m) },
		ERR_SASLTOOLONG: func(c *Connection, m *Message) { c.sasl.onFailure(m) },
		ERR_SASLABORTED: func(c *Connection, m *Message) { c.sasl.onFailure(m) },
	}
}

// handlePING responds to keepalive checks from the server, and counts as
// proof of life for our own keepalive.
func handlePING(c *Connection, m *Message) {
	c.state.connection.LastPingOrPong = c.now()
	c.write(&Message{Command: PONG, Params: m.Params, Trailing: m.Trailing, EmptyTrailing: m.EmptyTrailing})
}

func handlePONG(c *Connection, m *Message) {
	c.state.connection.LastPingOrPong = c.now()
}

// handleJOIN creates the channel when we join, and tracks the member when
// someone else does.
func handleJOIN(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	channel := m.param(0)
	if channel == "" {
		return
	}

	if c.isSelf(m.Source.Name) {
		// A server may drop us into a channel we never asked for, so
		// the joining entry is cleared unconditionally. A duplicate
		// JOIN must not clobber tracked membership.
		c.state.channels.joining.Remove(channel)

		if !c.state.channels.joined.Has(channel) {
			c.state.channels.joined.Set(channel, newChannelState(channel, c.state.parsing.CaseMapping))
			c.log.debug.Printf("joined channel: %s", channel)
		}
		return
	}

	ch, ok := c.state.channels.joinedChannel(channel)
	if !ok {
		c.log.warn.Printf("join for a channel we aren't in: %s", channel)
		return
	}

	ch.Users.Set(m.Source.Name, &ChannelUserState{
		Nick:  m.Source.Name,
		Ident: m.Source.User,
		Host:  m.Source.Host,
		Modes: make(map[byte]bool),
	})
}

func handlePART(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	channel := m.param(0)

	if c.isSelf(m.Source.Name) {
		c.state.channels.joined.Remove(channel)
		c.log.debug.Printf("parted channel: %s", channel)
		return
	}

	if ch, ok := c.state.channels.joinedChannel(channel); ok {
		ch.Users.Remove(m.Source.Name)
	}
}

func handleKICK(c *Connection, m *Message) {
	target := m.param(1)
	if target == "" {
		return
	}

	if c.isSelf(target) {
		for _, channel := range strings.Split(m.param(0), ",") {
			c.state.channels.joined.Remove(channel)
			c.log.debug.Printf("kicked from channel: %s", channel)
		}
		return
	}

	// Kicked users leave our picture of the network entirely; the same
	// cleanup as a QUIT keeps per-channel state from going stale when
	// the KICK and a rejoin race.
	c.eachJoined(func(ch *ChannelState) {
		ch.Users.Remove(target)
	})
}

// handleQUIT removes the user from every channel. Our own QUIT echoing
// back means the server is done with us.
func handleQUIT(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	if c.isSelf(m.Source.Name) {
		c.setLifecycle(LifecycleDisconnected)
		return
	}

	c.eachJoined(func(ch *ChannelState) {
		ch.Users.Remove(m.Source.Name)
	})
}

// handleNICK renames the user in every channel, preserving their modes.
func handleNICK(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	newNick := m.Last()
	if newNick == "" {
		return
	}

	if c.isSelf(m.Source.Name) {
		c.state.connection.Nickname = newNick
	}

	c.eachJoined(func(ch *ChannelState) {
		v, ok := ch.Users.Pop(m.Source.Name)
		if !ok {
			return
		}

		user := v.(*ChannelUserState)
		user.Nick = newNick
		ch.Users.Set(newNick, user)
	})
}

func handleTOPIC(c *Connection, m *Message) {
	if ch, ok := c.state.channels.joinedChannel(m.param(0)); ok {
		ch.Topic = m.Last()
	}
}

// handleMODE applies channel membership mode changes to tracked users and
// fires a mode event per modifier. Non-channel targets only fire events;
// user modes aren't tracked.
func handleMODE(c *Connection, m *Message) {
	target := m.param(0)
	if target == "" || m.paramCount() < 2 {
		return
	}

	var args []string
	for i := 1; i < m.paramCount(); i++ {
		args = append(args, m.param(i))
	}

	modifiers := c.state.parsing.parseModeChanges(args)

	if !c.state.parsing.isChannel(target) {
		for _, mod := range modifiers {
			c.fire(UserModeEvent{Target: target, Modifier: mod})
		}
		return
	}

	ch, ok := c.state.channels.joinedChannel(target)
	if !ok {
		c.log.warn.Printf("mode change for a channel we aren't in: %s", target)
		return
	}

	for _, mod := range modifiers {
		if mod.Param != "" && c.state.parsing.isPrefixMode(mod.Mode) {
			if user, ok := ch.user(mod.Param); ok {
				if mod.Add {
					user.Modes[mod.Mode] = true
				} else {
					delete(user.Modes, mod.Mode)
				}
			}
		}

		c.fire(ChannelModeEvent{Channel: target, User: m.Source, Modifier: mod})
	}
}

// messageUser resolves the sender of a channel message to their tracked
// membership state, falling back to a synthesised one for senders we
// don't track (the fallback is never stored).
func messageUser(c *Connection, channel string, src *Source) ChannelUserState {
	if ch, ok := c.state.channels.joinedChannel(channel); ok {
		if user, ok := ch.user(src.Name); ok {
			return user.copy()
		}
	}

	return ChannelUserState{
		Nick:  src.Name,
		Ident: src.User,
		Host:  src.Host,
		Modes: make(map[byte]bool),
	}
}

func handlePRIVMSG(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	target := m.param(0)
	text := m.Last()
	ctcp := decodeCTCP(text)

	if c.state.parsing.isChannel(target) {
		user := messageUser(c, target, m.Source)

		if ctcp != nil {
			if ctcp.Command == ctcpAction {
				c.fire(ChannelActionEvent{Channel: target, User: user, Message: ctcp.Text})
			}
			// Other CTCP queries are dropped.
			return
		}

		c.fire(ChannelMessageEvent{Channel: target, User: user, Message: text})
		return
	}

	if ctcp != nil {
		if ctcp.Command == ctcpAction {
			c.fire(PrivateActionEvent{User: *m.Source, Message: ctcp.Text})
		}
		return
	}

	c.fire(PrivateMessageEvent{User: *m.Source, Message: text})
}

func handleNOTICE(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	target := m.param(0)
	text := m.Last()

	// CTCP payloads inside notices are replies to queries we never
	// send.
	if decodeCTCP(text) != nil {
		return
	}

	if c.state.parsing.isChannel(target) {
		c.fire(ChannelNoticeEvent{Channel: target, User: messageUser(c, target, m.Source), Message: text})
		return
	}

	c.fire(PrivateNoticeEvent{User: *m.Source, Message: text})
}

// handleACCOUNT tracks services account state in every shared channel
// (account-notify). "*" means the user logged out.
func handleACCOUNT(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	account := m.param(0)
	if account == "*" {
		account = ""
	}

	c.eachJoined(func(ch *ChannelState) {
		if user, ok := ch.user(m.Source.Name); ok {
			user.Account = account
		}
	})
}

// handleAWAY tracks away state in every shared channel (away-notify).
func handleAWAY(c *Connection, m *Message) {
	if m.Source == nil {
		return
	}

	reason := m.Last()

	c.eachJoined(func(ch *ChannelState) {
		if user, ok := ch.user(m.Source.Name); ok {
			user.Away = reason
		}
	})
}

// handleCHGHOST updates the user's ident and host in every shared channel.
func handleCHGHOST(c *Connection, m *Message) {
	if m.Source == nil || m.paramCount() < 2 {
		return
	}

	ident := m.param(0)
	host := m.param(1)

	c.eachJoined(func(ch *ChannelState) {
		if user, ok := ch.user(m.Source.Name); ok {
			user.Ident = ident
			user.Host = host
		}
	})
}

// splitSigils separates leading NAMES sigils from the name they decorate.
func splitSigils(c *Connection, raw string) (modes map[byte]bool, rest string) {
	modes = make(map[byte]bool)

	for len(raw) > 0 {
		mode, ok := c.state.parsing.modeForPrefix(raw[0])
		if !ok {
			break
		}

		modes[mode] = true
		raw = raw[1:]
	}

	return modes, raw
}
