// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"strings"

	"github.com/araddon/dateparse"
)

// handleRPLWELCOME adopts whatever nickname the server actually gave us,
// which may differ from the one we asked for.
func handleRPLWELCOME(c *Connection, m *Message) {
	if nick := m.param(0); nick != "" && nick != "*" {
		c.state.connection.Nickname = nick
	}
}

// handleRPLCREATED extracts the server creation date. The text is
// freeform, so the date is taken from after the final "created" and run
// through a permissive parser.
func handleRPLCREATED(c *Connection, m *Message) {
	text := m.Last()

	i := strings.LastIndex(text, "created ")
	if i == -1 {
		return
	}

	// Some ircds write "<date> at <time>", which no date layout knows.
	raw := strings.Replace(text[i+len("created "):], " at ", " ", 1)

	// dateparse happily returns year-zero dates with a nil error for
	// text that isn't a date at all.
	created, err := dateparse.ParseAny(strings.TrimRight(raw, ". "))
	if err != nil || created.Year() < 1980 {
		c.log.trace.Printf("unparseable server creation date: %q", text)
		return
	}

	c.state.connection.ServerCreated = created
}

// handleRPLISUPPORT applies the ISUPPORT tokens the engine cares about.
// Unknown tokens, and malformed values for known ones, are ignored and
// the previous value stands.
func handleRPLISUPPORT(c *Connection, m *Message) {
	// Params[0] is our nick; the trailing text is boilerplate.
	for i := 1; i < len(m.Params); i++ {
		token := m.Params[i]

		key, value := token, ""
		if eq := strings.IndexByte(token, '='); eq != -1 {
			key, value = token[:eq], token[eq+1:]
		}

		switch key {
		case isupportPrefix:
			if prefixes := parsePrefixTokens(value); prefixes != nil {
				c.state.parsing.UserPrefixes = prefixes
			}
		case isupportChanModes:
			if modes, ok := parseChanModesToken(value); ok {
				c.state.parsing.ChannelModes = modes
			}
		case isupportChanTypes:
			if value != "" {
				c.state.parsing.ChannelTypes = value
			}
		case isupportCaseMapping:
			c.state.setCaseMapping(ParseCaseMapping(value))
		}
	}
}

func handleRPLTOPIC(c *Connection, m *Message) {
	if ch, ok := c.state.channels.joinedChannel(m.param(1)); ok {
		ch.Topic = m.Last()
	}
}

// handleRPLNAMREPLY populates channel membership from a NAMES reply,
// honouring multi-prefix sigil stacking and userhost-in-names hostmasks.
func handleRPLNAMREPLY(c *Connection, m *Message) {
	// Params: <client> <symbol> <channel>, names in the trailing text.
	ch, ok := c.state.channels.joinedChannel(m.param(2))
	if !ok {
		return
	}

	for _, entry := range strings.Fields(m.Last()) {
		modes, rest := splitSigils(c, entry)
		if rest == "" {
			continue
		}

		src := ParseSource(rest)

		ch.Users.Set(src.Name, &ChannelUserState{
			Nick:  src.Name,
			Ident: src.User,
			Host:  src.Host,
			Modes: modes,
		})
	}
}

// handleMOTDEnd treats both RPL_ENDOFMOTD and ERR_NOMOTD as the end of
// the base handshake.
func handleMOTDEnd(c *Connection, m *Message) {
	c.reg.succeed("base")
}

// handleNICKNAMEINUSE retries with a trailing underscore while still
// registering. Collisions after registration are the user's problem.
func handleNICKNAMEINUSE(c *Connection, m *Message) {
	if c.state.connection.Lifecycle != LifecycleRegistering {
		return
	}

	attempted := m.param(1)
	if attempted == "" || attempted == "*" {
		attempted = c.state.connection.Nickname
	}

	retry := attempted + "_"
	c.log.debug.Printf("nickname in use, retrying as: %s", retry)

	c.state.connection.Nickname = retry
	c.write(&Message{Command: NICK, Params: []string{retry}})
}

// handleJoinFailure marks an outstanding join attempt as failed. Covers
// full, invite-only, banned, and bad-key refusals.
func handleJoinFailure(c *Connection, m *Message) {
	v, ok := c.state.channels.joining.Get(m.param(1))
	if !ok {
		return
	}

	joining := v.(*JoiningChannelState)
	joining.Status = JoiningStatusFailed

	c.log.warn.Printf("failed to join %s: %s", joining.Name, m.Last())
}

func handleRPLLOGGEDIN(c *Connection, m *Message) {
	c.log.debug.Printf("logged in as: %s", m.param(2))
}
