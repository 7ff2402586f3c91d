// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import "strings"

// possibleCap is the capability list the engine can take advantage of by
// itself. Anything the user asks for on top comes from Config.Caps.
var possibleCap = []string{
	"account-notify",
	"away-notify",
	"chghost",
	"multi-prefix",
}

type capLifecycle int

const (
	// capIdle means negotiation hasn't started.
	capIdle capLifecycle = iota
	// capNegotiating means CAP LS was sent and END hasn't.
	capNegotiating
	// capNegotiated means CAP END was sent.
	capNegotiated
)

// capManager drives IRCv3 capability negotiation. It reports itself to the
// registration tracker as the "cap" extension: negotiation finishing --
// regardless of how many capabilities were actually granted -- counts as
// extension success.
type capManager struct {
	conn *Connection

	lifecycle capLifecycle

	// negotiate is everything we will ask for, fixed at start.
	negotiate []string
	// server is what the server advertised, name to value.
	server map[string]string

	accepted map[string]bool
	rejected map[string]bool
}

func newCapManager(conn *Connection) *capManager {
	m := &capManager{
		conn:     conn,
		server:   make(map[string]string),
		accepted: make(map[string]bool),
		rejected: make(map[string]bool),
	}

	m.negotiate = append(m.negotiate, possibleCap...)

	if conn.Config.SASL.Enabled {
		m.negotiate = append(m.negotiate, "sasl")
	}

	for _, name := range conn.Config.Caps {
		if !m.wants(name) {
			m.negotiate = append(m.negotiate, name)
		}
	}

	return m
}

func (m *capManager) wants(name string) bool {
	for i := 0; i < len(m.negotiate); i++ {
		if m.negotiate[i] == name {
			return true
		}
	}

	return false
}

// startNegotiation sends CAP LS before NICK/USER so registration is held
// open until we send CAP END.
func (m *capManager) startNegotiation() {
	m.lifecycle = capNegotiating
	m.conn.reg.register("cap")
	m.conn.write(&Message{Command: CAP, Params: []string{CAP_LS, "302"}})
}

// handle dispatches a CAP message by subcommand.
func (m *capManager) handle(msg *Message) {
	if msg.paramCount() < 2 {
		return
	}

	switch msg.param(1) {
	case CAP_LS:
		m.handleLS(msg)
	case CAP_ACK:
		m.handleACK(msg)
	case CAP_NAK:
		m.handleNAK(msg)
	case CAP_NEW:
		m.handleNEW(msg)
	case CAP_DEL:
		m.handleDEL(msg)
	}
}

// parseCapList splits a space-separated capability list, separating each
// entry's name from its "name=value" metadata.
func parseCapList(raw string) map[string]string {
	out := make(map[string]string)

	for _, entry := range strings.Split(raw, " ") {
		if entry == "" {
			continue
		}

		if eq := strings.IndexByte(entry, '='); eq != -1 {
			out[entry[:eq]] = entry[eq+1:]
		} else {
			out[entry] = ""
		}
	}

	return out
}

// handleLS records advertised capabilities. A "*" between the subcommand
// and the list marks a continuation; only the final chunk triggers the
// REQ.
func (m *capManager) handleLS(msg *Message) {
	multiline := msg.paramCount() >= 4 && msg.param(2) == "*"

	for name, value := range parseCapList(msg.Last()) {
		m.server[name] = value
	}

	if multiline {
		return
	}

	var req []string
	for _, name := range m.negotiate {
		if _, ok := m.server[name]; ok {
			req = append(req, name)
		} else {
			// Anything we wanted that the server doesn't have is
			// settled immediately.
			m.rejected[name] = true
		}
	}

	m.conn.log.debug.Printf("server capabilities: %v, requesting: %v", m.server, req)

	if len(req) > 0 {
		m.conn.write(&Message{Command: CAP, Params: []string{CAP_REQ}, Trailing: strings.Join(req, " ")})
	}

	m.onNegotiationStateChanged()
}

func (m *capManager) handleACK(msg *Message) {
	for name := range parseCapList(msg.Last()) {
		if !m.wants(name) {
			m.conn.log.warn.Printf("server acked capability we never requested: %s", name)
			continue
		}

		m.accepted[name] = true
		m.conn.log.debug.Printf("server acked capability: %s", name)

		if name == "sasl" {
			m.conn.sasl.beginAuth()
		}
	}

	m.onNegotiationStateChanged()
}

func (m *capManager) handleNAK(msg *Message) {
	for name := range parseCapList(msg.Last()) {
		if !m.wants(name) {
			m.conn.log.warn.Printf("server rejected capability we never requested: %s", name)
			continue
		}

		m.rejected[name] = true
		m.conn.log.debug.Printf("server rejected capability: %s", name)
	}

	m.onNegotiationStateChanged()
}

// handleNEW requests any newly advertised capability we wanted but didn't
// get the first time around.
func (m *capManager) handleNEW(msg *Message) {
	var req []string

	for name, value := range parseCapList(msg.Last()) {
		m.server[name] = value

		if m.wants(name) && !m.accepted[name] {
			delete(m.rejected, name)
			req = append(req, name)
		}
	}

	if len(req) > 0 {
		m.conn.write(&Message{Command: CAP, Params: []string{CAP_REQ}, Trailing: strings.Join(req, " ")})
	}
}

func (m *capManager) handleDEL(msg *Message) {
	for name := range parseCapList(msg.Last()) {
		delete(m.server, name)
		delete(m.accepted, name)
	}
}

// onNegotiationStateChanged ends negotiation once every capability we
// asked for has a verdict and SASL isn't mid-flight.
func (m *capManager) onNegotiationStateChanged() {
	if m.lifecycle != capNegotiating {
		return
	}

	for _, name := range m.negotiate {
		if !m.accepted[name] && !m.rejected[name] {
			return
		}
	}

	if m.conn.sasl.lifecycle == saslAuthing {
		return
	}

	m.lifecycle = capNegotiated
	m.conn.write(&Message{Command: CAP, Params: []string{CAP_END}})
	m.conn.reg.succeed("cap")
}
