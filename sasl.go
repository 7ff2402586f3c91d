// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import "encoding/base64"

type saslLifecycle int

const (
	// saslNoAuth means SASL was never attempted.
	saslNoAuth saslLifecycle = iota
	// saslAuthing means AUTHENTICATE is in flight; CAP END is held back
	// until a verdict arrives.
	saslAuthing
	// saslAuthed means the server confirmed authentication.
	saslAuthed
	// saslAuthFailed means authentication failed. Registration still
	// proceeds; the connection is just unauthenticated.
	saslAuthFailed
)

// saslManager speaks SASL PLAIN inside capability negotiation.
type saslManager struct {
	conn *Connection

	shouldAuth  bool
	credentials AuthCredentials

	lifecycle saslLifecycle
}

func newSaslManager(conn *Connection) *saslManager {
	return &saslManager{
		conn:       conn,
		shouldAuth: conn.Config.SASL.Enabled,
		credentials: AuthCredentials{
			Account:  conn.Config.SASL.Account,
			Password: conn.Config.SASL.Password,
		},
	}
}

// beginAuth kicks off authentication after the sasl capability is acked.
func (m *saslManager) beginAuth() {
	if !m.shouldAuth {
		return
	}

	m.lifecycle = saslAuthing
	m.conn.write(&Message{Command: AUTHENTICATE, Params: []string{saslMechanismPlain}})
}

// onChallenge answers the server's AUTHENTICATE challenge. PLAIN ignores
// the challenge payload and sends the credentials blob.
func (m *saslManager) onChallenge(msg *Message) {
	if m.lifecycle != saslAuthing {
		m.conn.log.warn.Printf("unexpected authenticate challenge: %s", msg)
		return
	}

	// No credentials means no answer. The server is left waiting; its
	// own auth timeout resolves the stall.
	if m.credentials.Account == "" {
		m.conn.log.warn.Print("sasl challenge arrived without configured credentials")
		return
	}

	blob := m.credentials.Account + "\x00" + m.credentials.Account + "\x00" + m.credentials.Password

	m.conn.write(&Message{
		Command: AUTHENTICATE,
		Params:  []string{base64.StdEncoding.EncodeToString([]byte(blob))},
	})
}

// onSuccess handles RPL_SASLSUCCESS.
func (m *saslManager) onSuccess(msg *Message) {
	m.conn.log.debug.Printf("sasl auth succeeded: %s", msg.Last())
	m.lifecycle = saslAuthed
	m.conn.caps.onNegotiationStateChanged()
}

// onFailure handles the SASL failure numerics. Failure doesn't abort
// registration, it just lets capability negotiation finish without auth.
func (m *saslManager) onFailure(msg *Message) {
	m.conn.log.warn.Printf("sasl auth failed: %s", msg.Last())
	m.lifecycle = saslAuthFailed
	m.conn.caps.onNegotiationStateChanged()
}
