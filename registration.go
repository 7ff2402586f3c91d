// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

// registrationListener is notified once registration settles, one way or
// the other.
type registrationListener interface {
	onRegistrationSucceeded()
	onRegistrationFailed()
}

// registrationManager tracks the extensions taking part in the handshake.
// Registration succeeds when every registered extension succeeds, and
// fails as soon as any one of them fails. The base RFC1459 handshake is
// itself an extension ("base"), so a plain connection still works.
type registrationManager struct {
	log *logger

	succeeded map[string]bool
	listeners []registrationListener

	ended bool
}

func newRegistrationManager(log *logger) *registrationManager {
	return &registrationManager{
		log:       log,
		succeeded: make(map[string]bool),
	}
}

func (m *registrationManager) subscribe(listener registrationListener) {
	m.listeners = append(m.listeners, listener)
}

// register adds an extension to the set that must succeed. Must happen
// before any extension reports a verdict.
func (m *registrationManager) register(name string) {
	if _, ok := m.succeeded[name]; ok {
		return
	}

	m.succeeded[name] = false
}

// succeed marks an extension done and fires success once all are.
func (m *registrationManager) succeed(name string) {
	if m.ended {
		return
	}

	if _, ok := m.succeeded[name]; !ok {
		m.log.warn.Printf("unregistered extension reported success: %s", name)
		return
	}

	m.succeeded[name] = true

	for _, done := range m.succeeded {
		if !done {
			return
		}
	}

	m.ended = true
	m.log.debug.Print("registration succeeded")

	for _, listener := range m.listeners {
		listener.onRegistrationSucceeded()
	}
}

// fail ends registration immediately.
func (m *registrationManager) fail(name string) {
	if m.ended {
		return
	}

	m.ended = true
	m.log.warn.Printf("registration failed, extension: %s", name)

	for _, listener := range m.listeners {
		listener.onRegistrationFailed()
	}
}
