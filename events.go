// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"sync"

	"github.com/google/uuid"
)

// EventKind identifies the type of an engine event for subscription
// purposes.
type EventKind int

const (
	EventConnectionLifecycle EventKind = iota
	EventChannelMessage
	EventChannelAction
	EventChannelNotice
	EventPrivateMessage
	EventPrivateAction
	EventPrivateNotice
	EventChannelMode
	EventUserMode
)

func (k EventKind) String() string {
	switch k {
	case EventConnectionLifecycle:
		return "connection_lifecycle"
	case EventChannelMessage:
		return "channel_message"
	case EventChannelAction:
		return "channel_action"
	case EventChannelNotice:
		return "channel_notice"
	case EventPrivateMessage:
		return "private_message"
	case EventPrivateAction:
		return "private_action"
	case EventPrivateNotice:
		return "private_notice"
	case EventChannelMode:
		return "channel_mode"
	case EventUserMode:
		return "user_mode"
	default:
		return "unknown"
	}
}

// ConnectionLifecycleEvent fires when the connection changes lifecycle
// state.
type ConnectionLifecycleEvent struct {
	Lifecycle LifecycleState
}

// ChannelMessageEvent fires for a PRIVMSG to a joined channel.
type ChannelMessageEvent struct {
	Channel string
	User    ChannelUserState
	Message string
}

// ChannelActionEvent fires for a CTCP ACTION to a joined channel.
type ChannelActionEvent struct {
	Channel string
	User    ChannelUserState
	Message string
}

// ChannelNoticeEvent fires for a NOTICE to a joined channel.
type ChannelNoticeEvent struct {
	Channel string
	User    ChannelUserState
	Message string
}

// PrivateMessageEvent fires for a PRIVMSG sent directly to us.
type PrivateMessageEvent struct {
	User    Source
	Message string
}

// PrivateActionEvent fires for a CTCP ACTION sent directly to us.
type PrivateActionEvent struct {
	User    Source
	Message string
}

// PrivateNoticeEvent fires for a NOTICE sent directly to us.
type PrivateNoticeEvent struct {
	User    Source
	Message string
}

// ChannelModeEvent fires once per modifier in a channel MODE change. User
// is nil when the server itself changed the mode.
type ChannelModeEvent struct {
	Channel  string
	User     *Source
	Modifier ModeModifier
}

// UserModeEvent fires once per modifier in a user MODE change.
type UserModeEvent struct {
	Target   string
	Modifier ModeModifier
}

// eventKindOf maps an event value to its subscription kind.
func eventKindOf(event interface{}) (EventKind, bool) {
	switch event.(type) {
	case ConnectionLifecycleEvent:
		return EventConnectionLifecycle, true
	case ChannelMessageEvent:
		return EventChannelMessage, true
	case ChannelActionEvent:
		return EventChannelAction, true
	case ChannelNoticeEvent:
		return EventChannelNotice, true
	case PrivateMessageEvent:
		return EventPrivateMessage, true
	case PrivateActionEvent:
		return EventPrivateAction, true
	case PrivateNoticeEvent:
		return EventPrivateNotice, true
	case ChannelModeEvent:
		return EventChannelMode, true
	case UserModeEvent:
		return EventUserMode, true
	default:
		return 0, false
	}
}

type subscription struct {
	id string
	fn func(event interface{})
}

// Dispatcher fans engine events out to subscribers. Delivery is
// synchronous and in subscription order, on the goroutine that fired the
// event.
type Dispatcher struct {
	mu   sync.Mutex
	subs map[EventKind][]subscription
}

func newDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[EventKind][]subscription)}
}

// Subscribe registers fn for events of the given kind and returns an id
// usable with Unsubscribe.
func (d *Dispatcher) Subscribe(kind EventKind, fn func(event interface{})) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.New().String()
	d.subs[kind] = append(d.subs[kind], subscription{id: id, fn: fn})

	return id
}

// Unsubscribe removes a subscription by id, reporting whether it existed.
func (d *Dispatcher) Unsubscribe(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for kind, subs := range d.subs {
		for i := range subs {
			if subs[i].id == id {
				d.subs[kind] = append(subs[:i], subs[i+1:]...)
				return true
			}
		}
	}

	return false
}

// fire delivers an event to every subscriber of its kind.
func (d *Dispatcher) fire(event interface{}) {
	kind, ok := eventKindOf(event)
	if !ok {
		return
	}

	d.mu.Lock()
	subs := make([]subscription, len(d.subs[kind]))
	copy(subs, d.subs[kind])
	d.mu.Unlock()

	for i := range subs {
		subs[i].fn(event)
	}
}
