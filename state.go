// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"sync/atomic"
	"time"
)

// LifecycleState is the coarse connection lifecycle.
type LifecycleState int

const (
	// LifecycleConnecting means the transport is being set up.
	LifecycleConnecting LifecycleState = iota
	// LifecycleRegistering means the handshake is in flight.
	LifecycleRegistering
	// LifecycleConnected means registration completed.
	LifecycleConnected
	// LifecycleDisconnected is terminal for this run.
	LifecycleDisconnected
)

func (l LifecycleState) String() string {
	switch l {
	case LifecycleConnecting:
		return "connecting"
	case LifecycleRegistering:
		return "registering"
	case LifecycleConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// AuthCredentials is an account name and password pair used for SASL and
// NickServ authentication.
type AuthCredentials struct {
	Account  string
	Password string
}

// NickServState controls the legacy services fallback: identifying via a
// PRIVMSG to NickServ after registration when SASL is unavailable.
type NickServState struct {
	ShouldAuth      bool
	Credentials     AuthCredentials
	ChannelJoinWait time.Duration
}

// ConnectionState tracks everything about the life of the connection that
// isn't channel- or parser-specific.
type ConnectionState struct {
	Server   string
	Port     int
	Nickname string
	User     string

	Lifecycle LifecycleState

	// LastPingOrPong is the time the server last showed signs of life.
	LastPingOrPong time.Time

	// ServerCreated is parsed from RPL_CREATED, when the server sends a
	// date we can make sense of.
	ServerCreated time.Time

	NickServ NickServState
}

// ParsingState holds the server-dependent rules for interpreting messages,
// seeded with conservative defaults and updated from ISUPPORT.
type ParsingState struct {
	CaseMapping  CaseMapping
	UserPrefixes []UserPrefix
	ChannelModes ChannelModes
	ChannelTypes string
}

func defaultParsingState() ParsingState {
	modes, _ := parseChanModesToken(DefaultChanModes)

	return ParsingState{
		CaseMapping:  CaseMappingRFC1459,
		UserPrefixes: parsePrefixTokens(DefaultPrefixes),
		ChannelModes: modes,
		ChannelTypes: DefaultChanTypes,
	}
}

// isChannel reports whether target starts with an advertised channel type.
func (p *ParsingState) isChannel(target string) bool {
	if len(target) == 0 {
		return false
	}

	for i := 0; i < len(p.ChannelTypes); i++ {
		if target[0] == p.ChannelTypes[i] {
			return true
		}
	}

	return false
}

// modeForPrefix maps a NAMES sigil to its membership mode letter.
func (p *ParsingState) modeForPrefix(sigil byte) (byte, bool) {
	for i := 0; i < len(p.UserPrefixes); i++ {
		if p.UserPrefixes[i].Prefix == sigil {
			return p.UserPrefixes[i].Mode, true
		}
	}

	return 0, false
}

// isPrefixMode reports whether the mode letter is a channel membership
// mode.
func (p *ParsingState) isPrefixMode(mode byte) bool {
	for i := 0; i < len(p.UserPrefixes); i++ {
		if p.UserPrefixes[i].Mode == mode {
			return true
		}
	}

	return false
}

// JoiningStatus tracks the fate of an outstanding join attempt.
type JoiningStatus int

const (
	// JoiningStatusJoining means the JOIN was sent and no verdict has
	// arrived.
	JoiningStatusJoining JoiningStatus = iota
	// JoiningStatusFailed means the server refused the join.
	JoiningStatusFailed
)

func (s JoiningStatus) String() string {
	if s == JoiningStatusFailed {
		return "failed"
	}

	return "joining"
}

// JoiningChannelState is a channel the client has asked to join but not
// yet been confirmed in.
type JoiningChannelState struct {
	Name   string
	Key    string
	Status JoiningStatus
}

// ChannelUserState is one member of a joined channel.
type ChannelUserState struct {
	Nick  string
	Ident string
	Host  string

	// Modes is the set of membership mode letters (e.g. 'o', 'v') the
	// user holds in this channel.
	Modes map[byte]bool

	// Away holds the away reason, when known via away-notify.
	Away string

	// Account is the services account the user is logged into, when
	// known via account-notify.
	Account string
}

func (u *ChannelUserState) copy() ChannelUserState {
	out := *u

	out.Modes = make(map[byte]bool, len(u.Modes))
	for mode := range u.Modes {
		out.Modes[mode] = true
	}

	return out
}

// ChannelState is a channel the client is currently in.
type ChannelState struct {
	Name  string
	Topic string

	// Users is keyed by the case-mapped nickname.
	Users *mappedMap
}

func newChannelState(name string, mapping CaseMapping) *ChannelState {
	return &ChannelState{Name: name, Users: newMappedMap(mapping)}
}

// user looks up a member by nickname.
func (ch *ChannelState) user(nick string) (*ChannelUserState, bool) {
	v, ok := ch.Users.Get(nick)
	if !ok {
		return nil, false
	}

	return v.(*ChannelUserState), true
}

// channelsState tracks joining and joined channels, both keyed by the
// case-mapped channel name.
type channelsState struct {
	joining *mappedMap // of *JoiningChannelState
	joined  *mappedMap // of *ChannelState
}

func newChannelsState(mapping CaseMapping) channelsState {
	return channelsState{
		joining: newMappedMap(mapping),
		joined:  newMappedMap(mapping),
	}
}

// joinedChannel looks up a joined channel by name.
func (cs *channelsState) joinedChannel(name string) (*ChannelState, bool) {
	v, ok := cs.joined.Get(name)
	if !ok {
		return nil, false
	}

	return v.(*ChannelState), true
}

// rekey rebuilds every name-keyed container under a new case mapping.
func (cs *channelsState) rekey(mapping CaseMapping) {
	cs.joining.rekey(mapping, func(v interface{}) string {
		return v.(*JoiningChannelState).Name
	})
	cs.joined.rekey(mapping, func(v interface{}) string {
		return v.(*ChannelState).Name
	})

	cs.joined.Each(func(_ string, v interface{}) {
		v.(*ChannelState).Users.rekey(mapping, func(u interface{}) string {
			return u.(*ChannelUserState).Nick
		})
	})
}

// ChannelSnapshot is the immutable view of a joined channel.
type ChannelSnapshot struct {
	Name  string
	Topic string
	Users []ChannelUserState
}

// ChannelsSnapshot is the immutable view of channel membership.
type ChannelsSnapshot struct {
	Joining []JoiningChannelState
	Joined  []ChannelSnapshot
}

// Channel returns the snapshot for a joined channel, matched with the
// snapshot's case mapping, or nil.
func (cs IrcState) Channel(name string) *ChannelSnapshot {
	for i := range cs.Channels.Joined {
		if cs.Parsing.CaseMapping.Equal(cs.Channels.Joined[i].Name, name) {
			return &cs.Channels.Joined[i]
		}
	}

	return nil
}

// IrcState is a point-in-time copy of the engine's state. It shares no
// memory with the live state, so holding one across events is safe.
type IrcState struct {
	Connection ConnectionState
	Parsing    ParsingState
	Channels   ChannelsSnapshot
}

// state is the engine's mutable state. The event loop is the only writer;
// everyone else reads published snapshots.
type state struct {
	connection ConnectionState
	parsing    ParsingState
	channels   channelsState

	snapshot atomic.Value // IrcState
}

func newState(config *Config) *state {
	s := &state{
		connection: ConnectionState{
			Server:         config.Server,
			Port:           config.Port,
			Nickname:       config.Nick,
			User:           config.User,
			Lifecycle:      LifecycleConnecting,
			LastPingOrPong: time.Now(),
			NickServ: NickServState{
				ShouldAuth:      config.NickServ.Enabled,
				Credentials:     AuthCredentials{Account: config.NickServ.Account, Password: config.NickServ.Password},
				ChannelJoinWait: config.NickServ.ChannelJoinWait.Std(),
			},
		},
		parsing:  defaultParsingState(),
		channels: newChannelsState(CaseMappingRFC1459),
	}

	s.publish()
	return s
}

// setCaseMapping applies a new case mapping to the parser and rebuilds
// every name-keyed container.
func (s *state) setCaseMapping(mapping CaseMapping) {
	if s.parsing.CaseMapping == mapping {
		return
	}

	s.parsing.CaseMapping = mapping
	s.channels.rekey(mapping)
}

// capture produces a deep copy of the current state.
func (s *state) capture() IrcState {
	out := IrcState{
		Connection: s.connection,
		Parsing:    s.parsing,
	}

	out.Parsing.UserPrefixes = make([]UserPrefix, len(s.parsing.UserPrefixes))
	copy(out.Parsing.UserPrefixes, s.parsing.UserPrefixes)

	s.channels.joining.Each(func(_ string, v interface{}) {
		out.Channels.Joining = append(out.Channels.Joining, *v.(*JoiningChannelState))
	})

	s.channels.joined.Each(func(_ string, v interface{}) {
		ch := v.(*ChannelState)
		snap := ChannelSnapshot{Name: ch.Name, Topic: ch.Topic}

		ch.Users.Each(func(_ string, u interface{}) {
			snap.Users = append(snap.Users, u.(*ChannelUserState).copy())
		})

		out.Channels.Joined = append(out.Channels.Joined, snap)
	})

	return out
}

// publish captures the current state and makes it the visible snapshot.
func (s *state) publish() {
	s.snapshot.Store(s.capture())
}

// current returns the last published snapshot.
func (s *state) current() IrcState {
	return s.snapshot.Load().(IrcState)
}
