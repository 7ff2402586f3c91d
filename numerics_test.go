// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeAdoptsServerNickname(t *testing.T) {
	c, _ := testConnection(t, nil)
	c.sendRegistrationMessages()

	feed(c, ":irc.example.com 001 tester2 :Welcome to the Example network, tester2")

	assert.Equal(t, "tester2", c.State().Connection.Nickname)
}

func TestServerCreatedParsed(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	feed(c, ":irc.example.com 003 tester :This server was created 2006-01-02T15:04:05Z")

	created := c.State().Connection.ServerCreated
	require.False(t, created.IsZero())
	assert.Equal(t, 2006, created.Year())
	assert.Equal(t, time.January, created.Month())
}

func TestServerCreatedUnparseableIgnored(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	feed(c, ":irc.example.com 003 tester :This server was created sometime, probably")

	assert.True(t, c.State().Connection.ServerCreated.IsZero())
}

func TestISupportTokens(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	feed(c, ":irc.example.com 005 tester PREFIX=(qaohv)~&@%+ CHANMODES=eIbq,k,flj,CFLPQcgimnprstz CHANTYPES=#& :are supported by this server")

	parsing := c.State().Parsing
	require.Len(t, parsing.UserPrefixes, 5)
	assert.Equal(t, UserPrefix{Prefix: '~', Mode: 'q'}, parsing.UserPrefixes[0])
	assert.Equal(t, "eIbq", parsing.ChannelModes.TypeA)
	assert.Equal(t, "flj", parsing.ChannelModes.TypeC)
	assert.Equal(t, "#&", parsing.ChannelTypes)
}

func TestISupportMalformedValuesKeepDefaults(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	feed(c, ":irc.example.com 005 tester PREFIX=ov)@+ CHANMODES=a,b CHANTYPES= UNKNOWN=1 :are supported by this server")

	parsing := c.State().Parsing
	assert.Equal(t, parsePrefixTokens(DefaultPrefixes), parsing.UserPrefixes)
	assert.Equal(t, "beI", parsing.ChannelModes.TypeA)
	assert.Equal(t, DefaultChanTypes, parsing.ChannelTypes)
}

func TestISupportCaseMappingRekeysChannels(t *testing.T) {
	c, _ := registeredConnection(t, nil)
	joinChannel(c, "#chan[x]")
	feed(c, ":Nick[a]!nick@example.com JOIN #chan[x]")

	// Under the rfc1459 default, {x} resolves to the same channel.
	require.NotNil(t, c.State().Channel("#chan{x}"))

	feed(c, ":irc.example.com 005 tester CASEMAPPING=ascii :are supported by this server")

	state := c.State()
	assert.Equal(t, CaseMappingASCII, state.Parsing.CaseMapping)

	// After the switch, the braced form no longer matches, but the
	// original display form still does.
	assert.Nil(t, state.Channel("#chan{x}"))
	require.NotNil(t, state.Channel("#chan[x]"))

	// Membership containers are rebuilt too.
	ch, ok := c.state.channels.joinedChannel("#chan[x]")
	require.True(t, ok)
	assert.True(t, ch.Users.Has("Nick[a]"))
	assert.False(t, ch.Users.Has("nick{a}"))
}

func TestTopicNumeric(t *testing.T) {
	c, _ := registeredConnection(t, nil)
	joinChannel(c, "#test")

	feed(c, ":irc.example.com 332 tester #test :carrots, mostly")

	assert.Equal(t, "carrots, mostly", c.State().Channel("#test").Topic)
}

func TestNamesReply(t *testing.T) {
	c, _ := registeredConnection(t, nil)
	joinChannel(c, "#test")

	feed(c, ":irc.example.com 353 tester = #test :@alice +bob carol")

	ch := c.State().Channel("#test")
	require.Len(t, ch.Users, 3)

	byNick := make(map[string]ChannelUserState)
	for _, user := range ch.Users {
		byNick[user.Nick] = user
	}

	assert.True(t, byNick["alice"].Modes['o'])
	assert.True(t, byNick["bob"].Modes['v'])
	assert.Empty(t, byNick["carol"].Modes)
}

func TestNamesReplyMultiPrefixAndUserhost(t *testing.T) {
	c, _ := registeredConnection(t, nil)
	joinChannel(c, "#test")

	feed(c, ":irc.example.com 353 tester = #test :@+alice!alice@example.com bob!bob@example.net")

	ch := c.State().Channel("#test")
	require.Len(t, ch.Users, 2)

	byNick := make(map[string]ChannelUserState)
	for _, user := range ch.Users {
		byNick[user.Nick] = user
	}

	alice := byNick["alice"]
	assert.True(t, alice.Modes['o'])
	assert.True(t, alice.Modes['v'])
	assert.Equal(t, "alice", alice.Ident)
	assert.Equal(t, "example.com", alice.Host)

	assert.Equal(t, "example.net", byNick["bob"].Host)
}

func TestNamesReplyUnknownChannelIgnored(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	assert.NotPanics(t, func() {
		feed(c, ":irc.example.com 353 tester = #nowhere :@alice")
	})
}

func TestNoMOTDCompletesRegistration(t *testing.T) {
	c, _ := testConnection(t, nil)
	c.sendRegistrationMessages()

	feed(c,
		":irc.example.com CAP tester LS :multi-prefix away-notify chghost",
		":irc.example.com CAP tester ACK :multi-prefix away-notify chghost",
		":irc.example.com 001 tester :Welcome",
		":irc.example.com 422 tester :MOTD File is missing",
	)

	assert.Equal(t, LifecycleConnected, c.State().Connection.Lifecycle)
}

func TestNicknameInUseRetriesWhileRegistering(t *testing.T) {
	c, tr := testConnection(t, nil)
	c.sendRegistrationMessages()
	tr.reset()

	feed(c, ":irc.example.com 433 * tester :Nickname is already in use.")

	assert.Equal(t, []string{"NICK tester_"}, tr.written())
	assert.Equal(t, "tester_", c.State().Connection.Nickname)

	// A second collision appends again.
	tr.reset()
	feed(c, ":irc.example.com 433 * tester_ :Nickname is already in use.")

	assert.Equal(t, []string{"NICK tester__"}, tr.written())
}

func TestNicknameInUseIgnoredOnceConnected(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	feed(c, ":irc.example.com 433 tester newnick :Nickname is already in use.")

	assert.Empty(t, tr.written())
	assert.Equal(t, "tester", c.State().Connection.Nickname)
}

func TestJoinFailureNumerics(t *testing.T) {
	numerics := map[string]string{
		ERR_CHANNELISFULL:  "Cannot join channel (+l)",
		ERR_INVITEONLYCHAN: "Cannot join channel (+i)",
		ERR_BANNEDFROMCHAN: "Cannot join channel (+b)",
		ERR_BADCHANNELKEY:  "Cannot join channel (+k)",
	}

	for numeric, reason := range numerics {
		t.Run(numeric, func(t *testing.T) {
			c, _ := registeredConnection(t, nil)
			c.Join("#test", "")
			drain(c)

			feed(c, ":irc.example.com "+numeric+" tester #test :"+reason)

			state := c.State()
			require.Len(t, state.Channels.Joining, 1)
			assert.Equal(t, JoiningStatusFailed, state.Channels.Joining[0].Status)
		})
	}
}

func TestJoinFailureUnknownChannelIgnored(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	assert.NotPanics(t, func() {
		feed(c, ":irc.example.com 473 tester #nowhere :Cannot join channel (+i)")
	})
}
