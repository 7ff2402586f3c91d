// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsProduceProtocolLines(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	c.Join("#test", "")
	c.Join("#secret", "sekrit")
	c.Part("#old", "moving on")
	c.Message("#test", "hello")
	c.Notice("alice", "heads up")
	c.Action("#test", "waves")
	c.Nick("newname")
	c.Quit("bye")
	drain(c)

	assert.Equal(t, []string{
		"JOIN #test",
		"JOIN #secret sekrit",
		"PART #old :moving on",
		"PRIVMSG #test :hello",
		"NOTICE alice :heads up",
		"PRIVMSG #test :\x01ACTION waves\x01",
		"NICK newname",
		"QUIT :bye",
	}, tr.written())
}

func TestJoinTracksJoiningState(t *testing.T) {
	c, _ := registeredConnection(t, nil)

	c.Join("#test", "sekrit")
	drain(c)

	state := c.State()
	require.Len(t, state.Channels.Joining, 1)
	assert.Equal(t, "#test", state.Channels.Joining[0].Name)
	assert.Equal(t, "sekrit", state.Channels.Joining[0].Key)
	assert.Equal(t, JoiningStatusJoining, state.Channels.Joining[0].Status)
}

func TestJoinRejectsInvalidChannel(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	c.Join("not a channel", "")
	drain(c)

	assert.Empty(t, tr.written())
	assert.Empty(t, c.State().Channels.Joining)
}

func TestNickRejectsInvalidNickname(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	c.Nick("1bad")
	drain(c)

	assert.Empty(t, tr.written())
}

func TestSendRaw(t *testing.T) {
	c, tr := registeredConnection(t, nil)

	c.SendRaw("WHOIS alice")
	c.SendRaw("")
	drain(c)

	assert.Equal(t, []string{"WHOIS alice"}, tr.written())
}
