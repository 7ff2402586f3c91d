// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotIsImmutable(t *testing.T) {
	c, _ := registeredConnection(t, nil)
	joinChannel(c, "#test")
	feed(c,
		":alice!alice@example.com JOIN #test",
		":op!op@example.com MODE #test +o alice",
		":op!op@example.com TOPIC #test :original topic",
	)

	snapshot := c.State()

	// Mutate the live state after the snapshot was taken.
	feed(c,
		":op!op@example.com TOPIC #test :changed topic",
		":op!op@example.com MODE #test -o alice",
		":alice!alice@example.com NICK :alicia",
		":bob!bob@example.com JOIN #test",
	)

	ch := snapshot.Channel("#test")
	require.NotNil(t, ch)
	assert.Equal(t, "original topic", ch.Topic)
	require.Len(t, ch.Users, 1)
	assert.Equal(t, "alice", ch.Users[0].Nick)
	assert.True(t, ch.Users[0].Modes['o'])

	// The fresh snapshot sees everything.
	now := c.State().Channel("#test")
	require.NotNil(t, now)
	assert.Equal(t, "changed topic", now.Topic)
	assert.Len(t, now.Users, 2)
}

func TestSnapshotChannelLookupUsesCaseMapping(t *testing.T) {
	c, _ := registeredConnection(t, nil)
	joinChannel(c, "#Test[1]")

	snapshot := c.State()

	assert.NotNil(t, snapshot.Channel("#test{1}"))
	assert.Nil(t, snapshot.Channel("#other"))
}

func TestDefaultParsingState(t *testing.T) {
	parsing := defaultParsingState()

	assert.Equal(t, CaseMappingRFC1459, parsing.CaseMapping)
	assert.Equal(t, "#&", parsing.ChannelTypes)
	require.Len(t, parsing.UserPrefixes, 2)
	assert.Equal(t, UserPrefix{Prefix: '@', Mode: 'o'}, parsing.UserPrefixes[0])
	assert.Equal(t, UserPrefix{Prefix: '+', Mode: 'v'}, parsing.UserPrefixes[1])
}

func TestIsChannel(t *testing.T) {
	parsing := defaultParsingState()

	assert.True(t, parsing.isChannel("#test"))
	assert.True(t, parsing.isChannel("&local"))
	assert.False(t, parsing.isChannel("alice"))
	assert.False(t, parsing.isChannel(""))

	parsing.ChannelTypes = "#"
	assert.False(t, parsing.isChannel("&local"))
}

func TestLifecycleStrings(t *testing.T) {
	assert.Equal(t, "connecting", LifecycleConnecting.String())
	assert.Equal(t, "registering", LifecycleRegistering.String())
	assert.Equal(t, "connected", LifecycleConnected.String())
	assert.Equal(t, "disconnected", LifecycleDisconnected.String())
}
