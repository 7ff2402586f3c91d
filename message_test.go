// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *Message
	}{
		{
			name: "command only",
			in:   "AWAY",
			want: &Message{Command: "AWAY"},
		},
		{
			name: "lowercase command is normalised",
			in:   "ping irc.example.com",
			want: &Message{Command: "PING", Params: []string{"irc.example.com"}},
		},
		{
			name: "params and trailing",
			in:   ":nick!user@host PRIVMSG #chan :hello there",
			want: &Message{
				Source:   &Source{Name: "nick", User: "user", Host: "host"},
				Command:  "PRIVMSG",
				Params:   []string{"#chan"},
				Trailing: "hello there",
			},
		},
		{
			name: "trailing with colon inside",
			in:   ":nick!user@host PRIVMSG #chan :hello :) there",
			want: &Message{
				Source:   &Source{Name: "nick", User: "user", Host: "host"},
				Command:  "PRIVMSG",
				Params:   []string{"#chan"},
				Trailing: "hello :) there",
			},
		},
		{
			name: "empty trailing",
			in:   ":nick!user@host AWAY :",
			want: &Message{
				Source:        &Source{Name: "nick", User: "user", Host: "host"},
				Command:       "AWAY",
				Trailing:      "",
				EmptyTrailing: true,
			},
		},
		{
			name: "server source",
			in:   ":irc.example.com 001 tester :Welcome",
			want: &Message{
				Source:   &Source{Name: "irc.example.com"},
				Command:  "001",
				Params:   []string{"tester"},
				Trailing: "Welcome",
			},
		},
		{
			name: "no trailing",
			in:   "MODE #chan +o nick",
			want: &Message{Command: "MODE", Params: []string{"#chan", "+o", "nick"}},
		},
		{
			name: "line endings are stripped",
			in:   "PING :token\r\n",
			want: &Message{Command: "PING", Trailing: "token"},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMessage(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMessageInvalid(t *testing.T) {
	for _, in := range []string{"", "\r\n", ": PING"} {
		assert.Nil(t, ParseMessage(in), "input: %q", in)
	}
}

func TestMessageString(t *testing.T) {
	cases := []struct {
		m    *Message
		want string
	}{
		{
			m:    &Message{Command: "PING", Params: []string{"token"}},
			want: "PING token",
		},
		{
			m: &Message{
				Source:   &Source{Name: "nick", User: "user", Host: "host"},
				Command:  "PRIVMSG",
				Params:   []string{"#chan"},
				Trailing: "hello there",
			},
			want: ":nick!user@host PRIVMSG #chan :hello there",
		},
		{
			m:    &Message{Command: "AWAY", EmptyTrailing: true},
			want: "AWAY :",
		},
		{
			// Injection characters never survive into the encoded
			// form.
			m:    &Message{Command: "PRIVMSG", Params: []string{"#chan"}, Trailing: "sneaky\r\nQUIT"},
			want: "PRIVMSG #chan :sneakyQUIT",
		},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.want, tt.m.String())
	}
}

func TestMessageRoundTrip(t *testing.T) {
	for _, raw := range []string{
		":nick!user@host PRIVMSG #chan :hello there",
		"PING :token",
		"MODE #chan +o nick",
		":irc.example.com 005 tester PREFIX=(ov)@+ :are supported by this server",
	} {
		m := ParseMessage(raw)
		require.NotNil(t, m, "input: %q", raw)
		assert.Equal(t, raw, m.String())
	}
}

func TestMessageLast(t *testing.T) {
	assert.Equal(t, "hello", ParseMessage("PRIVMSG #chan :hello").Last())
	assert.Equal(t, "nick", ParseMessage("MODE #chan +o nick").Last())
	assert.Equal(t, "", ParseMessage("AWAY").Last())
}

func TestMessageParamAccess(t *testing.T) {
	m := ParseMessage(":irc CAP tester LS * :multi-prefix sasl")

	assert.Equal(t, 4, m.paramCount())
	assert.Equal(t, "tester", m.param(0))
	assert.Equal(t, "LS", m.param(1))
	assert.Equal(t, "*", m.param(2))
	assert.Equal(t, "multi-prefix sasl", m.param(3))
	assert.Equal(t, "", m.param(4))
}

func TestMessageCopy(t *testing.T) {
	m := ParseMessage(":nick!user@host PRIVMSG #chan :hello")
	dup := m.Copy()

	require.Equal(t, m, dup)

	dup.Params[0] = "#other"
	dup.Source.Name = "other"

	assert.Equal(t, "#chan", m.Params[0])
	assert.Equal(t, "nick", m.Source.Name)
}
