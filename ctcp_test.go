// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCTCP(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *ctcpMessage
	}{
		{"plain text", "hello there", nil},
		{"empty", "", nil},
		{"empty payload", "\x01\x01", nil},
		{"action", "\x01ACTION waves\x01", &ctcpMessage{Command: "ACTION", Text: "waves"}},
		{"lowercase verb is normalised", "\x01action waves\x01", &ctcpMessage{Command: "ACTION", Text: "waves"}},
		{"no arguments", "\x01VERSION\x01", &ctcpMessage{Command: "VERSION"}},
		{"missing closing delimiter", "\x01ACTION waves", &ctcpMessage{Command: "ACTION", Text: "waves"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeCTCP(tt.in))
		})
	}
}

func TestEncodeCTCP(t *testing.T) {
	assert.Equal(t, "\x01ACTION waves\x01", encodeCTCP("ACTION", "waves"))
	assert.Equal(t, "\x01VERSION\x01", encodeCTCP("VERSION", ""))
}

func TestCTCPRoundTrip(t *testing.T) {
	decoded := decodeCTCP(encodeCTCP(ctcpAction, "does a thing"))

	require.NotNil(t, decoded)
	assert.Equal(t, "ACTION", decoded.Command)
	assert.Equal(t, "does a thing", decoded.Text)
}
