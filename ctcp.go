// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import "strings"

// ctcpDelim is the delimiter wrapping client-to-client protocol payloads
// inside PRIVMSG and NOTICE text.
const ctcpDelim byte = 0x01

// ctcpMessage is a decoded CTCP payload.
type ctcpMessage struct {
	Command string // Command (e.g. ACTION, VERSION).
	Text    string // Text is the raw arguments following the command.
}

// decodeCTCP decodes an incoming message text, if it is a CTCP payload.
// Returns nil when the text is plain.
func decodeCTCP(text string) *ctcpMessage {
	if len(text) < 2 {
		return nil
	}

	if text[0] != ctcpDelim {
		return nil
	}

	// The closing delimiter is optional in the wild; strip it when
	// present.
	if text[len(text)-1] == ctcpDelim {
		text = text[1 : len(text)-1]
	} else {
		text = text[1:]
	}

	if len(text) == 0 {
		return nil
	}

	s := strings.IndexByte(text, eventSpace)
	if s == -1 {
		return &ctcpMessage{Command: strings.ToUpper(text)}
	}

	return &ctcpMessage{
		Command: strings.ToUpper(text[:s]),
		Text:    text[s+1:],
	}
}

// encodeCTCP wraps a command and its arguments in CTCP delimiters.
func encodeCTCP(command, text string) string {
	out := string(ctcpDelim) + command
	if len(text) > 0 {
		out += string(eventSpace) + text
	}

	return out + string(ctcpDelim)
}
