// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"bytes"
	"strings"
)

const (
	eventSpace byte = ' ' // Separator.
	maxLength       = 510 // Maximum length is 510 (2 for line endings).

	prefix     byte = ':' // Prefix or last argument.
	prefixUser byte = '!' // Username.
	prefixHost byte = '@' // Hostname.
)

// Message represents a single IRC protocol line, split into its prefix,
// command, and parameters. The last parameter is tracked separately so a
// trailing marker survives a round trip through String.
type Message struct {
	// Source is the origin of the message.
	Source *Source
	// Command that is being executed (e.g. PRIVMSG, 005, etc).
	Command string
	// Params (parameters/args) to the command.
	Params []string
	// Trailing is the last parameter, which may contain spaces.
	Trailing string
	// EmptyTrailing, if true, the text prefix (":") will be added even if
	// Trailing is empty.
	EmptyTrailing bool
}

// ParseMessage takes a string and attempts to create a Message struct. It
// returns nil if the line is empty or otherwise not parseable.
func ParseMessage(raw string) (m *Message) {
	// Ignore empty messages.
	if raw = strings.TrimRight(raw, "\r\n"); len(raw) < 2 {
		return nil
	}

	i, j := 0, 0

	m = new(Message)

	if raw[0] == prefix {
		// Prefix ends with a space.
		i = strings.IndexByte(raw, eventSpace)

		// Prefix string must not be empty if the indicator is present.
		if i < 2 {
			return nil
		}

		m.Source = ParseSource(raw[1:i])

		i++ // Skip space at the end of the prefix.
	}

	// Find end of command.
	j = i + strings.IndexByte(raw[i:], eventSpace)

	if j < i {
		// If there are no proceeding spaces, it's the only thing
		// specified.
		m.Command = strings.ToUpper(raw[i:])
		return m
	}

	m.Command = strings.ToUpper(raw[i:j])
	j++ // Skip space after command.

	// Find the prefix for the trailing text.
	i = strings.IndexByte(raw[j:], prefix)

	if i < 0 || raw[j+i-1] != eventSpace {
		// No trailing argument.
		m.Params = strings.Split(raw[j:], string(eventSpace))
		return m
	}

	// Compensate for the index being on a substring.
	i += j

	if i > j {
		m.Params = strings.Split(raw[j:i-1], string(eventSpace))
	}

	m.Trailing = raw[i+1:]

	// We need to re-encode the trailing argument even if it was empty.
	if len(m.Trailing) <= 0 {
		m.EmptyTrailing = true
	}

	return m
}

// Copy makes a deep copy of a given message.
func (m *Message) Copy() *Message {
	if m == nil {
		return nil
	}

	newMessage := &Message{
		Command:       m.Command,
		Trailing:      m.Trailing,
		EmptyTrailing: m.EmptyTrailing,
	}

	if m.Source != nil {
		src := *m.Source
		newMessage.Source = &src
	}

	if len(m.Params) > 0 {
		newMessage.Params = make([]string, len(m.Params))
		copy(newMessage.Params, m.Params)
	}

	return newMessage
}

// Len calculates the length of the string representation of the message,
// not including the line endings.
func (m *Message) Len() (length int) {
	if m.Source != nil {
		length += m.Source.Len() + 2 // Include prefix and trailing space.
	}

	length += len(m.Command)

	if len(m.Params) > 0 {
		length += len(m.Params)

		for i := 0; i < len(m.Params); i++ {
			length += len(m.Params[i])
		}
	}

	if len(m.Trailing) > 0 || m.EmptyTrailing {
		length += len(m.Trailing) + 2 // Include prefix and space.
	}

	return
}

// Bytes returns a []byte representation of the message, without line
// endings. Strips appropriate characters from the message, to prevent
// injection.
func (m *Message) Bytes() []byte {
	buffer := new(bytes.Buffer)

	// Strip newlines and carriage returns.
	cutset := func(in string) string {
		return strings.Map(func(r rune) rune {
			if r == '\r' || r == '\n' {
				return -1
			}
			return r
		}, in)
	}

	// Source.
	if m.Source != nil {
		buffer.WriteByte(prefix)
		m.Source.writeTo(buffer)
		buffer.WriteByte(eventSpace)
	}

	// Command.
	buffer.WriteString(m.Command)

	// Params.
	for i := 0; i < len(m.Params); i++ {
		buffer.WriteByte(eventSpace)
		buffer.WriteString(cutset(m.Params[i]))
	}

	// Trailing.
	if len(m.Trailing) > 0 || m.EmptyTrailing {
		buffer.WriteByte(eventSpace)
		buffer.WriteByte(prefix)
		buffer.WriteString(cutset(m.Trailing))
	}

	// We need the limit the buffer length.
	if buffer.Len() > maxLength {
		buffer.Truncate(maxLength)
	}

	return buffer.Bytes()
}

// String returns a string representation of this message, without line
// endings.
func (m *Message) String() string {
	return string(m.Bytes())
}

// Last returns the last parameter of the message. For most messages this is
// the trailing text.
func (m *Message) Last() string {
	if len(m.Trailing) > 0 || m.EmptyTrailing {
		return m.Trailing
	}

	if len(m.Params) > 0 {
		return m.Params[len(m.Params)-1]
	}

	return ""
}

// param returns the parameter at index i, counting the trailing text as the
// final parameter. The empty string is returned when out of range.
func (m *Message) param(i int) string {
	if i < len(m.Params) {
		return m.Params[i]
	}

	if i == len(m.Params) && (len(m.Trailing) > 0 || m.EmptyTrailing) {
		return m.Trailing
	}

	return ""
}

// paramCount returns the number of parameters, counting the trailing text.
func (m *Message) paramCount() int {
	count := len(m.Params)
	if len(m.Trailing) > 0 || m.EmptyTrailing {
		count++
	}

	return count
}
