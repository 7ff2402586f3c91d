// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"bytes"
	"strings"
)

// Source represents the sender of an IRC message, see RFC1459 section 2.3.1
// <servername> | <nick> [ '!' <user> ] [ '@' <host> ]
type Source struct {
	Name string // Nick or servername
	User string // Username
	Host string // Hostname
}

// ParseSource takes a raw prefix string and attempts to create a Source.
func ParseSource(raw string) (src *Source) {
	src = new(Source)

	user := strings.IndexByte(raw, prefixUser)
	host := strings.IndexByte(raw, prefixHost)

	switch {
	case user > 0 && host > user:
		src.Name = raw[:user]
		src.User = raw[user+1 : host]
		src.Host = raw[host+1:]
	case user > 0:
		src.Name = raw[:user]
		src.User = raw[user+1:]
	case host > 0:
		src.Name = raw[:host]
		src.Host = raw[host+1:]
	default:
		src.Name = raw
	}

	return src
}

// Len calculates the length of the string representation of the source.
func (s *Source) Len() (length int) {
	length = len(s.Name)
	if len(s.User) > 0 {
		length = 1 + length + len(s.User)
	}
	if len(s.Host) > 0 {
		length = 1 + length + len(s.Host)
	}

	return
}

// String returns a string representation of the source.
func (s *Source) String() (out string) {
	out = s.Name
	if len(s.User) > 0 {
		out = out + string(prefixUser) + s.User
	}
	if len(s.Host) > 0 {
		out = out + string(prefixHost) + s.Host
	}

	return
}

// IsHostmask returns true if the source looks like a user hostmask.
func (s *Source) IsHostmask() bool {
	return len(s.User) > 0 && len(s.Host) > 0
}

// IsServer returns true if the source looks like a server name.
func (s *Source) IsServer() bool {
	return len(s.User) <= 0 && len(s.Host) <= 0
}

// writeTo is a utility function to write the source to a bytes.Buffer.
func (s *Source) writeTo(buffer *bytes.Buffer) {
	buffer.WriteString(s.Name)
	if len(s.User) > 0 {
		buffer.WriteByte(prefixUser)
		buffer.WriteString(s.User)
	}
	if len(s.Host) > 0 {
		buffer.WriteByte(prefixHost)
		buffer.WriteString(s.Host)
	}
}

// IsValidChannel checks if channel is an RFC compliant channel or not.
//
// channel      =  ( "#" / "+" / ( "!" channelid ) / "&" ) chanstring
//   chanstring =  any octet except NUL, BELL, CR, LF, " ", "," and ":"
func IsValidChannel(channel string) bool {
	if len(channel) <= 1 || len(channel) > 50 {
		return false
	}

	// #, +, !<channelid>, or &. "*" is included as it's commonly used by
	// bouncers.
	if bytes.IndexByte([]byte{0x21, 0x23, 0x26, 0x2A, 0x2B}, channel[0]) == -1 {
		return false
	}

	// !<channelid> -- the ID must be 5 chars, A-Z / 0-9.
	if channel[0] == 0x21 {
		if len(channel) < 7 {
			return false
		}

		for i := 1; i < 6; i++ {
			if (channel[i] < 0x30 || channel[i] > 0x39) && (channel[i] < 0x41 || channel[i] > 0x5A) {
				return false
			}
		}
	}

	bad := []byte{0x00, 0x07, 0x0D, 0x0A, 0x20, 0x2C, 0x3A}
	for i := 1; i < len(channel); i++ {
		if bytes.IndexByte(bad, channel[i]) != -1 {
			return false
		}
	}

	return true
}

// IsValidNick validates an IRC nickname. Note that this does not validate
// IRC nickname length.
//
// nickname   =  ( letter / special ) *( letter / digit / special / "-" )
func IsValidNick(nick string) bool {
	if len(nick) <= 0 {
		return false
	}

	// Some characters aren't allowed for the first index of a nickname.
	if nick[0] < 0x41 || nick[0] > 0x7D {
		// a-z, A-Z, and _\[]{}^|
		return false
	}

	for i := 1; i < len(nick); i++ {
		if (nick[i] < 0x41 || nick[i] > 0x7D) && (nick[i] < 0x30 || nick[i] > 0x39) && nick[i] != 0x2D {
			// a-z, A-Z, 0-9, -, and _\[]{}^|
			return false
		}
	}

	return true
}

// IsValidUser validates an IRC user/ident.
func IsValidUser(user string) bool {
	if len(user) <= 0 {
		return false
	}

	// "~" is prepended by some identd servers, and is valid as a first
	// character.
	if user[0] == 0x7E {
		if len(user) < 2 {
			return false
		}

		user = user[1:]
	}

	if (user[0] < 0x41 || user[0] > 0x7D) && (user[0] < 0x30 || user[0] > 0x39) {
		return false
	}

	for i := 1; i < len(user); i++ {
		if (user[i] < 0x41 || user[i] > 0x7D) && (user[i] < 0x30 || user[i] > 0x39) && user[i] != 0x2D {
			return false
		}
	}

	return true
}
