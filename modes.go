// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import "strings"

// ModeModifier is a single mode change, e.g. "+o nick" or "-s".
type ModeModifier struct {
	Add   bool
	Mode  byte
	Param string
}

// String returns the mode change in the form it appears on the wire,
// without the parameter.
func (m ModeModifier) String() string {
	if m.Add {
		return "+" + string(m.Mode)
	}

	return "-" + string(m.Mode)
}

// UserPrefix is a status prefix advertised via ISUPPORT PREFIX, pairing a
// channel membership mode with the sigil shown in NAMES replies.
type UserPrefix struct {
	Prefix byte // Sigil, e.g. '@'.
	Mode   byte // Mode letter, e.g. 'o'.
}

// ChannelModes is the four CHANMODES categories. Category A modes take a
// parameter both ways, B always, C only when set, D never.
type ChannelModes struct {
	TypeA string
	TypeB string
	TypeC string
	TypeD string
}

// parsePrefixTokens parses an ISUPPORT PREFIX value like "(ov)@+". An
// invalid or lopsided value returns nil and the caller keeps its previous
// prefixes.
func parsePrefixTokens(raw string) []UserPrefix {
	if len(raw) < 2 || raw[0] != '(' {
		return nil
	}

	closer := strings.IndexByte(raw, ')')
	if closer == -1 {
		return nil
	}

	modes := raw[1:closer]
	sigils := raw[closer+1:]

	if len(modes) != len(sigils) {
		return nil
	}

	prefixes := make([]UserPrefix, 0, len(modes))
	for i := 0; i < len(modes); i++ {
		prefixes = append(prefixes, UserPrefix{Prefix: sigils[i], Mode: modes[i]})
	}

	return prefixes
}

// parseChanModesToken parses an ISUPPORT CHANMODES value like
// "beI,k,l,imnpst". Extra categories beyond the fourth are ignored, which
// is what the ISUPPORT draft says clients should do.
func parseChanModesToken(raw string) (ChannelModes, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) < 4 {
		return ChannelModes{}, false
	}

	return ChannelModes{
		TypeA: parts[0],
		TypeB: parts[1],
		TypeC: parts[2],
		TypeD: parts[3],
	}, true
}

// takesParameter reports whether a channel mode consumes a parameter for
// the given direction, per the CHANMODES categories and the prefix modes
// (which always take a nickname).
func (p *ParsingState) takesParameter(add bool, mode byte) bool {
	for i := 0; i < len(p.UserPrefixes); i++ {
		if p.UserPrefixes[i].Mode == mode {
			return true
		}
	}

	if strings.IndexByte(p.ChannelModes.TypeA, mode) != -1 {
		return true
	}

	if strings.IndexByte(p.ChannelModes.TypeB, mode) != -1 {
		return true
	}

	if strings.IndexByte(p.ChannelModes.TypeC, mode) != -1 {
		return add
	}

	return false
}

// parseModeChanges splits a MODE parameter list into individual modifiers,
// assigning parameters to the modes that consume them. A flag sequence
// without a leading + or - is treated as adding.
func (p *ParsingState) parseModeChanges(params []string) []ModeModifier {
	var out []ModeModifier

	add := true
	next := 0 // Index of the next unconsumed parameter.

	var flagTokens []string
	var paramTokens []string

	// MODE interleaves flag words and parameter words; split them first
	// so parameters line up with the modes that take them.
	for _, param := range params {
		if len(param) > 0 && (param[0] == '+' || param[0] == '-') {
			flagTokens = append(flagTokens, param)
		} else {
			paramTokens = append(paramTokens, param)
		}
	}

	for _, token := range flagTokens {
		for i := 0; i < len(token); i++ {
			switch token[i] {
			case '+':
				add = true
			case '-':
				add = false
			default:
				mod := ModeModifier{Add: add, Mode: token[i]}

				if p.takesParameter(add, token[i]) && next < len(paramTokens) {
					mod.Param = paramTokens[next]
					next++
				}

				out = append(out, mod)
			}
		}
	}

	return out
}
