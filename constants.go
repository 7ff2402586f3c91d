// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

// Standard IRC commands handled or sent by the engine.
const (
	ACCOUNT      = "ACCOUNT"
	AUTHENTICATE = "AUTHENTICATE"
	AWAY         = "AWAY"
	CAP          = "CAP"
	CHGHOST      = "CHGHOST"
	JOIN         = "JOIN"
	KICK         = "KICK"
	MODE         = "MODE"
	NICK         = "NICK"
	NOTICE       = "NOTICE"
	PART         = "PART"
	PASS         = "PASS"
	PING         = "PING"
	PONG         = "PONG"
	PRIVMSG      = "PRIVMSG"
	QUIT         = "QUIT"
	TOPIC        = "TOPIC"
	USER         = "USER"
)

// CAP subcommands.
const (
	CAP_ACK = "ACK"
	CAP_DEL = "DEL"
	CAP_END = "END"
	CAP_LS  = "LS"
	CAP_NAK = "NAK"
	CAP_NEW = "NEW"
	CAP_REQ = "REQ"
)

// Numeric replies tracked by the engine.
const (
	RPL_WELCOME    = "001"
	RPL_YOURHOST   = "002"
	RPL_CREATED    = "003"
	RPL_MYINFO     = "004"
	RPL_ISUPPORT   = "005"
	RPL_TOPIC      = "332"
	RPL_NAMREPLY   = "353"
	RPL_ENDOFNAMES = "366"
	RPL_MOTD       = "372"
	RPL_MOTDSTART  = "375"
	RPL_ENDOFMOTD  = "376"
	ERR_NOMOTD     = "422"

	ERR_NICKNAMEINUSE = "433"

	ERR_CHANNELISFULL  = "471"
	ERR_INVITEONLYCHAN = "473"
	ERR_BANNEDFROMCHAN = "474"
	ERR_BADCHANNELKEY  = "475"

	RPL_LOGGEDIN    = "900"
	RPL_SASLSUCCESS = "903"
	ERR_SASLFAIL    = "904"
	ERR_SASLTOOLONG = "905"
	ERR_SASLABORTED = "906"
)

// ISUPPORT tokens the parser reacts to. Unknown tokens are ignored.
const (
	isupportPrefix      = "PREFIX"
	isupportChanModes   = "CHANMODES"
	isupportChanTypes   = "CHANTYPES"
	isupportCaseMapping = "CASEMAPPING"
)

// Defaults used until the server advertises otherwise via ISUPPORT.
const (
	// DefaultPrefixes is the assumed PREFIX value: op and voice only.
	DefaultPrefixes = "(ov)@+"
	// DefaultChanModes is the assumed CHANMODES value.
	DefaultChanModes = "beI,k,l,imnpst"
	// DefaultChanTypes is the assumed CHANTYPES value.
	DefaultChanTypes = "#&"
)

// SASL mechanism sent on capability acknowledgement. PLAIN is the only
// mechanism the engine speaks.
const saslMechanismPlain = "PLAIN"

// CTCP verbs the engine recognises; everything else is dropped.
const ctcpAction = "ACTION"
