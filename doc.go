// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

// Package warren is an IRC client engine. It owns the connection
// lifecycle (registration, capability negotiation, SASL, keepalive),
// tracks channel and user state under the server's case mapping rules,
// and fans protocol traffic out as typed events.
//
// All protocol handling runs on a single event loop, so event handlers
// always observe consistent state. State snapshots returned by
// Connection.State are immutable and safe to hold anywhere.
package warren
