// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

// LineSource produces raw inbound lines. ReadLine blocks until a line is
// available and returns false once the source is exhausted or torn down.
type LineSource interface {
	ReadLine() (string, bool)
}

// MessageSink consumes outbound messages.
type MessageSink interface {
	Write(m *Message) error
	WriteRaw(raw string) error
}

// Transport is the engine's view of the wire. The engine owns its
// lifecycle: SetUp before the handshake, TearDown when the run ends.
type Transport interface {
	LineSource
	MessageSink

	SetUp() error
	TearDown()
}

// ErrProxy is returned when the proxy configuration can't be used.
type ErrProxy struct {
	Bind string
	Err  error
}

func (e ErrProxy) Error() string { return fmt.Sprintf("proxy error: %s: %s", e.Bind, e.Err) }
func (e ErrProxy) Unwrap() error { return e.Err }

// socketTransport is the TCP transport, with optional TLS, a local bind
// address, and proxy support.
type socketTransport struct {
	conf *Config
	log  *logger

	sock net.Conn
	io   *bufio.Reader

	mu sync.Mutex // Guards writes to sock.

	teardown sync.Once
}

func newSocketTransport(conf *Config, log *logger) *socketTransport {
	return &socketTransport{conf: conf, log: log}
}

func (t *socketTransport) SetUp() error {
	addr := net.JoinHostPort(t.conf.Server, strconv.Itoa(t.conf.Port))

	dialer := &net.Dialer{Timeout: 5 * time.Second}

	if t.conf.Bind != "" {
		local, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(t.conf.Bind, "0"))
		if err != nil {
			return fmt.Errorf("unable to resolve bind address %s: %w", t.conf.Bind, err)
		}

		dialer.LocalAddr = local
	}

	var conn net.Conn
	var err error

	if t.conf.Proxy != "" {
		var proxyURI *url.URL
		var proxyDialer proxy.Dialer

		if proxyURI, err = url.Parse(t.conf.Proxy); err != nil {
			return ErrProxy{Bind: t.conf.Proxy, Err: err}
		}

		if proxyDialer, err = proxy.FromURL(proxyURI, dialer); err != nil {
			return ErrProxy{Bind: t.conf.Proxy, Err: err}
		}

		if conn, err = proxyDialer.Dial("tcp", addr); err != nil {
			return ErrProxy{Bind: t.conf.Proxy, Err: err}
		}
	} else {
		if conn, err = dialer.Dial("tcp", addr); err != nil {
			return fmt.Errorf("unable to connect to %s: %w", addr, err)
		}
	}

	if t.conf.SSL {
		var tlsConf *tls.Config
		if t.conf.TLSConfig == nil {
			tlsConf = &tls.Config{ServerName: t.conf.Server}
		} else {
			tlsConf = t.conf.TLSConfig.Clone()
		}

		tlsConn := tls.Client(conn, tlsConf)
		if err = tlsConn.Handshake(); err != nil {
			conn.Close()
			return fmt.Errorf("tls handshake with %s failed: %w", addr, err)
		}

		conn = tlsConn
	}

	t.sock = conn
	t.io = bufio.NewReader(conn)

	t.log.debug.Printf("connected to %s", addr)
	return nil
}

func (t *socketTransport) ReadLine() (string, bool) {
	line, err := t.io.ReadString('\n')
	if err != nil {
		if len(line) == 0 {
			return "", false
		}
	}

	return strings.TrimRight(line, "\r\n"), true
}

func (t *socketTransport) Write(m *Message) error {
	return t.WriteRaw(m.String())
}

func (t *socketTransport) WriteRaw(raw string) error {
	raw = strings.TrimRight(raw, "\r\n")

	if len(raw) > maxLength {
		return fmt.Errorf("refusing to write oversized line (%d > %d)", len(raw), maxLength)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.log.trace.Printf("> %s", raw)

	_, err := fmt.Fprintf(t.sock, "%s\r\n", raw)
	return err
}

func (t *socketTransport) TearDown() {
	t.teardown.Do(func() {
		if t.sock != nil {
			t.sock.Close()
		}
	})
}
