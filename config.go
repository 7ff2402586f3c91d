// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from strings like "30s" in
// config files.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// SASLConfig enables SASL PLAIN authentication during registration.
type SASLConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Account  string `yaml:"account" toml:"account"`
	Password string `yaml:"password" toml:"password"`
}

// NickServConfig enables the services fallback: a PRIVMSG identify after
// registration, plus an optional wait before joining channels so services
// can restore vhosts and invite exemptions first.
type NickServConfig struct {
	Enabled         bool     `yaml:"enabled" toml:"enabled"`
	Account         string   `yaml:"account" toml:"account"`
	Password        string   `yaml:"password" toml:"password"`
	ChannelJoinWait Duration `yaml:"channel_join_wait" toml:"channel_join_wait"`
}

// ChannelConfig is a channel to join once registered.
type ChannelConfig struct {
	Name string `yaml:"name" toml:"name"`
	Key  string `yaml:"key,omitempty" toml:"key,omitempty"`
}

// Config contains the connection settings for a single server.
type Config struct {
	// Server is the hostname or address to connect to.
	Server string `yaml:"server" toml:"server"`
	// Port is the port to connect on.
	Port int `yaml:"port" toml:"port"`
	// ServerPass is the PASS sent before registration, if any.
	ServerPass string `yaml:"server_pass,omitempty" toml:"server_pass,omitempty"`

	// Nick is the nickname to register with.
	Nick string `yaml:"nick" toml:"nick"`
	// User is the username/ident. Defaults to Nick when empty.
	User string `yaml:"user,omitempty" toml:"user,omitempty"`
	// Name is the realname field of USER. Defaults to Nick when empty.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`

	// Bind is an optional local address to bind the dialer to.
	Bind string `yaml:"bind,omitempty" toml:"bind,omitempty"`
	// Proxy is a proxy URL (e.g. socks5://127.0.0.1:8080) to dial
	// through.
	Proxy string `yaml:"proxy,omitempty" toml:"proxy,omitempty"`
	// SSL enables TLS for the connection.
	SSL bool `yaml:"ssl" toml:"ssl"`
	// TLSConfig is an optional TLS configuration, used when SSL is
	// enabled.
	TLSConfig *tls.Config `yaml:"-" toml:"-"`

	SASL     SASLConfig     `yaml:"sasl" toml:"sasl"`
	NickServ NickServConfig `yaml:"nickserv" toml:"nickserv"`

	// Caps are extra capabilities to request beyond the ones the engine
	// needs for itself.
	Caps []string `yaml:"caps,omitempty" toml:"caps,omitempty"`

	// Channels are joined once registration completes.
	Channels []ChannelConfig `yaml:"channels,omitempty" toml:"channels,omitempty"`

	// PingDelay is how long the server may stay silent before the
	// keepalive sends a PING. Zero means the 30s default.
	PingDelay Duration `yaml:"ping_delay,omitempty" toml:"ping_delay,omitempty"`

	// SendDelay is the minimum spacing between outgoing messages. Zero
	// means the 1s default; negative disables rate limiting.
	SendDelay Duration `yaml:"send_delay,omitempty" toml:"send_delay,omitempty"`
	// SendBurst is how many messages may go out back to back before the
	// limiter kicks in. Zero means the default of 4.
	SendBurst int `yaml:"send_burst,omitempty" toml:"send_burst,omitempty"`

	// Debug is an optional writer for protocol-level logging.
	Debug io.Writer `yaml:"-" toml:"-"`
}

// ErrInvalidConfig is returned when the configuration is missing required
// fields or holds values the engine can't use.
type ErrInvalidConfig struct {
	Conf Config
	err  error
}

func (e ErrInvalidConfig) Error() string { return "invalid configuration: " + e.err.Error() }
func (e ErrInvalidConfig) Unwrap() error { return e.err }

func (conf *Config) validate() error {
	if conf.Server == "" {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("empty server")}
	}

	if conf.Port == 0 {
		conf.Port = 6667
	}
	if conf.Port < 21 || conf.Port > 65535 {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("port outside valid range (21-65535)")}
	}

	if !IsValidNick(conf.Nick) {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("bad nickname specified")}
	}

	if conf.User == "" {
		conf.User = conf.Nick
	}
	if !IsValidUser(conf.User) {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("bad user/ident specified")}
	}

	if conf.Name == "" {
		conf.Name = conf.Nick
	}

	if conf.SASL.Enabled && (conf.SASL.Account == "" || conf.SASL.Password == "") {
		return &ErrInvalidConfig{Conf: *conf, err: errors.New("sasl enabled without credentials")}
	}

	return nil
}

// LoadConfig reads a configuration file, decoding by extension. YAML
// (.yml/.yaml) and TOML (.toml) are supported.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	conf := new(Config)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, conf)
	case ".toml":
		err = toml.Unmarshal(data, conf)
	default:
		err = fmt.Errorf("unsupported config extension: %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if err = conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
