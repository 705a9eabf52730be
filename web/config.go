// ABOUTME: Server configuration from SKETCHPAD_* environment variables with security validation.
// ABOUTME: Refuses non-loopback binds unless remote access is explicitly enabled with an auth token.
package web

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// DefaultBind is where the server listens when nothing else is configured.
const DefaultBind = "127.0.0.1:2399"

var (
	// ErrRemoteWithoutToken means remote access was requested without an
	// auth token to protect it.
	ErrRemoteWithoutToken = errors.New(
		"SKETCHPAD_ALLOW_REMOTE is enabled but SKETCHPAD_AUTH_TOKEN is not set; refusing to start without authentication")

	// ErrNonLoopbackBind means the bind address is reachable off-host but
	// remote access was never enabled.
	ErrNonLoopbackBind = errors.New(
		"bind address is not loopback; set SKETCHPAD_ALLOW_REMOTE=true and SKETCHPAD_AUTH_TOKEN to allow remote access")
)

// Config holds server configuration. Fields map one to one onto the
// SKETCHPAD_* environment variables and the serve flags.
type Config struct {
	Bind        string // SKETCHPAD_BIND
	DataDir     string // SKETCHPAD_DATA_DIR
	Backend     string // SKETCHPAD_STORE: "file" or "sqlite"
	AllowRemote bool   // SKETCHPAD_ALLOW_REMOTE
	AuthToken   string // SKETCHPAD_AUTH_TOKEN
}

// ConfigFromEnv reads SKETCHPAD_* environment variables into a Config.
// Defaults are applied and validated later, when the server starts, so
// flags can still override individual fields.
func ConfigFromEnv() Config {
	return Config{
		Bind:        os.Getenv("SKETCHPAD_BIND"),
		DataDir:     os.Getenv("SKETCHPAD_DATA_DIR"),
		Backend:     os.Getenv("SKETCHPAD_STORE"),
		AllowRemote: isTruthy(os.Getenv("SKETCHPAD_ALLOW_REMOTE")),
		AuthToken:   os.Getenv("SKETCHPAD_AUTH_TOKEN"),
	}
}

// Validate enforces the remote access rules: remote access requires a
// token, and without remote access the bind address must be loopback.
func (c Config) Validate() error {
	if c.AllowRemote && c.AuthToken == "" {
		return ErrRemoteWithoutToken
	}
	if !c.AllowRemote {
		if err := requireLoopback(c.Bind); err != nil {
			return err
		}
	}
	return nil
}

// requireLoopback rejects bind addresses that are reachable off-host.
// Only 127.0.0.0/8, ::1, and the literal "localhost" pass.
func requireLoopback(bind string) error {
	host, _, err := net.SplitHostPort(bind)
	if err != nil {
		return fmt.Errorf("invalid bind address %q: %w", bind, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNonLoopbackBind, bind)
}

func isTruthy(v string) bool {
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
