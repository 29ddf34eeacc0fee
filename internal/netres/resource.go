// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netres

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	defaultReadyTimeout = 5 * time.Second
	defaultStopTimeout  = 5 * time.Second

	// Maximum length of a network interface name (IFNAMSIZ - 1).
	maxIfNameLen = 15

	tapPrefix = "tap-"
	hashLen   = 4
)

// Spec describes the network resource of a session.
type Spec struct {
	Mode Mode

	// Name is the configuration identifier. The tap interface name is derived
	// from it, unless Interface is set.
	Name string

	// Bridge is the host bridge the tap interface is attached to.
	Bridge string

	// Interface overrides the derived tap interface name.
	Interface string

	// DaemonBinary is the userspace networking daemon executable.
	DaemonBinary string
}

// InterfaceName returns the tap interface name for the spec.
func (s Spec) InterfaceName() string {
	if s.Interface != "" {
		return s.Interface
	}

	return InterfaceName(s.Name)
}

// Resource is an acquired network resource.
type Resource interface {
	// Mode returns the network mode of the resource.
	Mode() Mode

	// Endpoint returns the tap interface name for [ModeTap], the daemon
	// socket path for [ModePasst] and an empty string for [ModeUser].
	Endpoint() string

	// Release frees all host objects of the resource. Only the first call
	// has an effect, further calls return the result of the first one.
	Release() error
}

// Manager acquires network resources.
//
// The zero value is ready to use and operates on the host network stack.
type Manager struct {
	// Links is used for link operations. If nil, a new netlink handle is
	// created for each acquisition.
	Links LinkOps

	// TempDir is the parent directory for daemon socket directories. If
	// empty, [os.TempDir] is used.
	TempDir string

	// ReadyTimeout bounds the wait for the daemon socket.
	ReadyTimeout time.Duration

	// StopTimeout bounds the wait for the daemon to terminate after it was
	// asked to.
	StopTimeout time.Duration

	Logger *slog.Logger
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}

	return slog.Default()
}

func (m *Manager) readyTimeout() time.Duration {
	if m.ReadyTimeout > 0 {
		return m.ReadyTimeout
	}

	return defaultReadyTimeout
}

func (m *Manager) stopTimeout() time.Duration {
	if m.StopTimeout > 0 {
		return m.StopTimeout
	}

	return defaultStopTimeout
}

// Acquire allocates the network resource described by spec.
//
// On error, everything acquired so far is released again before returning.
func (m *Manager) Acquire(ctx context.Context, spec Spec) (Resource, error) {
	logger := m.logger().With(slog.String("network", spec.Mode.String()))

	switch spec.Mode {
	case ModeUser:
		logger.Debug("Using built-in networking")
		return userResource{}, nil
	case ModeTap:
		return m.acquireTap(spec, logger)
	case ModePasst:
		return m.acquireDaemon(ctx, spec, logger)
	default:
		return nil, &SetupError{
			Mode:   spec.Mode,
			Object: "mode",
			Err:    ErrModeInvalid,
		}
	}
}

type userResource struct{}

func (userResource) Mode() Mode       { return ModeUser }
func (userResource) Endpoint() string { return "" }
func (userResource) Release() error   { return nil }

// InterfaceName derives a deterministic tap interface name from the given
// configuration identifier.
//
// The name is the identifier reduced to lower case alphanumerics and dashes
// with a "tap-" prefix. If the reduction lost information or the name does not
// fit into an interface name, it is shortened and a hash of the full
// identifier is appended.
func InterfaceName(name string) string {
	sanitized := sanitizeName(name)

	candidate := tapPrefix + sanitized
	if sanitized == name && len(candidate) <= maxIfNameLen {
		return candidate
	}

	sum := sha1.Sum([]byte(name))
	suffix := hex.EncodeToString(sum[:])[:hashLen]

	// Leave room for the dash and the hash.
	maxBase := maxIfNameLen - len(tapPrefix) - hashLen - 1
	if len(sanitized) > maxBase {
		sanitized = strings.TrimRight(sanitized[:maxBase], "-")
	}

	if sanitized == "" {
		return tapPrefix + suffix
	}

	return tapPrefix + sanitized + "-" + suffix
}

func sanitizeName(name string) string {
	var b strings.Builder

	lastDash := true

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)

			lastDash = false
		case !lastDash:
			b.WriteRune('-')

			lastDash = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// DeriveMAC returns a stable, locally administered unicast hardware address
// for the given configuration identifier.
func DeriveMAC(name string) string {
	sum := sha1.Sum([]byte(name))
	mac := []byte{0x52, 0x54, 0x00, sum[0], sum[1], sum[2]}
	// Set the locally administered bit and ensure unicast.
	mac[0] = (mac[0] | 0x02) & 0xfe

	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}
