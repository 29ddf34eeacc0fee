// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"net"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	"github.com/aibor/emulaunch/internal/arch"
	"github.com/aibor/emulaunch/internal/netres"
)

// Configuration keys.
const (
	KeyArch         = "ARCH"
	KeyName         = "CONFIG_NAME"
	KeyMachine      = "MACHINE"
	KeyRAM          = "RAM"
	KeyCPU          = "CPU_MODEL"
	KeyROM          = "ROM_PATH"
	KeyDisk         = "HDD_PATH"
	KeyDiskSize     = "HDD_SIZE"
	KeyShared       = "SHARED_PATH"
	KeySharedSize   = "SHARED_SIZE"
	KeyPRAM         = "PRAM_PATH"
	KeyExtraSize    = "EXTRA_SIZE"
	KeyGraphics     = "GRAPHICS"
	KeyCacheMode    = "CACHE_MODE"
	KeyAIOMode      = "AIO_MODE"
	KeyTCGThread    = "TCG_THREAD"
	KeyTBSize       = "TB_SIZE"
	KeyNetworkType  = "NETWORK_TYPE"
	KeyBridge       = "BRIDGE_NAME"
	KeyTap          = "TAP_NAME"
	KeyMAC          = "MAC_ADDRESS"
	KeyNICModel     = "NIC_MODEL"
	KeyDaemonBinary = "DAEMON_BINARY"
)

// Field describes a single key of the configuration schema.
type Field struct {
	Key         string
	Description string

	// Architectures the field is required for. It is optional for all others.
	RequiredFor []arch.Arch

	// Default returns the value used if the key is absent. Nil means no
	// default.
	Default func(arch.Arch) string

	// Allowed is the closed set of valid values. Empty means any value.
	Allowed []string

	// Check validates the format of a non-empty value.
	Check func(string) error

	// NonEmpty marks optional fields that must not be empty if present.
	NonEmpty bool

	// Path marks fields holding file paths. They are resolved relative to the
	// directory of the configuration unit.
	Path bool

	// MustExist marks path fields that must name an existing, readable file.
	MustExist bool
}

// IsRequired reports whether the field is required for the architecture.
func (f *Field) IsRequired(a arch.Arch) bool {
	return slices.Contains(f.RequiredFor, a)
}

func (f *Field) validate(value string) error {
	if len(f.Allowed) > 0 && !slices.Contains(f.Allowed, value) {
		return fmt.Errorf("%w: allowed: %s", ErrInvalidValue,
			strings.Join(f.Allowed, ", "))
	}

	if f.Check != nil {
		err := f.Check(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	}

	return nil
}

func fixed(value string) func(arch.Arch) string {
	return func(arch.Arch) string { return value }
}

var (
	allArchs = arch.Supported()

	graphicsPattern = regexp.MustCompile(`^[0-9]+x[0-9]+(x[0-9]+)?$`)
	ifNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,15}$`)
)

// Fields is the complete configuration schema.
var Fields = []Field{
	{
		Key:         KeyArch,
		Description: "architecture tag",
		RequiredFor: allArchs,
	},
	{
		Key:         KeyName,
		Description: "configuration identifier",
	},
	{
		Key:         KeyMachine,
		Description: "emulated machine type",
		RequiredFor: allArchs,
	},
	{
		Key:         KeyRAM,
		Description: "memory size",
		RequiredFor: allArchs,
		Check:       checkMemory,
	},
	{
		Key:         KeyCPU,
		Description: "CPU model override",
	},
	{
		Key:         KeyROM,
		Description: "firmware ROM file",
		RequiredFor: []arch.Arch{arch.M68K},
		Path:        true,
		MustExist:   true,
	},
	{
		Key:         KeyDisk,
		Description: "primary disk image",
		RequiredFor: allArchs,
		Path:        true,
	},
	{
		Key:         KeyDiskSize,
		Description: "primary disk size on creation",
		Default:     fixed("1G"),
		Check:       checkSize,
		NonEmpty:    true,
	},
	{
		Key:         KeyShared,
		Description: "shared disk image",
		Path:        true,
	},
	{
		Key:         KeySharedSize,
		Description: "shared disk size on creation",
		Default:     fixed("200M"),
		Check:       checkSize,
		NonEmpty:    true,
	},
	{
		Key:         KeyPRAM,
		Description: "parameter block file",
		RequiredFor: []arch.Arch{arch.M68K},
		Path:        true,
	},
	{
		Key:         KeyExtraSize,
		Description: "extra disk size on creation",
		Default:     fixed("1G"),
		Check:       checkSize,
		NonEmpty:    true,
	},
	{
		Key:         KeyGraphics,
		Description: "graphics resolution",
		Default:     arch.Arch.Graphics,
		Check:       checkPattern(graphicsPattern, "WIDTHxHEIGHT[xDEPTH]"),
	},
	{
		Key:         KeyCacheMode,
		Description: "disk cache mode",
		Allowed: []string{
			"writeback", "writethrough", "none", "directsync", "unsafe",
		},
	},
	{
		Key:         KeyAIOMode,
		Description: "disk async I/O mode",
		Allowed:     []string{"threads", "native", "io_uring"},
	},
	{
		Key:         KeyTCGThread,
		Description: "TCG threading mode",
		Allowed:     []string{"single", "multi"},
	},
	{
		Key:         KeyTBSize,
		Description: "translation cache size in MiB",
		Check:       checkPositiveInt,
	},
	{
		Key:         KeyNetworkType,
		Description: "network mode",
		Default:     fixed(netres.ModeUser.String()),
		Allowed:     netres.ModeNames(),
		NonEmpty:    true,
	},
	{
		Key:         KeyBridge,
		Description: "host bridge for tap networking",
		Default:     fixed("br0"),
		Check:       checkPattern(ifNamePattern, "interface name"),
		NonEmpty:    true,
	},
	{
		Key:         KeyTap,
		Description: "tap interface name",
		Check:       checkPattern(ifNamePattern, "interface name"),
	},
	{
		Key:         KeyMAC,
		Description: "guest hardware address",
		Check:       checkMAC,
	},
	{
		Key:         KeyNICModel,
		Description: "guest network card model",
		Default:     arch.Arch.NICModel,
	},
	{
		Key:         KeyDaemonBinary,
		Description: "userspace networking daemon",
		Default:     fixed("passt"),
		NonEmpty:    true,
	},
}

// FieldByKey returns the schema field for the given key.
func FieldByKey(key string) (Field, bool) {
	idx := slices.IndexFunc(Fields, func(f Field) bool { return f.Key == key })
	if idx < 0 {
		return Field{}, false
	}

	return Fields[idx], true
}

// RequiredFields returns the fields required for the given architecture.
func RequiredFields(a arch.Arch) []Field {
	var required []Field

	for _, field := range Fields {
		if field.IsRequired(a) {
			required = append(required, field)
		}
	}

	return required
}

// ParseMemory parses a memory size. Plain numbers are MiB, suffixed values
// use binary units, e.g. "512M" or "1G".
func ParseMemory(s string) (uint64, error) {
	if mib, err := strconv.ParseUint(s, 10, 64); err == nil {
		return mib, nil
	}

	size, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse memory: %w", err)
	}

	return uint64(size) / units.MiB, nil
}

// ParseSize parses a disk size with binary units, e.g. "2G" is 2 GiB.
func ParseSize(s string) (int64, error) {
	size, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse size: %w", err)
	}

	return size, nil
}

func checkMemory(s string) error {
	mib, err := ParseMemory(s)
	if err != nil {
		return err
	}

	if mib == 0 {
		return fmt.Errorf("must be at least 1 MiB")
	}

	return nil
}

func checkSize(s string) error {
	size, err := ParseSize(s)
	if err != nil {
		return err
	}

	if size <= 0 {
		return fmt.Errorf("must be positive")
	}

	return nil
}

func checkPositiveInt(s string) error {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("not a number: %w", err)
	}

	if i == 0 {
		return fmt.Errorf("must be positive")
	}

	return nil
}

func checkMAC(s string) error {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(hw) != 6 {
		return fmt.Errorf("must be a 48 bit address")
	}

	return nil
}

func checkPattern(pattern *regexp.Regexp, format string) func(string) error {
	return func(s string) error {
		if !pattern.MatchString(s) {
			return fmt.Errorf("expected format %s", format)
		}

		return nil
	}
}
