// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/aibor/emulaunch/internal/arch"
	"github.com/aibor/emulaunch/internal/netres"
)

// Load reads the configuration unit at path and validates it.
//
// Schema violations are returned as a single [SchemaError] listing every
// problem. Once the schema is satisfied, files that must exist are checked
// and a [ResourceNotFoundError] is returned for the first missing one.
func Load(fsys afero.Fs, path string) (Record, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return Record{}, &ResourceNotFoundError{Path: path, Err: err}
	}
	defer file.Close()

	ns, err := Parse(file, path)
	if err != nil {
		return Record{}, err
	}

	return FromNamespace(fsys, path, ns)
}

// FromNamespace validates the given namespace as if it was read from path.
func FromNamespace(fsys afero.Fs, path string, ns Namespace) (Record, error) {
	archValue := ns[KeyArch]

	guestArch, err := arch.Parse(archValue)
	if err != nil {
		field, _ := FieldByKey(KeyArch)

		return Record{}, &SchemaError{
			Path: path,
			Fields: []*FieldError{{
				Key:         KeyArch,
				Description: field.Description,
				Value:       archValue,
				Err:         fmt.Errorf("%w (supported: %s)", ErrUnknownArchitecture, supportedList()),
			}},
		}
	}

	values := make(Namespace, len(Fields))
	schemaErr := &SchemaError{Path: path}

	for _, field := range Fields {
		value, present := ns.Lookup(field.Key)
		if !present && field.Default != nil {
			value = field.Default(guestArch)
		}

		value = strings.TrimSpace(value)

		if value == "" {
			switch {
			case field.IsRequired(guestArch):
				schemaErr.Fields = append(schemaErr.Fields, &FieldError{
					Key:         field.Key,
					Description: field.Description,
					Err:         ErrMissingRequiredField,
				})
			case field.NonEmpty:
				schemaErr.Fields = append(schemaErr.Fields, &FieldError{
					Key:         field.Key,
					Description: field.Description,
					Err:         fmt.Errorf("%w: %w", ErrInvalidValue, ErrEmptyValue),
				})
			}

			continue
		}

		err := field.validate(value)
		if err != nil {
			schemaErr.Fields = append(schemaErr.Fields, &FieldError{
				Key:         field.Key,
				Description: field.Description,
				Value:       value,
				Err:         err,
			})

			continue
		}

		if field.Path {
			value = resolvePath(path, value)
		}

		values[field.Key] = value
	}

	if values[KeyTap] != "" && values[KeyTap] == values[KeyBridge] {
		field, _ := FieldByKey(KeyTap)
		schemaErr.Fields = append(schemaErr.Fields, &FieldError{
			Key:         field.Key,
			Description: field.Description,
			Value:       values[KeyTap],
			Err:         fmt.Errorf("%w: equals %s", ErrInvalidValue, KeyBridge),
		})
	}

	if len(schemaErr.Fields) > 0 {
		return Record{}, schemaErr
	}

	for _, field := range Fields {
		if !field.MustExist || values[field.Key] == "" {
			continue
		}

		err := checkReadableFile(fsys, values[field.Key])
		if err != nil {
			return Record{}, &ResourceNotFoundError{
				Key:  field.Key,
				Path: values[field.Key],
				Err:  err,
			}
		}
	}

	return newRecord(path, guestArch, values), nil
}

func newRecord(path string, guestArch arch.Arch, values Namespace) Record {
	// Values are validated already, so parse errors can not occur.
	memory, _ := ParseMemory(values[KeyRAM])
	diskSize, _ := ParseSize(values[KeyDiskSize])
	sharedSize, _ := ParseSize(values[KeySharedSize])
	extraSize, _ := ParseSize(values[KeyExtraSize])
	tbSize, _ := strconv.ParseUint(values[KeyTBSize], 10, 32)
	mode, _ := netres.ParseMode(values[KeyNetworkType])

	name := values[KeyName]
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return Record{
		Path:      path,
		Name:      name,
		Arch:      guestArch,
		Machine:   values[KeyMachine],
		MemoryMiB: memory,
		CPU:       values[KeyCPU],
		ROMPath:   values[KeyROM],
		Disk: Image{
			Path: values[KeyDisk],
			Size: diskSize,
		},
		Shared: Image{
			Path: values[KeyShared],
			Size: sharedSize,
		},
		ParameterBlockPath: values[KeyPRAM],
		ExtraSize:          extraSize,
		Graphics:           values[KeyGraphics],
		Performance: Performance{
			CacheMode: values[KeyCacheMode],
			AIOMode:   values[KeyAIOMode],
			TCGThread: values[KeyTCGThread],
			TBSizeMiB: tbSize,
		},
		Network: Network{
			Mode:         mode,
			Bridge:       values[KeyBridge],
			Interface:    values[KeyTap],
			MAC:          values[KeyMAC],
			NICModel:     values[KeyNICModel],
			DaemonBinary: values[KeyDaemonBinary],
		},
	}
}

// resolvePath makes value absolute relative to the directory of the
// configuration unit.
func resolvePath(configPath, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}

	return filepath.Join(filepath.Dir(configPath), value)
}

func checkReadableFile(fsys afero.Fs, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !info.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	file, err := fsys.Open(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return file.Close() //nolint:wrapcheck
}

func supportedList() string {
	names := make([]string, 0, len(arch.Supported()))
	for _, a := range arch.Supported() {
		names = append(names, a.String())
	}

	return strings.Join(names, ", ")
}
