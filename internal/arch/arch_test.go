// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package arch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/emulaunch/internal/arch"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    arch.Arch
		expectedErr error
	}{
		{
			name:     "m68k",
			input:    "m68k",
			expected: arch.M68K,
		},
		{
			name:     "ppc with noise",
			input:    "  PPC ",
			expected: arch.PPC,
		},
		{
			name:        "empty",
			expectedErr: arch.ErrArchNotSupported,
		},
		{
			name:        "unknown",
			input:       "sparc",
			expectedErr: arch.ErrArchNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := arch.Parse(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestArch_Set(t *testing.T) {
	var a arch.Arch

	require.NoError(t, a.Set("ppc"))
	assert.Equal(t, arch.PPC, a)

	require.ErrorIs(t, a.Set("x86"), arch.ErrArchNotSupported)
	assert.Equal(t, arch.PPC, a, "value should be unchanged on error")
}

func TestSupported(t *testing.T) {
	assert.Equal(t, []arch.Arch{arch.M68K, arch.PPC}, arch.Supported())
}

func TestArch_Layout(t *testing.T) {
	for _, a := range arch.Supported() {
		t.Run(a.String(), func(t *testing.T) {
			for _, target := range []arch.BootTarget{
				arch.BootPrimary,
				arch.BootRemovable,
			} {
				layout := a.Layout(target)

				ids := append([]int{
					layout.Primary,
					layout.Shared,
					layout.Removable,
				}, layout.Extra...)

				assert.Len(t, ids, len(uniqueInts(ids)),
					"bus ids must not collide for %s boot", target)
			}

			assert.NotEqual(t,
				a.Layout(arch.BootPrimary).Primary,
				a.Layout(arch.BootRemovable).Primary,
				"primary disk should move when booting removable media")
		})
	}
}

func TestArch_Layout_ReturnsCopy(t *testing.T) {
	layout := arch.M68K.Layout(arch.BootPrimary)
	layout.Extra[0] = 99

	assert.Equal(t, 2, arch.M68K.Layout(arch.BootPrimary).Extra[0])
}

func TestArch_BootBusID(t *testing.T) {
	assert.Equal(t, 0, arch.M68K.BootBusID(arch.BootPrimary))
	assert.Equal(t, 3, arch.M68K.BootBusID(arch.BootRemovable))
	assert.Equal(t, 0, arch.PPC.BootBusID(arch.BootPrimary))
	assert.Equal(t, 2, arch.PPC.BootBusID(arch.BootRemovable))
}

func TestArch_BusIDTarget(t *testing.T) {
	target, found := arch.M68K.BusIDTarget(3)
	assert.True(t, found)
	assert.Equal(t, arch.BootRemovable, target)

	_, found = arch.M68K.BusIDTarget(5)
	assert.False(t, found)
}

func uniqueInts(in []int) map[int]struct{} {
	out := make(map[int]struct{}, len(in))
	for _, i := range in {
		out[i] = struct{}{}
	}

	return out
}
