package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBit(t *testing.T) {
	assert.Equal(t, Mask(1), Bit(0))
	assert.Equal(t, Mask(1<<31), Bit(31))
	assert.Zero(t, Bit(32))
	assert.Zero(t, Bit(-1))
}

func TestMaskBits(t *testing.T) {
	tests := []struct {
		mask Mask
		want []int
	}{
		{0, []int{}},
		{0b1, []int{0}},
		{0b1010, []int{1, 3}},
		{Bit(0) | Bit(31), []int{0, 31}},
	}
	for _, tc := range tests {
		t.Run(tc.mask.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.mask.Bits())
			assert.Equal(t, len(tc.want), tc.mask.Count())
		})
	}
}

func TestMaskEdits(t *testing.T) {
	m := Mask(0).With(2).With(4)
	assert.True(t, m.Has(2))
	assert.True(t, m.Has(4))
	assert.False(t, m.Has(3))
	assert.False(t, m.Has(40))

	m = m.Without(2)
	assert.Equal(t, Mask(0b10000), m)
	assert.Equal(t, "0b10000", m.String())
}

func TestParseMask(t *testing.T) {
	tests := []struct {
		in      string
		want    Mask
		wantErr bool
	}{
		{"5", 5, false},
		{"0x10", 16, false},
		{"0b101", 5, false},
		{" 3 ", 3, false},
		{"4294967295", 0xFFFFFFFF, false},
		{"4294967296", 0, true},
		{"", 0, true},
		{"Enemy", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMask(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
