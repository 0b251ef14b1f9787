package category

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxCategories is the number of bit positions in a Mask.
const MaxCategories = 32

// Mask is a set of categories, bit i standing for the table name at index i.
type Mask uint32

// Bit returns the mask with only bit i set, or 0 when i is outside [0, 31].
func Bit(i int) Mask {
	if i < 0 || i >= MaxCategories {
		return 0
	}
	return Mask(1) << uint(i)
}

func (m Mask) Has(i int) bool {
	b := Bit(i)
	return b != 0 && m&b != 0
}

func (m Mask) With(i int) Mask {
	return m | Bit(i)
}

func (m Mask) Without(i int) Mask {
	return m &^ Bit(i)
}

// Bits returns the set bit positions in ascending order.
func (m Mask) Bits() []int {
	out := make([]int, 0, bits.OnesCount32(uint32(m)))
	for v := uint32(m); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros32(v))
	}
	return out
}

func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

func (m Mask) String() string {
	return "0b" + strconv.FormatUint(uint64(m), 2)
}

// ParseMask reads a mask written in decimal, 0x hex or 0b binary.
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("category: parse mask: empty value")
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("category: parse mask %q: %w", s, err)
	}
	return Mask(v), nil
}
