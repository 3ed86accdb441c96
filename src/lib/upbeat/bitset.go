package upbeat

import (
	"math/bits"
	"strconv"
	"strings"
)

// BitSet is a fixed 64 entry set of small integers, sized for core ids. It is
// a value type; share it between cores only inside a Lock.
type BitSet uint64

type BitIndex uint32

func (b BitSet) On(bit BitIndex) bool {
	if bit >= 64 {
		return false
	}
	return b&(1<<bit) != 0
}

func (b *BitSet) Set(bit BitIndex) {
	if bit >= 64 {
		return
	}
	*b |= 1 << bit
}

func (b *BitSet) Clear(bit BitIndex) {
	if bit >= 64 {
		return
	}
	*b &^= 1 << bit
}

func (b *BitSet) ClearAll() {
	*b = 0
}

func (b BitSet) Count() int {
	return bits.OnesCount64(uint64(b))
}

// String lists the members, e.g. "{1,2,3}".
func (b BitSet) String() string {
	parts := []string{}
	for i := BitIndex(0); i < 64; i++ {
		if b.On(i) {
			parts = append(parts, strconv.Itoa(int(i)))
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}
