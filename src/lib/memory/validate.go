package memory

import (
	"fmt"

	"github.com/google/btree"
)

type resolvedRange struct {
	name string
	Interval
}

// Validate checks that every descriptor's interval is well formed, lies at or
// below the maximum and is disjoint from every other descriptor.
func (k *KernelVirtualLayout) Validate() error {
	index := btree.NewG(2, func(a, b resolvedRange) bool {
		return a.Start < b.Start
	})
	for _, d := range k.inner {
		if d.VirtualRange == nil {
			return fmt.Errorf("%w: %q has no range", ErrBadRange, d.Name)
		}
		r := resolvedRange{name: d.Name, Interval: d.VirtualRange()}
		if r.End < r.Start {
			return fmt.Errorf("%w: %q ends (%#x) before it starts (%#x)", ErrBadRange, d.Name, r.End, r.Start)
		}
		if r.Start == 0 && r.End == ^uintptr(0) {
			return fmt.Errorf("%w: %q covers the whole address space", ErrBadRange, d.Name)
		}
		if r.End > k.maxVirtAddrInclusive {
			return fmt.Errorf("%w: %q ends at %#x, above maximum %#x", ErrBadRange, d.Name, r.End, k.maxVirtAddrInclusive)
		}
		var clash *resolvedRange
		index.DescendLessOrEqual(r, func(prev resolvedRange) bool {
			if prev.End >= r.Start {
				clash = &prev
			}
			return false
		})
		if clash == nil {
			index.AscendGreaterOrEqual(r, func(next resolvedRange) bool {
				if next.Start <= r.End {
					clash = &next
				}
				return false
			})
		}
		if clash != nil {
			return fmt.Errorf("%w: %q [%#x-%#x] and %q [%#x-%#x]", ErrOverlappingRanges,
				clash.name, clash.Start, clash.End, d.Name, r.Start, r.End)
		}
		index.ReplaceOrInsert(r)
	}
	return nil
}
