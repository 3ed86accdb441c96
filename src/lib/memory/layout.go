package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned for an address above the layout's maximum.
	ErrOutOfBounds = errors.New("address out of bounds")
	// ErrOverlappingRanges means two descriptors claim the same address.
	ErrOverlappingRanges = errors.New("overlapping address ranges")
	// ErrBadRange is a descriptor whose end is below its start or above the maximum.
	ErrBadRange = errors.New("bad address range")
)

// Interval is an inclusive range of virtual addresses.
type Interval struct {
	Start uintptr
	End   uintptr // inclusive
}

func (i Interval) Contains(addr uintptr) bool {
	return addr >= i.Start && addr <= i.End
}

// Size is the number of bytes covered.  It wraps to 0 for the whole address
// space, which Validate does not accept as a range.
func (i Interval) Size() uintptr {
	return i.End - i.Start + 1
}

// TranslationKind says how a virtual address in a range maps to an output
// address.
type TranslationKind int

const (
	Identity TranslationKind = iota
	Offset
)

// Translation is Identity, or Offset with the output address of the range's
// first byte.
type Translation struct {
	Kind   TranslationKind
	Output uintptr
}

func IdentityTranslation() Translation {
	return Translation{Kind: Identity}
}

func OffsetTranslation(output uintptr) Translation {
	return Translation{Kind: Offset, Output: output}
}

type MemAttributes int

const (
	CacheableDRAM MemAttributes = iota
	Device
)

type AccessPermissions int

const (
	ReadOnly AccessPermissions = iota
	ReadWrite
)

// AttributeFields is what a page table entry for an address should carry.
type AttributeFields struct {
	MemAttributes MemAttributes
	AccPerms      AccessPermissions
	ExecuteNever  bool
}

// DefaultAttributes apply to any address no descriptor claims: ordinary RAM.
func DefaultAttributes() AttributeFields {
	return AttributeFields{
		MemAttributes: CacheableDRAM,
		AccPerms:      ReadWrite,
		ExecuteNever:  true,
	}
}

// RangeDescriptor names a special range. The range is a function because some
// bounds (the kernel's own code, for instance) are only known after linking.
type RangeDescriptor struct {
	Name            string
	VirtualRange    func() Interval
	Translation     Translation
	AttributeFields AttributeFields
}

// KernelVirtualLayout is an ordered table of descriptors plus the highest valid
// virtual address.  Order is match priority.  It is never modified after
// construction and needs no lock.
type KernelVirtualLayout struct {
	maxVirtAddrInclusive uintptr
	inner                []RangeDescriptor
}

// NewKernelVirtualLayout builds a layout and validates it; see Validate.
func NewKernelVirtualLayout(max uintptr, layout ...RangeDescriptor) (*KernelVirtualLayout, error) {
	k := &KernelVirtualLayout{
		maxVirtAddrInclusive: max,
		inner:                append([]RangeDescriptor(nil), layout...),
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// MustKernelVirtualLayout is NewKernelVirtualLayout for package level tables.
func MustKernelVirtualLayout(max uintptr, layout ...RangeDescriptor) *KernelVirtualLayout {
	k, err := NewKernelVirtualLayout(max, layout...)
	if err != nil {
		panic(err)
	}
	return k
}

// MaxVirtAddrInclusive is the highest address Lookup accepts.
func (k *KernelVirtualLayout) MaxVirtAddrInclusive() uintptr {
	return k.maxVirtAddrInclusive
}

// Ranges returns a copy of the descriptors in match order.
func (k *KernelVirtualLayout) Ranges() []RangeDescriptor {
	return append([]RangeDescriptor(nil), k.inner...)
}

// Lookup returns the output address and attributes for virtAddr. The first
// descriptor containing the address wins; an address no descriptor claims is
// translated to itself with DefaultAttributes.
func (k *KernelVirtualLayout) Lookup(virtAddr uintptr) (uintptr, AttributeFields, error) {
	if virtAddr > k.maxVirtAddrInclusive {
		return 0, AttributeFields{}, fmt.Errorf("%w: %#x > %#x", ErrOutOfBounds, virtAddr, k.maxVirtAddrInclusive)
	}
	for _, d := range k.inner {
		r := d.VirtualRange()
		if !r.Contains(virtAddr) {
			continue
		}
		out := virtAddr
		if d.Translation.Kind == Offset {
			out = d.Translation.Output + (virtAddr - r.Start)
		}
		return out, d.AttributeFields, nil
	}
	return virtAddr, DefaultAttributes(), nil
}
