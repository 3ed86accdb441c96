package memory

import (
	"fmt"
	"io"

	"awakening/src/lib/trust"
)

const kibShift = 10 // log2(1024)
const mibShift = 20 // log2(1024 * 1024)

// HumanSize normalizes a byte count to the largest of Byte, KiB and MiB that
// leaves a non-zero value.
func HumanSize(size uintptr) (uintptr, string) {
	switch {
	case size>>mibShift > 0:
		return size >> mibShift, "MiB"
	case size>>kibShift > 0:
		return size >> kibShift, "KiB"
	}
	return size, "Byte"
}

func (a AttributeFields) codes() (string, string, string) {
	attr := "C"
	if a.MemAttributes == Device {
		attr = "Dev"
	}
	acc := "RW"
	if a.AccPerms == ReadOnly {
		acc = "RO"
	}
	xn := "PX"
	if a.ExecuteNever {
		xn = "PXN"
	}
	return attr, acc, xn
}

// String is one report line: bounds, size, attribute codes and name.
func (d RangeDescriptor) String() string {
	r := d.VirtualRange()
	size, unit := HumanSize(r.Size())
	attr, acc, xn := d.AttributeFields.codes()
	return fmt.Sprintf("      0x%08x - 0x%08x | %3d %s | %-3s %s %-3s | %s",
		r.Start, r.End, size, unit, attr, acc, xn, d.Name)
}

// WriteReport writes the maximum address followed by one line per range.
func (k *KernelVirtualLayout) WriteReport(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Max Virtual Address: %#x\n", k.maxVirtAddrInclusive); err != nil {
		return err
	}
	for _, d := range k.inner {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// PrintLayout logs one line per range at info level.
func (k *KernelVirtualLayout) PrintLayout() {
	trust.Infof("Special memory regions:")
	for _, d := range k.inner {
		trust.Infof("%s", d.String())
	}
}
