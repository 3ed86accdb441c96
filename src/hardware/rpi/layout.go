package rpi

import "awakening/src/lib/memory"

const NumMemRanges = 2

// VirtualLayout is the kernel's table of special ranges on the Pi 3.  The
// bounds of the kernel's code and read only data come from the linker, so the
// caller supplies them as a function.
func VirtualLayout(kernelRO func() memory.Interval) (*memory.KernelVirtualLayout, error) {
	return memory.NewKernelVirtualLayout(MemoryMappedIOEndInclusive,
		memory.RangeDescriptor{
			Name:         "Kernel code and RO data",
			VirtualRange: kernelRO,
			Translation:  memory.IdentityTranslation(),
			AttributeFields: memory.AttributeFields{
				MemAttributes: memory.CacheableDRAM,
				AccPerms:      memory.ReadOnly,
				ExecuteNever:  false,
			},
		},
		memory.RangeDescriptor{
			Name: "Device MMIO",
			VirtualRange: func() memory.Interval {
				return memory.Interval{Start: MemoryMappedIO, End: MemoryMappedIOEndInclusive}
			},
			Translation: memory.IdentityTranslation(),
			AttributeFields: memory.AttributeFields{
				MemAttributes: memory.Device,
				AccPerms:      memory.ReadWrite,
				ExecuteNever:  true,
			},
		},
	)
}
