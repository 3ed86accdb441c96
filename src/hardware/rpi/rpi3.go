package rpi

//This file is for things that are specific to the *model* Raspberry Pi 3 and
//are different on other rpi models.

const BoardName = "Raspberry Pi 3"

const MemoryMappedIO = uintptr(0x3F000000)
const MemoryMappedIOEndInclusive = uintptr(0x4000FFFF) // includes the QA7 local block at 0x40000000

// NumCores is the number of A53 cores; ids are 0..NumCores-1.
const NumCores = 4

// CoreIDMask covers every valid core id (2 bits for 4 cores).
const CoreIDMask = 0b11

const BootCoreID = 0

// The kernel image is loaded at KernelLoadAddress and its first instruction
// is the reset entry every core comes through.
const KernelLoadAddress = uintptr(0x80000)

// Stacks grow down from just below the kernel image, one 64KiB stack per
// core: core n owns [BootCoreStackStart-(n+1)<<CoreStackShift, BootCoreStackStart-n<<CoreStackShift).
const BootCoreStackStart = uintptr(0x80000)
const CoreStackShift = 16

// The firmware's armstub parks cores 1-3 in a WFE loop polling a spin table
// in low memory: core n reads the 64 bit word at SpinTableBase + 8*n and jumps
// there once it is non-zero.
const SpinTableBase = uintptr(0xd8)

// MailboxAddress is the spin table entry core id polls.
func MailboxAddress(id uint64) uintptr {
	return SpinTableBase + uintptr(id)*8
}
