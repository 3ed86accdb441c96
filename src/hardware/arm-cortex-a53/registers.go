package arm_cortex_a53

// ***************************************
// CNTHCTL_EL2, Counter-timer Hypervisor Control Register, Page 2158 of AArch64-Reference-Manual.
// ***************************************

const CounterHypervisorControlEL1PCEN = (1 << 1)  // EL1 may use the physical timer
const CounterHypervisorControlEL1PCTEN = (1 << 0) // EL1 may read the physical counter
const cnthctlEL2Value = CounterHypervisorControlEL1PCEN |
	CounterHypervisorControlEL1PCTEN //0x3

// CNTVOFF_EL2, the virtual counter offset, is written as zero so virtual and
// physical counts agree.
const cntvoffEL2Value = 0

// ***************************************
// HCR_EL2, Hypervisor Configuration Register (EL2), Page 2487 of AArch64-Reference-Manual.
// ***************************************

const HypervisorConfigurationRegisterRW = (1 << 31) // EL1 is AArch64
const hcrEL2Value = HypervisorConfigurationRegisterRW //0x80000000

// ***************************************
// SPSR_EL2, Saved Program Status Register (EL2) Page 389 of AArch64-Reference-Manual.
// ***************************************

const SavedProgramStatusRegisterMaskDebug = (1 << 9)
const SavedProgramStatusRegisterMaskSError = (1 << 8)
const SavedProgramStatusRegisterMaskIRQ = (1 << 7)
const SavedProgramStatusRegisterMaskFIQ = (1 << 6)
const SavedProgramStatusRegisterMaskAll = SavedProgramStatusRegisterMaskDebug |
	SavedProgramStatusRegisterMaskSError |
	SavedProgramStatusRegisterMaskIRQ |
	SavedProgramStatusRegisterMaskFIQ //0x3C0
const SavedProgramStatusRegisterEl1h = (5 << 0) //EL1 has own stack
const SavedProgramStatusRegisterEl1t = (4 << 0) //EL1 on SP_EL0
const spsrEL2Value = SavedProgramStatusRegisterMaskAll |
	SavedProgramStatusRegisterEl1h //0x3C5
const spsrEL2ResumeValue = SavedProgramStatusRegisterMaskAll |
	SavedProgramStatusRegisterEl1t //0x3C4

// ***************************************
// MPIDR_EL1, Multiprocessor Affinity Register, Page 2739 of AArch64-Reference-Manual.
// ***************************************

const MultiprocessorAffinity0Mask = 0xff

// ***************************************
// CurrentEL, Page 345 of AArch64-Reference-Manual.  EL is in bits 3:2.
// ***************************************

const currentELShift = 2
const currentELMask = 0x3

// Stacks for released secondaries.  These mirror rpi, which the reset code
// cannot import.
const bootStackTop = 0x80000
const coreStackShift = 16
const maxCoreID = 3
