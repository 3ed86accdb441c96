//go:build arm64 && baremetal

package arm_cortex_a53

// SecondaryResetAddr is the address secondaries are released to.  The code
// there masks MPIDR to a core number, parks numbers above maxCoreID, takes
// bootStackTop - id<<coreStackShift as the stack and drops to EL1h on it
// with the counters open and DAIF masked.  It never enters Go: a released
// core has no goroutine to run on, so it idles at EL1.
func SecondaryResetAddr() uintptr

// ResumeAtEL1 performs the same EL2 to EL1 drop on the calling core and
// returns to its caller at EL1t.  SP_EL1 is left at stackTop and SP_EL0 is
// the caller's goroutine stack, which keeps the runtime's stack bounds
// valid.
//
//go:noescape
func ResumeAtEL1(stackTop uintptr)

// CurrentEL is the raw CurrentEL register.
func CurrentEL() uint64

// MPIDR is the raw MPIDR_EL1 register.
func MPIDR() uint64

// WaitForEvent executes one WFE.
func WaitForEvent()

// SendEvent executes DSB SY then SEV, so stores before it are visible to the
// cores it wakes.
func SendEvent()

// Park loops on WFE forever.
func Park()

// CounterFrequency is CNTFRQ_EL0 in Hz.
func CounterFrequency() uint64

// Counter is CNTPCT_EL0.
func Counter() uint64

// Level reports the calling core's privilege level.
func Level() PrivilegeLevel {
	return PrivilegeLevelFromCurrentEL(CurrentEL())
}

// CoreNumber reports the calling core's affinity 0 number.
func CoreNumber() uint64 {
	return CoreNumberFromMPIDR(MPIDR())
}
