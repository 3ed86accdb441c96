package arm_cortex_a53

// PrivilegeLevel is the exception level a core executes at.
type PrivilegeLevel int

const (
	User PrivilegeLevel = iota
	Kernel
	Hypervisor
	Unknown
)

func (p PrivilegeLevel) String() string {
	switch p {
	case User:
		return "User"
	case Kernel:
		return "Kernel"
	case Hypervisor:
		return "Hypervisor"
	}
	return "Unknown"
}

// PrivilegeLevelFromCurrentEL decodes a CurrentEL value. EL3 is reported as
// Unknown, this kernel never runs there.
func PrivilegeLevelFromCurrentEL(currentEL uint64) PrivilegeLevel {
	switch (currentEL >> currentELShift) & currentELMask {
	case 0:
		return User
	case 1:
		return Kernel
	case 2:
		return Hypervisor
	}
	return Unknown
}

// CoreNumberFromMPIDR extracts affinity level 0, the core within the
// cluster.  No mask to the board's core count is applied here; the dispatcher
// decides what an out of range number means.
func CoreNumberFromMPIDR(mpidr uint64) uint64 {
	return mpidr & MultiprocessorAffinity0Mask
}

// Registers returns the values the EL2 to EL1 drop programs, for diagnostics and tests.
func Registers() (cnthctl, cntvoff, hcr, spsr uint64) {
	return cnthctlEL2Value, cntvoffEL2Value, hcrEL2Value, spsrEL2Value
}
