package joy

import "awakening/src/hardware/rpi"

// Role is what a core does after reset.
type Role int

const (
	RolePark Role = iota
	RoleMaster
	RoleSecondary
)

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "master"
	case RoleSecondary:
		return "secondary"
	}
	return "park"
}

// Route is the outcome of dispatching a core: its role and, unless it is
// parked, the top of its EL1 stack.
type Route struct {
	Role     Role
	StackTop uintptr
}

// StackTop is the first byte above core id's stack.  It is pure arithmetic on
// the id so no table has to exist when it is computed.
func StackTop(id CoreID) uintptr {
	return rpi.BootCoreStackStart - uintptr(id)<<rpi.CoreStackShift
}

// StackBounds is the half open range [bottom, top) of core id's stack.
func StackBounds(id CoreID) (bottom, top uintptr) {
	top = StackTop(id)
	return top - 1<<rpi.CoreStackShift, top
}

// RouteFor decides the role of a core from its id alone.  It touches no
// shared state: at reset nothing is initialized, not even the locks.
func RouteFor(id CoreID) Route {
	switch {
	case id == BootCore:
		return Route{Role: RoleMaster, StackTop: rpi.BootCoreStackStart}
	case id.Secondary():
		return Route{Role: RoleSecondary, StackTop: StackTop(id)}
	}
	return Route{Role: RolePark}
}

// Reset is the first code every core runs, on a cold boot and again when a
// secondary is woken through the spin table.  Known cores drop to EL1 on
// their own stack and continue in the master or secondary init path; any
// other core is parked for good.
func (k *Kernel) Reset(c Core) {
	r := RouteFor(c.ID())
	switch r.Role {
	case RoleMaster:
		c.EnterKernel(func() { k.masterInit(c) }, r.StackTop)
	case RoleSecondary:
		c.EnterKernel(func() { k.secondaryInit(c) }, r.StackTop)
	default:
		c.Park()
	}
}
