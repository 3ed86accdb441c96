package joy

import (
	"awakening/src/hardware/rpi"
	"awakening/src/lib/trust"
)

// WakeSecondaries releases the secondary cores from the firmware's spin
// table.  Each secondary's mailbox gets the reset vector; c.SendEvent then
// orders those stores before the SEV that gets the sleeping cores to reread
// their mailbox.  A woken core enters at vector and goes through Reset like
// the boot core did.
func WakeSecondaries(mem PhysicalMemory, c Core, vector uintptr) {
	for id := CoreID(0); id < rpi.NumCores; id++ {
		if !id.Secondary() {
			continue
		}
		mem.Store64(rpi.MailboxAddress(uint64(id)), uint64(vector))
	}
	c.SendEvent()
}

func (k *Kernel) wakeSecondaries(c Core) {
	vector := k.board.ResetVector()
	trust.Debugf("Waking secondary cores at %#x", vector)
	WakeSecondaries(k.board.Memory(), c, vector)
}
