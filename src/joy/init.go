package joy

import (
	"awakening/src/lib/memory"
	"awakening/src/lib/trust"
	"awakening/src/lib/upbeat"
)

// masterInit is the boot core's path once it is at EL1.  Nothing it calls may
// read the BSS before it is cleared.
func (k *Kernel) masterInit(c Core) {
	id := c.ID()
	k.setState(id, Bootstrapping)
	memory.ZeroVolatile(k.board.BSS())
	trust.SetLevel(k.level)

	trust.Infof("Booting on %s", k.board.Name())
	trust.Debugf("Drivers loaded:")
	if err := InitDrivers(k.board.Drivers()); err != nil {
		k.halt(id, err)
		return
	}
	if err := k.board.PostDriverInit(); err != nil {
		k.halt(id, err)
		return
	}
	if k.config.PrintLayout {
		k.board.Layout().PrintLayout()
	}
	trust.Infof("Current privilege level: %s", c.Level())

	k.setState(id, MasterRunning)
	k.wakeSecondaries(c)
	k.main(k, c)
	trust.Infof("Core %d: kernel main returned", id)
	c.Park()
}

func (k *Kernel) halt(id CoreID, err error) {
	k.setState(id, Parked)
	trust.Fatalf(1, "Core %d: %v", id, err)
}

// secondaryInit is a secondary core's path once it is at EL1.  It never
// returns.
func (k *Kernel) secondaryInit(c Core) {
	id := c.ID()
	k.setState(id, Bootstrapping)
	trust.Infof("Core %d init finished.", id)
	p := k.newPoller()
	for {
		k.ServeNext(id, p)
	}
}

// ServeNext waits for a job in core id's slot, empties the slot and runs the
// job.  The slot is free again before the job starts, so a job may submit its
// successor to the core it runs on.  The core reports SecondaryRunning before
// it empties the slot; other cores can only replace a pending job, never
// remove it, so the slot is still full when Take runs.
func (k *Kernel) ServeNext(id CoreID, p *upbeat.Poller) Job {
	k.setState(id, SecondaryWaiting)
	p.Until(func() bool {
		_, ok := k.jobs.Pending(id)
		return ok
	})
	k.setState(id, SecondaryRunning)
	job, _ := k.jobs.Take(id)
	trust.Infof("Core %d: Got job %s", id, k.registry.Name(job))
	k.registry.Run(job)
	trust.Infof("Core %d: Jobs done.", id)
	k.setState(id, SecondaryWaiting)
	return job
}
