package joy

import (
	"awakening/src/hardware/rpi"
	"awakening/src/lib/upbeat"
)

// Job names an entry point in a Registry.  A job carries no state of its own,
// so handing one to another core is a single word store.
type Job uint16

const NoJob = Job(0)

// MaxJobs is the capacity of a Registry.
const MaxJobs = 32

type jobEntry struct {
	name string
	fn   func()
}

type registryEntries struct {
	count   int
	entries [MaxJobs]jobEntry
}

// Registry is the fixed table of everything a secondary core can be asked to
// run.  Entries are added during init and never removed.
type Registry struct {
	table upbeat.Lock[registryEntries]
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds fn under name and returns the Job that runs it.
func (r *Registry) Register(name string, fn func()) (Job, error) {
	job := NoJob
	r.table.Do(func(t *registryEntries) {
		if t.count == MaxJobs {
			return
		}
		t.entries[t.count] = jobEntry{name: name, fn: fn}
		t.count++
		job = Job(t.count)
	})
	if job == NoJob {
		return NoJob, ErrRegistryFull
	}
	return job, nil
}

// Lookup finds a job by name.
func (r *Registry) Lookup(name string) (Job, bool) {
	job := upbeat.Locked(&r.table, func(t *registryEntries) Job {
		for i := 0; i < t.count; i++ {
			if t.entries[i].name == name {
				return Job(i + 1)
			}
		}
		return NoJob
	})
	return job, job != NoJob
}

func (r *Registry) entry(j Job) (jobEntry, bool) {
	var e jobEntry
	ok := upbeat.Locked(&r.table, func(t *registryEntries) bool {
		if j == NoJob || int(j) > t.count {
			return false
		}
		e = t.entries[j-1]
		return true
	})
	return e, ok
}

// Known reports whether j was returned by Register.
func (r *Registry) Known(j Job) bool {
	_, ok := r.entry(j)
	return ok
}

func (r *Registry) Name(j Job) string {
	e, ok := r.entry(j)
	if !ok {
		return "<none>"
	}
	return e.name
}

// Names lists the registered jobs in registration order.
func (r *Registry) Names() []string {
	return upbeat.Locked(&r.table, func(t *registryEntries) []string {
		names := make([]string, 0, t.count)
		for i := 0; i < t.count; i++ {
			names = append(names, t.entries[i].name)
		}
		return names
	})
}

// Run calls the job's entry point on the calling core.  No lock is held while
// it runs.
func (r *Registry) Run(j Job) bool {
	e, ok := r.entry(j)
	if !ok {
		return false
	}
	e.fn()
	return true
}

// JobTable holds one pending job per core.  The boot core is the only
// producer and each secondary core is the only consumer of its own slot, so a
// slot is only ever contended by two cores.
type JobTable struct {
	registry *Registry
	slots    [rpi.NumCores]upbeat.Lock[Job]
}

func NewJobTable(r *Registry) *JobTable {
	return &JobTable{registry: r}
}

func (t *JobTable) slot(id CoreID) (*upbeat.Lock[Job], error) {
	if !id.Secondary() {
		return nil, MakeError(ErrNoSuchCore, id)
	}
	return &t.slots[id], nil
}

func (t *JobTable) check(id CoreID, job Job) (*upbeat.Lock[Job], error) {
	s, err := t.slot(id)
	if err != nil {
		return nil, err
	}
	if !t.registry.Known(job) {
		return nil, MakeError(ErrUnknownJob, id)
	}
	return s, nil
}

// Submit installs job in core id's slot.  If a job is already pending it
// fails with ErrAlreadyBusy and leaves the pending job alone.  It never
// blocks beyond the slot's lock.
func (t *JobTable) Submit(id CoreID, job Job) error {
	s, err := t.check(id, job)
	if err != nil {
		return err
	}
	return upbeat.Locked(s, func(pending *Job) error {
		if *pending != NoJob {
			return MakeError(ErrAlreadyBusy, id)
		}
		*pending = job
		return nil
	})
}

// SubmitBlocking waits, using p between attempts, until core id's slot is
// empty and then installs job.  Only the calling core waits.
func (t *JobTable) SubmitBlocking(id CoreID, job Job, p *upbeat.Poller) error {
	s, err := t.check(id, job)
	if err != nil {
		return err
	}
	p.Until(func() bool {
		return upbeat.Locked(s, func(pending *Job) bool {
			if *pending != NoJob {
				return false
			}
			*pending = job
			return true
		})
	})
	return nil
}

// SubmitOverride installs job whatever is pending and reports whether a
// pending job was thrown away without running.
func (t *JobTable) SubmitOverride(id CoreID, job Job) (bool, error) {
	s, err := t.check(id, job)
	if err != nil {
		return false, err
	}
	return upbeat.Locked(s, func(pending *Job) bool {
		discarded := *pending != NoJob
		*pending = job
		return discarded
	}), nil
}

// Take empties core id's slot and returns what was in it.
func (t *JobTable) Take(id CoreID) (Job, bool) {
	s, err := t.slot(id)
	if err != nil {
		return NoJob, false
	}
	job := upbeat.Locked(s, func(pending *Job) Job {
		j := *pending
		*pending = NoJob
		return j
	})
	return job, job != NoJob
}

// Pending looks at core id's slot without changing it.
func (t *JobTable) Pending(id CoreID) (Job, bool) {
	s, err := t.slot(id)
	if err != nil {
		return NoJob, false
	}
	job := upbeat.Locked(s, func(pending *Job) Job { return *pending })
	return job, job != NoJob
}
