package sim

import (
	"sort"
	"sync"
)

// Memory is sparse physical memory, one 64-bit word per address.  Words
// never written read as zero, like the spin table after the firmware clears
// it.
type Memory struct {
	mu    sync.Mutex
	words map[uintptr]uint64
}

func NewMemory() *Memory {
	return &Memory{words: map[uintptr]uint64{}}
}

func (m *Memory) Load64(addr uintptr) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[addr]
}

func (m *Memory) Store64(addr uintptr, value uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[addr] = value
}

// Written lists every address that holds a non-zero word, lowest first.
func (m *Memory) Written() []uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	addrs := make([]uintptr, 0, len(m.words))
	for a, v := range m.words {
		if v != 0 {
			addrs = append(addrs, a)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}
