package bcm2835

import "sync/atomic"

// Register32 is one memory mapped 32 bit register. Every access is a single
// atomic load or store, which the compiler will neither drop nor merge.
type Register32 struct {
	reg uint32
}

func (r *Register32) Get() uint32 {
	return atomic.LoadUint32(&r.reg)
}

func (r *Register32) Set(value uint32) {
	atomic.StoreUint32(&r.reg, value)
}

func (r *Register32) SetBits(value uint32) {
	r.Set(r.Get() | value)
}

func (r *Register32) ClearBits(value uint32) {
	r.Set(r.Get() &^ value)
}

func (r *Register32) HasBits(value uint32) bool {
	return r.Get()&value != 0
}

// ReplaceBits clears mask<<pos and then ors in (value&mask)<<pos.
func (r *Register32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}
