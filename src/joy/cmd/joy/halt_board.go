//go:build arm64 && baremetal && !qemu

package main

import arm64 "awakening/src/hardware/arm-cortex-a53"

func halt(int) {
	arm64.Park()
}
