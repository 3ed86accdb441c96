package bcm2835

import "errors"

type GPIORegisterMap struct {
	FuncSelect               [6]Register32 //0x00,04,08,0C,10, and 14
	reserved00               Register32    //0x18
	OutputSet0               Register32    //0x1C
	OutputSet1               Register32    //0x20
	reserved01               Register32    //0x24
	OutputClear0             Register32    //0x28
	OutputClear1             Register32    //0x2C
	reserved03               Register32    //0x30
	Level0                   Register32    //0x34
	Level1                   Register32    //0x38
	reserved04               Register32    //0x3C
	EventDetectStatus0       Register32    //0x40
	EventDetectStatus1       Register32    //0x44
	reserved05               Register32    //0x48
	RisingEdgeDetectEnable0  Register32    //0x4C
	RisingEdgeDetectEnable1  Register32    //0x50
	reserved06               Register32    //0x54
	FallingEdgeDetectEnable0 Register32    //0x58
	FallingEdgeDetectEnable1 Register32    //0x5C
	reserved07               Register32    //0x60
	HighDetectEnable0        Register32    //0x64
	HighDetectEnable1        Register32    //0x68
	reserved08               Register32    //0x6C
	LowDetectEnable0         Register32    //0x70
	LowDetectEnable1         Register32    //0x74
	reserved09               Register32    //0x78
	AsyncRisingEdgeDetect0   Register32    //0x7C
	AsyncRisingEdgeDetect1   Register32    //0x80
	reserved0A               Register32    //0x84
	AsyncFallingEdgeDetect0  Register32    //0x88
	AsyncFallingEdgeDetect1  Register32    //0x8C
	reserved0B               Register32    //0x90
	PullUpDownEnable         Register32    // 0x94
	PullUpDownEnableClock0   Register32    //0x98
	PullUpDownEnableClock1   Register32    //0x9C
	reserved0C               Register32    //0xA0
	test                     Register32    //0xA4
}

type GPIOMode uint32 //3 bits wide
const GPIOInput GPIOMode = 0
const GPIOOutput GPIOMode = 1
const GPIOAltFunc5 GPIOMode = 2
const GPIOAltFunc4 GPIOMode = 3
const GPIOAltFunc0 GPIOMode = 4
const GPIOAltFunc1 GPIOMode = 5
const GPIOAltFunc2 GPIOMode = 6
const GPIOAltFunc3 GPIOMode = 7

const NumGPIOPins = 54

var ErrBadPin = errors.New("no such gpio pin")

// GPIO is the pin controller as a device driver.
type GPIO struct {
	regs *GPIORegisterMap
}

func NewGPIO(regs *GPIORegisterMap) *GPIO {
	return &GPIO{regs: regs}
}

func (g *GPIO) Compatible() string {
	return "BCM GPIO"
}

// Init has nothing to program; pins are claimed by the drivers that use them.
func (g *GPIO) Init() error {
	if g.regs == nil {
		return errors.New("gpio registers not mapped")
	}
	return nil
}

// Setup selects the function of one pin. Ten pins share each FuncSelect
// register, three bits apiece.
func (g *GPIO) Setup(pin uint8, mode GPIOMode) error {
	if pin >= NumGPIOPins {
		return ErrBadPin
	}
	shift := (pin % 10) * 3
	g.regs.FuncSelect[pin/10].ReplaceBits(uint32(mode), 7, shift)
	return nil
}

// Function reads back the mode of one pin.
func (g *GPIO) Function(pin uint8) (GPIOMode, error) {
	if pin >= NumGPIOPins {
		return GPIOInput, ErrBadPin
	}
	shift := (pin % 10) * 3
	return GPIOMode((g.regs.FuncSelect[pin/10].Get() >> shift) & 7), nil
}

// MapMiniUART routes pins 14 and 15 to the mini UART (alt 5) with pull
// up/down disabled on both.
func (g *GPIO) MapMiniUART() {
	g.Setup(14, GPIOAltFunc5)
	g.Setup(15, GPIOAltFunc5)

	g.regs.PullUpDownEnable.Set(0)
	delay(150)
	g.regs.PullUpDownEnableClock0.SetBits((1 << 14) | (1 << 15))
	delay(150)
	g.regs.PullUpDownEnableClock0.Set(0) //flush gpio setup
}
