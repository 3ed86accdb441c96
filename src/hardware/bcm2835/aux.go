package bcm2835

import "unicode/utf8"

type AuxPeripheralsRegisterMap struct {
	InterruptStatus           Register32 //0x00
	Enables                   Register32 //0x04
	reserved00                [14]uint32
	MiniUARTData              Register32 //0x40, 8 bits wide
	MiniUARTInterruptEnable   Register32 //0x44
	MiniUARTInterruptIdentify Register32 //0x48
	MiniUARTLineControl       Register32 //0x4C
	MiniUARTModemControl      Register32 //0x50
	MiniUARTLineStatus        Register32 //0x54, readonly
	MiniUARTModemStatus       Register32 //0x58, readonly
	MiniUARTScratch           Register32 //0x5C
	MiniUARTExtraControl      Register32 //0x60
	MiniUARTExtraStatus       Register32 //0x64
	MiniUARTBAUD              Register32 //0x68
	reserved01                [5]uint32
	SPI1ControlRegister0      Register32 //0x80
	SPI1ControlRegister1      Register32 //0x84
	SPI1Status                Register32 //0x88
	reserved02                Register32 //0x8C
	SPI1Data                  Register32 //0x90
	SPI1Peek                  Register32 //0x94
	reserved03                [10]uint32
	SPI2ControlRegister0      Register32 //0xC0
	SPI2ControlRegister1      Register32 //0xC4
	SPI2Status                Register32 //0xC8
	reserved04                Register32
	SPI2Data                  Register32 //0xD0
	SPI2Peek                  Register32 //0xD4
}

// mini uart: peripheral enable
const PeripheralMiniUART = 1 << 0

// mini uart: extra control bitfields
const ReceiveEnable = 1 << 0
const TransmitEnable = 1 << 1
const EnableRTS = 1 << 2
const EnableCTS = 1 << 3
const RTSFlowLevelMask = 0x1F //use with register32.ReplaceBits
const RTSFlowLevelFIFO3Spaces = 0 << 4
const RTSFlowLevelFIFO2Spaces = 1 << 4
const RTSFlowLevelFIFO1Space = 2 << 4
const RTSFlowLevelFIFO4Spaces = 3 << 4
const RTSAssertLevel = 1 << 6
const CTSAssertLevel = 1 << 7

// mini uart: line control register bitfields
//https://elinux.org/BCM2835_datasheet_errata
const DataLength8Bits = 3 << 0
const Break = 1 << 6
const DLab = 1 << 7

// mini uart: line control register bitfields
const ReadyToSend = 1 << 1

// mini uart: interrupt identify register bitfields
const Pending = 1 << 0
const TransmitInterruptsPending = 1 << 1 //Read
const ReceiveInterruptsPending = 2 << 1  //Read

const ClearFIFOsMask = 0x6       //use with register32.ReplaceBits
const ClearReceiveFIFO = 1 << 1  //Write
const ClearTransmitFIFO = 1 << 2 //Write

// mini uart: line status register bitfields
const ReceivedDataAvailable = 1 << 0
const ReceivedDataOverrun = 1 << 1
const TransmitFIFOSpaceAvailable = 1 << 5
const TransmitterIdle = 1 << 6

// mini uart: interrupt enable register bitfields
//https://elinux.org/BCM2835_datasheet_errata#p12 (does not explain two magic bits 3:2)
//https://github.com/LdB-ECM/Raspberry-Pi/blob/bc38ce183f731891d52a31df87df24904e466d0c/PlayGround/rpi-SmartStart.c#L255
const ReceiveFIFOReady = 1 << 0
const TransmitFIFOEmpty = 1 << 1
const LineStatusError = 1 << 2   //overrun error, parity error, framing error
const ModemStatusChange = 1 << 3 //changes to DSR/CTS

// MiniUART is the aux block's "mini" UART as a driver and as the console: 8
// bits, 115200 baud, no interrupts, blocking reads and writes.
type MiniUART struct {
	aux *AuxPeripheralsRegisterMap
}

func NewMiniUART(aux *AuxPeripheralsRegisterMap) *MiniUART {
	return &MiniUART{aux: aux}
}

func (u *MiniUART) Compatible() string {
	return "BCM Mini UART"
}

// Init leaves the transmitter and receiver enabled. The pins are not routed
// here; that is GPIO.MapMiniUART, run after every driver is up.
func (u *MiniUART) Init() error {
	u.aux.Enables.SetBits(PeripheralMiniUART)

	//turn off the transmitter and receiver
	u.aux.MiniUARTExtraControl.ClearBits(ReceiveEnable | TransmitEnable)
	u.aux.MiniUARTInterruptEnable.ClearBits(ReceiveFIFOReady | TransmitFIFOEmpty | LineStatusError | ModemStatusChange)

	//see errata for why (bad docs!) uses excuse of compat with 16550
	// https://elinux.org/BCM2835_datasheet_errata#p14
	u.aux.MiniUARTLineControl.SetBits(DataLength8Bits)
	u.aux.MiniUARTModemControl.ClearBits(ReadyToSend) // this asserts the line
	u.aux.MiniUARTInterruptIdentify.ReplaceBits(ClearTransmitFIFO|ClearReceiveFIFO, ClearFIFOsMask, 0)

	// derived from clock speed: BCM2835 ARM Peripheral manual page 11
	u.aux.MiniUARTBAUD.Set(270) // 115200 baud

	u.aux.MiniUARTExtraControl.SetBits(ReceiveEnable | TransmitEnable)
	return nil
}

// WriteByte blocks until the FIFO has room.
func (u *MiniUART) WriteByte(c byte) error {
	for !u.aux.MiniUARTLineStatus.HasBits(TransmitFIFOSpaceAvailable) {
	}
	u.aux.MiniUARTData.Set(uint32(c)) //really 8 bit write
	return nil
}

// Write turns each LF into CR LF.
func (u *MiniUART) Write(p []byte) (int, error) {
	for _, c := range p {
		if c == '\n' {
			u.WriteByte('\r')
		}
		u.WriteByte(c)
	}
	return len(p), nil
}

// ReadByte blocks until a byte arrives.
func (u *MiniUART) ReadByte() (byte, error) {
	for !u.aux.MiniUARTLineStatus.HasBits(ReceivedDataAvailable) {
	}
	return byte(u.aux.MiniUARTData.Get()), nil //8 bit read
}

// ReadChar assembles one UTF-8 rune from the byte stream.
func (u *MiniUART) ReadChar() (rune, error) {
	var buf [utf8.UTFMax]byte
	for n := 0; n < len(buf); n++ {
		b, err := u.ReadByte()
		if err != nil {
			return utf8.RuneError, err
		}
		buf[n] = b
		if utf8.FullRune(buf[:n+1]) {
			r, _ := utf8.DecodeRune(buf[:n+1])
			return r, nil
		}
	}
	return utf8.RuneError, nil
}
