package machine

// Device register bit layout only (spec.md's non-goals explicitly exclude
// "any I/O device simulation beyond exposing memory-mapped register bit
// definitions" — adapted from the teacher's HardwareDevice status codes
// and command bus, kept here as plain constants with no simulated device
// behind them).

// StatusCode is the value a device status register reports.
type StatusCode = uint32

const (
	StatusDeviceNotFound StatusCode = 0x00
	StatusDeviceReady    StatusCode = 0x01
	StatusDeviceBusy     StatusCode = 0x02
)

// HardwareID identifies the device class occupying a memory-mapped slot.
type HardwareID = uint32

const (
	HWNone            HardwareID = 0x00
	HWSystemTimer     HardwareID = 0x01
	HWPowerController HardwareID = 0x02
	HWConsoleIO       HardwareID = 0x04
)

// DeviceRegisters is the fixed memory-mapped layout a device occupies:
// one command word, one status word, and one data word, in that order,
// starting at the base address.
type DeviceRegisters struct {
	Base    uint32
	Command uint32
	Status  uint32
	Data    uint32
}

// NewDeviceRegisters lays out the three device words starting at base.
func NewDeviceRegisters(base uint32) DeviceRegisters {
	return DeviceRegisters{Base: base, Command: base, Status: base + 1, Data: base + 2}
}
