package core

// SPIBus is the abstract SPI transport for the driver chip's register port.
// Implementations own the chip-select line: Transfer asserts CS, clocks the
// buffer out while reading the same number of bytes back, then releases CS.
//
// The dSPIN chip requires CS to toggle between command bytes, so Transfer
// is called once per byte by the chip driver rather than once per frame.
type SPIBus interface {
	Transfer(w []byte) ([]byte, error)
}
