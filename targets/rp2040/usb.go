//go:build rp2040

package main

import (
	"machine"
	"time"
)

// usbLink adapts USB CDC (machine.Serial on the RP2040) to the blocking
// io.ReadWriter the command server expects. machine.Serial returns
// immediately when no bytes are buffered, so Read polls.
type usbLink struct{}

func initUSB() usbLink {
	machine.Serial.Configure(machine.UARTConfig{})
	return usbLink{}
}

func (usbLink) Read(p []byte) (int, error) {
	for machine.Serial.Buffered() == 0 {
		time.Sleep(100 * time.Microsecond)
	}
	n := 0
	for n < len(p) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (usbLink) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}
