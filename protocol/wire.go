// Package protocol implements the rig's serial command framing: each
// command cycle is two raw little-endian IEEE-754 float32s — first the
// auxiliary (linear-actuator) target, then the absolute stepper angle in
// degrees — with no delimiter and a fixed read order. The device answers
// with text lines and a final "ok" once the move has completed. The framing
// is wire-compatible with the existing host-side controller, so it must not
// grow headers, delimiters or reordering.
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// CommandSize is the fixed byte length of one command cycle on the wire.
const CommandSize = 8

// Ack is the line terminating every command's response.
const Ack = "ok"

// Command is one decoded command cycle.
type Command struct {
	// Aux is the auxiliary target (linear actuator position, in the
	// collaborator's own units). The motion core does not interpret it.
	Aux float32

	// AngleDeg is the absolute stepper target angle in axis degrees.
	AngleDeg float32
}

// ReadCommand blocks until a full command cycle has been read. Returns
// io.EOF unwrapped when the stream ends cleanly before the first byte, and
// io.ErrUnexpectedEOF if it ends mid-frame.
func ReadCommand(r io.Reader) (Command, error) {
	var buf [CommandSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			return Command{}, io.EOF
		}
		return Command{}, fmt.Errorf("read command frame: %w", err)
	}
	return Command{
		Aux:      math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		AngleDeg: math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
	}, nil
}

// WriteCommand emits one command cycle in wire order.
func WriteCommand(w io.Writer, cmd Command) error {
	var buf [CommandSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(cmd.Aux))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(cmd.AngleDeg))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write command frame: %w", err)
	}
	return nil
}

// WriteLine emits one status line. The host prints these as they arrive.
func WriteLine(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// WriteAck terminates the current command's response.
func WriteAck(w io.Writer) error {
	return WriteLine(w, Ack)
}
