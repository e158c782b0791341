// Package host implements the lab-PC side of the rig's command link,
// mirroring the controller's framing: one raw float pair out, echoed status
// lines back, "ok" when the move has finished.
package host

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"stimstep/protocol"
)

// LineFunc receives each status line the device emits before the ack
// (position echoes and the like). May be nil.
type LineFunc func(line string)

// Client drives one rig controller over a byte stream.
type Client struct {
	rw     io.ReadWriter
	br     *bufio.Reader
	onLine LineFunc
}

// NewClient wraps an open stream (typically a serial.Port).
func NewClient(rw io.ReadWriter, onLine LineFunc) *Client {
	if onLine == nil {
		onLine = func(string) {}
	}
	return &Client{rw: rw, br: bufio.NewReader(rw), onLine: onLine}
}

// Move sends one command cycle — auxiliary target plus absolute stepper
// angle — and blocks until the device acknowledges completion. A device
// "error:" line fails the call; the link remains usable.
func (c *Client) Move(aux, angleDeg float32) error {
	if err := protocol.WriteCommand(c.rw, protocol.Command{Aux: aux, AngleDeg: angleDeg}); err != nil {
		return err
	}
	for {
		line, err := c.br.ReadString('\n')
		if err != nil {
			return fmt.Errorf("waiting for ack: %w", err)
		}
		line = strings.TrimSpace(line)
		switch {
		case line == protocol.Ack:
			return nil
		case strings.HasPrefix(line, "error:"):
			return fmt.Errorf("device: %s", strings.TrimSpace(strings.TrimPrefix(line, "error:")))
		case line != "":
			c.onLine(line)
		}
	}
}
