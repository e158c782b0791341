package protocol

import (
	"errors"
	"fmt"
	"io"
)

// StepperAxis is what the server needs from the motion core: a blocking
// absolute move, the idle gate, and the position readback echoed to the
// host.
type StepperAxis interface {
	MoveTo(targetDeg float64) error
	BusyWait()
	PositionDegrees() float64
}

// AuxHandler receives the auxiliary target of each command cycle. The
// linear actuator is an external collaborator; the default handler drops
// the value.
type AuxHandler func(target float32) error

// Server runs the device side of the command link: read a command cycle,
// hand off the auxiliary target, execute the stepper move, wait for idle,
// acknowledge.
type Server struct {
	rw   io.ReadWriter
	axis StepperAxis
	aux  AuxHandler
}

// NewServer builds a server over the given stream. aux may be nil.
func NewServer(rw io.ReadWriter, axis StepperAxis, aux AuxHandler) *Server {
	if aux == nil {
		aux = func(float32) error { return nil }
	}
	return &Server{rw: rw, axis: axis, aux: aux}
}

// Serve processes command cycles until the stream ends. A clean EOF
// between frames returns nil. Motion and auxiliary errors are reported to
// the host as an "error:" line and do NOT acknowledge the cycle with ok;
// the link stays up so the host sees the failure at the call site.
func (s *Server) Serve() error {
	for {
		cmd, err := ReadCommand(s.rw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.serveOne(cmd); err != nil {
			if werr := WriteLine(s.rw, "error: "+err.Error()); werr != nil {
				return werr
			}
			continue
		}
		if err := WriteLine(s.rw, fmt.Sprintf("position: %.3f", s.axis.PositionDegrees())); err != nil {
			return err
		}
		if err := WriteAck(s.rw); err != nil {
			return err
		}
	}
}

func (s *Server) serveOne(cmd Command) error {
	if err := s.aux(cmd.Aux); err != nil {
		return fmt.Errorf("aux target %v: %w", cmd.Aux, err)
	}
	if err := s.axis.MoveTo(float64(cmd.AngleDeg)); err != nil {
		return err
	}
	s.axis.BusyWait()
	return nil
}
