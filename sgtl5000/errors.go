package sgtl5000

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrIdentification is matched by every IdentificationError.
var ErrIdentification = errors.New("sgtl5000: identification mismatch")

// BusError is a failed bus transaction. Err is the primitive's error as
// returned, never retried. Configure returns it as is, with Step set.
type BusError struct {
	Step string // bring-up step, "" outside Configure
	Op   string // "address", "read" or "write"
	Reg  uint16
	Err  error
}

func (e *BusError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("sgtl5000: %s: %s %04x: %v", e.Step, e.Op, e.Reg, e.Err)
	}
	return fmt.Sprintf("sgtl5000: %s %04x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }
func (e *BusError) Cause() error  { return e.Err }

// IdentificationError reports a device whose PARTID is not PART_ID_SGTL5000.
type IdentificationError struct {
	PartID uint16
	RevID  uint16
}

func (e *IdentificationError) Error() string {
	return fmt.Sprintf("sgtl5000: part id 0x%02x is not 0x%02x", e.PartID, PART_ID_SGTL5000)
}

func (e *IdentificationError) Is(target error) bool { return target == ErrIdentification }

// atStep names the bring-up step a bus failure happened in. Outer steps
// are prepended.
func atStep(err error, step string) error {
	be, ok := err.(*BusError)
	if !ok {
		return errors.WithMessage(err, step)
	}
	if be.Step == "" {
		be.Step = step
	} else {
		be.Step = step + ": " + be.Step
	}
	return be
}
