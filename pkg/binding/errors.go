package binding

import (
	"fmt"

	"github.com/espcam/campanel/pkg/control"
)

// ValidationError is returned when an edit is rejected locally. The control
// keeps its previous value and nothing is written to the device.
type ValidationError struct {
	Control control.Identifier
	Warning string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Control, e.Warning)
}
