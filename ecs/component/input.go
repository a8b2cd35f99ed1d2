package component

import "github.com/milk9111/dndrepro/input"

// InputFrame holds the host input snapshot for the current tick. Handlers
// read it instead of polling the host themselves.
type InputFrame struct {
	Frame input.Frame
}

var InputFrameComponent = NewComponent[InputFrame]()
