package component

// Controller lets the arrow keys move an entity on its local X/Y plane.
type Controller struct {
	// Speed is in units per second.
	Speed float32
}

const DefaultControllerSpeed = 1.5

var ControllerComponent = NewComponent[Controller]("controller")
