package component

// Camera marks an entity as a viewpoint. The sandbox drives a single free
// camera directly, so this is only consulted by tooling.
type Camera struct {
	Primary bool
}

var CameraComponent = NewComponent[Camera]("camera")
