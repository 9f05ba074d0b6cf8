package component

// Script attaches a tengo script that runs once per frame against the
// entity's transform.
type Script struct {
	Path string
}

var ScriptComponent = NewComponent[Script]("script")
