package component

// Rig links a body to the entities spawned with it (ecs.Entity is uint64).
type Rig struct {
	Head      uint64
	UpProbe   uint64
	DownProbe uint64
}

var RigComponent = NewComponent[Rig]()
