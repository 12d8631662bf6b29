package applescene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EntityInfo ties a live ECS entity back to its scene id.
type EntityInfo struct {
	ID string
}

type TransformInfo struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler degrees
	Scale    mgl32.Vec3
}

func (t TransformInfo) Matrix() mgl32.Mat4 {
	return ComposeTransform(t.Position, t.Rotation, t.Scale)
}

type CollisionBoxInfo struct {
	Position   mgl32.Vec3
	HalfExtent mgl32.Vec3
	Rotation   mgl32.Vec3
}

type ParentInfo struct {
	ParentID string
}

// Well known component type names and fields.
const (
	TransformType    = "TransformInfo"
	CollisionBoxType = "CollisionBoxInfo"
	ParentType       = "ParentInfo"

	fieldPosition   = "position"
	fieldRotation   = "rotation"
	fieldScale      = "scale"
	fieldHalfExtent = "halfExtent"
	fieldParentID   = "parentId"
)
