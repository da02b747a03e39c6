package pmx

import "fmt"

type RigidShape uint8

const (
	RIGID_SHAPE_SPHERE  RigidShape = iota // 球
	RIGID_SHAPE_BOX                       // 盒
	RIGID_SHAPE_CAPSULE                   // 胶囊
)

type RigidPhysical uint8

const (
	RIGID_PHYSICAL_BONE         RigidPhysical = iota // 静态绑到骨骼(仅碰撞)
	RIGID_PHYSICAL_DYNAMIC                           // 动态物理演算(重力)
	RIGID_PHYSICAL_DYNAMIC_BONE                      // 动态物理演算(重力) + 绑骨骼
)

// 刚体
type RigidBody struct {
	Name   string
	NameEN string

	Bone Index // 关联的骨骼

	Group             uint8  // 分组
	NonCollisionGroup uint16 // PE里的"非冲突group"掩码

	Shape    RigidShape // RIGID_SHAPE_*
	Size     [3]float32 // (x,y,z) 尺寸
	Position [3]float32 // (x,y,z) 位置
	Rotation [3]float32 // (x,y,z) 旋转 (弧度角)

	Mass               float32 // 物理量: 质量
	TranslationDamping float32 // 物理量: 移动衰减 attenuation
	RotationDamping    float32 // 物理量: 旋转衰减
	Repulsion          float32 // 物理量: 排斥力
	Friction           float32 // 物理量: 摩檫力

	Physical RigidPhysical // RIGID_PHYSICAL_*
}

func decodeRigidBody(c *cursor) (r RigidBody) {
	r.Name = c.str()
	r.NameEN = c.str()
	r.Bone = c.boneIndex()
	r.Group = c.u8()
	r.NonCollisionGroup = c.u16()
	r.Shape = RigidShape(c.u8())
	if r.Shape > RIGID_SHAPE_CAPSULE {
		panic(fmt.Sprintf("pmx: unreachable rigid shape %d", r.Shape))
	}
	r.Size = c.vec3()
	r.Position = c.vec3()
	r.Rotation = c.vec3()
	r.Mass = c.f32()
	r.TranslationDamping = c.f32()
	r.RotationDamping = c.f32()
	r.Repulsion = c.f32()
	r.Friction = c.f32()
	r.Physical = RigidPhysical(c.u8())
	if r.Physical > RIGID_PHYSICAL_DYNAMIC_BONE {
		panic(fmt.Sprintf("pmx: unreachable rigid method %d", r.Physical))
	}
	return
}
