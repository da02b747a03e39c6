package pmx

import "fmt"

type JointType uint8

const (
	JOINT_TYPE_SPRING_6DOF JointType = iota // 带弹簧的 6DOF (Bullet 的 btGeneric6DofSpringConstraint)
)

// 刚体物理的连接点 (注意Joint不是骨骼的关节)
type Joint struct {
	Name   string
	NameEN string

	Type JointType // 2.0 只有 JOINT_TYPE_SPRING_6DOF

	RigidBodyA Index // 相关刚体A
	RigidBodyB Index // 相关刚体B

	Position [3]float32 // (x,y,z) 位置
	Rotation [3]float32 // (x,y,z) 旋转 (弧度角)

	TranslationLimit Limit // (x,y,z) 移动上下限
	RotationLimit    Limit // (x,y,z) 旋转上下限 (弧度角)

	SpringTranslation [3]float32 // (x,y,z) 弹簧移动常数
	SpringRotation    [3]float32 // (x,y,z) 弹簧旋转常数
}

func decodeJoint(c *cursor) (j Joint) {
	j.Name = c.str()
	j.NameEN = c.str()
	j.Type = JointType(c.u8())
	if j.Type != JOINT_TYPE_SPRING_6DOF {
		panic(fmt.Sprintf("pmx: unreachable joint type %d", j.Type))
	}
	j.RigidBodyA = c.rigidIndex()
	j.RigidBodyB = c.rigidIndex()
	j.Position = c.vec3()
	j.Rotation = c.vec3()
	j.TranslationLimit.Lower = c.vec3()
	j.TranslationLimit.Upper = c.vec3()
	j.RotationLimit.Lower = c.vec3()
	j.RotationLimit.Upper = c.vec3()
	j.SpringTranslation = c.vec3()
	j.SpringRotation = c.vec3()
	return
}
