package pmx

type BoneFlags uint16

const (
	BONE_FLAG_TAIL_BONE             BoneFlags = 1 << iota // 骨骼尾部连接到另一骨骼
	BONE_FLAG_ROTATION_ENABLED                            // 支持旋转
	BONE_FLAG_TRANSLATION_ENABLED                         // 支持移动
	BONE_FLAG_VISIBLE                                     // 可见
	BONE_FLAG_ENABLED                                     // 允许操作
	BONE_FLAG_INVERSE_KINEMATICS                          // 反向动力学
	_                                                     // 0x0040 未使用
	BONE_FLAG_LOCAL_BLEND                                 // 本地付与. 0=用户变形/IK/多重付与, 1=父骨骼的本地变形
	BONE_FLAG_BLEND_ROTATION                              // 旋转付与. 随着付与骨旋转.
	BONE_FLAG_BLEND_TRANSLATION                           // 移动付与. 随着付与骨移动.
	BONE_FLAG_TWIST_AXIS                                  // 固定轴. 限制只能绕着特定轴旋转.
	BONE_FLAG_LOCAL_AXIS                                  // 本地XZ轴指向
	BONE_FLAG_PHYSICAL_AFTER_DEFORM                       // 先计算变形, 后计算物理
	BONE_FLAG_EXTERNAL_PARENT                             // 外部父骨骼
)

func (f BoneFlags) Has(x BoneFlags) bool { return f&x == x }

// Tail 骨骼尖端的显示方式: TailBone 或 TailOffset
type Tail interface {
	Connected() bool
}

// TailBone 尖端指向另一根骨骼. 适用于 BONE_FLAG_TAIL_BONE==1
type TailBone struct {
	Bone Index
}

// TailOffset 尖端指向相对于骨骼自身的偏移量. 适用于 BONE_FLAG_TAIL_BONE==0
type TailOffset struct {
	Offset [3]float32
}

func (TailBone) Connected() bool   { return true }
func (TailOffset) Connected() bool { return false }

// Inherit 付与: 从另一根骨骼按比例继承旋转和/或移动
type Inherit struct {
	Rotation    bool
	Translation bool
	Local       bool
	Source      Index   // 付与亲骨骼
	Frac        float32 // 付与率
}

// LocalAxis 本地坐标轴, 适用于 BONE_FLAG_LOCAL_AXIS==1
type LocalAxis struct {
	X [3]float32
	Z [3]float32
}

// Limit 上下限. IK链里是弧度角, 关节里是移动量或弧度角.
type Limit struct {
	Lower [3]float32
	Upper [3]float32
}

type IKLink struct {
	Bone  Index
	Limit *Limit // nil 表示不限制角度
}

// IK 适用于 BONE_FLAG_INVERSE_KINEMATICS==1
type IK struct {
	Target       Index   // end-effector
	NumLoop      uint32  // 循环次数
	MaxAngleStep float32 // IK单步角度限制(弧度角)
	Links        []IKLink
}

// 骨骼. 可选的部分只有对应的标志位设置了才不为 nil.
type Bone struct {
	Name   string
	NameEN string

	Position [3]float32
	Parent   Index
	Layer    int32 // 变形阶层, 控制变形的顺序

	Flags BoneFlags

	Tail           Tail
	Inherit        *Inherit
	TwistAxis      *[3]float32 // 轴向旋转坐标轴, 适用于 BONE_FLAG_TWIST_AXIS==1
	LocalAxis      *LocalAxis
	ExternalParent *int32 // 外部父骨骼的键值, 适用于 BONE_FLAG_EXTERNAL_PARENT==1
	IK             *IK
}

func (b *Bone) Rotatable() bool    { return b.Flags.Has(BONE_FLAG_ROTATION_ENABLED) }
func (b *Bone) Translatable() bool { return b.Flags.Has(BONE_FLAG_TRANSLATION_ENABLED) }
func (b *Bone) Visible() bool      { return b.Flags.Has(BONE_FLAG_VISIBLE) }
func (b *Bone) Operable() bool     { return b.Flags.Has(BONE_FLAG_ENABLED) }
func (b *Bone) AfterPhysics() bool { return b.Flags.Has(BONE_FLAG_PHYSICAL_AFTER_DEFORM) }

// 可选部分在文件中紧挨着, 必须按 尖端, 付与, 固定轴, 本地轴, 外部父, IK 的顺序读.
func decodeBone(c *cursor) (b Bone) {
	b.Name = c.str()
	b.NameEN = c.str()
	b.Position = c.vec3()
	b.Parent = c.boneIndex()
	b.Layer = c.i32()
	b.Flags = BoneFlags(c.u16())

	if b.Flags.Has(BONE_FLAG_TAIL_BONE) {
		b.Tail = TailBone{Bone: c.boneIndex()}
	} else {
		b.Tail = TailOffset{Offset: c.vec3()}
	}
	rot, trans := b.Flags.Has(BONE_FLAG_BLEND_ROTATION), b.Flags.Has(BONE_FLAG_BLEND_TRANSLATION)
	if rot || trans {
		b.Inherit = &Inherit{
			Rotation:    rot,
			Translation: trans,
			Local:       b.Flags.Has(BONE_FLAG_LOCAL_BLEND),
			Source:      c.boneIndex(),
			Frac:        c.f32(),
		}
	}
	if b.Flags.Has(BONE_FLAG_TWIST_AXIS) {
		axis := c.vec3()
		b.TwistAxis = &axis
	}
	if b.Flags.Has(BONE_FLAG_LOCAL_AXIS) {
		b.LocalAxis = &LocalAxis{X: c.vec3(), Z: c.vec3()}
	}
	if b.Flags.Has(BONE_FLAG_EXTERNAL_PARENT) {
		key := c.i32()
		b.ExternalParent = &key
	}
	if b.Flags.Has(BONE_FLAG_INVERSE_KINEMATICS) {
		ik := &IK{
			Target:       c.boneIndex(),
			NumLoop:      c.u32(),
			MaxAngleStep: c.f32(),
		}
		if n := c.u32(); n > 0 {
			ik.Links = make([]IKLink, n)
			for i := range ik.Links {
				ik.Links[i].Bone = c.boneIndex()
				if c.u8() == 1 {
					ik.Links[i].Limit = &Limit{Lower: c.vec3(), Upper: c.vec3()}
				}
			}
		}
		b.IK = ik
	}
	return
}
