package pmx

import "fmt"

// Morph在mmd软件中的分组. 主要是便于界面操作, 对模型本身意义不大.
type MorphPanel uint8

const (
	MORPH_PANEL_0        MorphPanel = iota //
	MORPH_PANEL_1_BROW                     // 1:眉(左下)
	MORPH_PANEL_2_EYE                      // 2:目(左上)
	MORPH_PANEL_3_MOUTH                    // 3:口(右上)
	MORPH_PANEL_4_OTHERS                   // 4:其他(右下)
)

type MorphType uint8

const (
	MORPH_TYPE_PROXY MorphType = iota // MMD 里的组合变形
	MORPH_TYPE_POSITION
	MORPH_TYPE_BONE
	MORPH_TYPE_UV
	MORPH_TYPE_UV1
	MORPH_TYPE_UV2
	MORPH_TYPE_UV3
	MORPH_TYPE_UV4
	MORPH_TYPE_MATERIAL
)

func (t MorphType) String() string {
	switch t {
	case MORPH_TYPE_PROXY:
		return "group"
	case MORPH_TYPE_POSITION:
		return "vertex"
	case MORPH_TYPE_BONE:
		return "bone"
	case MORPH_TYPE_UV:
		return "uv"
	case MORPH_TYPE_UV1, MORPH_TYPE_UV2, MORPH_TYPE_UV3, MORPH_TYPE_UV4:
		return fmt.Sprintf("uv%d", t-MORPH_TYPE_UV)
	case MORPH_TYPE_MATERIAL:
		return "material"
	}
	return fmt.Sprintf("MorphType(%d)", uint8(t))
}

// 材质变形的计算方式: 绘制值 = 材质值 x 乘法值 + 加法值
type MaterialMorphOp uint8

const (
	MATERIAL_MORPH_MUL MaterialMorphOp = iota
	MATERIAL_MORPH_ADD
)

// 材质变形固定部分的字节数 (运算方式之后)
const materialMorphSize = 16 + 12 + 4 + 12 + 16 + 4 + 16 + 16 + 16

type ProxyMorphOffset struct {
	Morph Index
	Frac  float32
}

type PositionMorphOffset struct {
	Vertex uint32
	Offset [3]float32
}

type BoneMorphOffset struct {
	Bone        Index
	Translation [3]float32
	Rotation    [4]float32 // Quaternion 四元组 (x, y, z, w)
}

type UVMorphOffset struct {
	Vertex uint32
	Offset [4]float32 // MORPH_TYPE_UV 只用到x和y
}

type MaterialMorphOffset struct {
	Material      Index // 无效索引表示全部材质
	Op            MaterialMorphOp
	Diffuse       [4]float32
	Specular      [3]float32
	SpecularPower float32
	Ambient       [3]float32
	EdgeColor     [4]float32
	EdgeSize      float32
	Texture       [4]float32
	SpTexture     [4]float32
	ToonTexture   [4]float32
}

// MorphOffsets 是以下几种之一:
// GroupOffsets, VertexOffsets, BoneOffsets, UVOffsets, ExtraUVOffsets, MaterialOffsets
type MorphOffsets interface {
	Len() int
}

type GroupOffsets []ProxyMorphOffset
type VertexOffsets []PositionMorphOffset
type BoneOffsets []BoneMorphOffset
type UVOffsets []UVMorphOffset
type MaterialOffsets []MaterialMorphOffset

// ExtraUVOffsets 追加UV的变形, Channel 为 0~3 对应 MORPH_TYPE_UV1~MORPH_TYPE_UV4
type ExtraUVOffsets struct {
	Channel int
	Offsets []UVMorphOffset
}

func (o GroupOffsets) Len() int    { return len(o) }
func (o VertexOffsets) Len() int   { return len(o) }
func (o BoneOffsets) Len() int     { return len(o) }
func (o UVOffsets) Len() int       { return len(o) }
func (o MaterialOffsets) Len() int { return len(o) }
func (o ExtraUVOffsets) Len() int  { return len(o.Offsets) }

// 变形动画
type Morph struct {
	Name   string
	NameEN string

	Panel MorphPanel // MORPH_PANEL_*
	Type  MorphType  // MORPH_TYPE_*

	Offsets MorphOffsets
}

func decodeUVOffsets(c *cursor, n uint32) []UVMorphOffset {
	offsets := make([]UVMorphOffset, n)
	for i := range offsets {
		offsets[i].Vertex = c.vertexIndex()
		offsets[i].Offset = c.vec4()
	}
	return offsets
}

func decodeMorph(c *cursor) (m Morph) {
	m.Name = c.str()
	m.NameEN = c.str()
	m.Panel = MorphPanel(c.u8())
	m.Type = MorphType(c.u8())
	n := c.u32()

	switch m.Type {
	case MORPH_TYPE_PROXY:
		offsets := make(GroupOffsets, n)
		for i := range offsets {
			offsets[i].Morph = c.morphIndex()
			offsets[i].Frac = c.f32()
		}
		m.Offsets = offsets
	case MORPH_TYPE_POSITION:
		offsets := make(VertexOffsets, n)
		for i := range offsets {
			offsets[i].Vertex = c.vertexIndex()
			offsets[i].Offset = c.vec3()
		}
		m.Offsets = offsets
	case MORPH_TYPE_BONE:
		offsets := make(BoneOffsets, n)
		for i := range offsets {
			offsets[i].Bone = c.boneIndex()
			offsets[i].Translation = c.vec3()
			offsets[i].Rotation = c.vec4()
		}
		m.Offsets = offsets
	case MORPH_TYPE_UV:
		m.Offsets = UVOffsets(decodeUVOffsets(c, n))
	case MORPH_TYPE_UV1, MORPH_TYPE_UV2, MORPH_TYPE_UV3, MORPH_TYPE_UV4:
		m.Offsets = ExtraUVOffsets{
			Channel: int(m.Type - MORPH_TYPE_UV1),
			Offsets: decodeUVOffsets(c, n),
		}
	case MORPH_TYPE_MATERIAL:
		offsets := make(MaterialOffsets, n)
		for i := range offsets {
			o := &offsets[i]
			o.Material = c.materialIndex()
			o.Op = MaterialMorphOp(c.u8())
			o.Diffuse = c.vec4()
			o.Specular = c.vec3()
			o.SpecularPower = c.f32()
			o.Ambient = c.vec3()
			o.EdgeColor = c.vec4()
			o.EdgeSize = c.f32()
			o.Texture = c.vec4()
			o.SpTexture = c.vec4()
			o.ToonTexture = c.vec4()
		}
		m.Offsets = offsets
	default:
		panic(fmt.Sprintf("pmx: unreachable morph type %d", m.Type))
	}
	return
}
