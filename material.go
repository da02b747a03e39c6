package pmx

import "fmt"

type MaterialFlags uint8

const (
	MATERIAL_FLAG_DOUBLESIDE MaterialFlags = 1 << iota
	MATERIAL_FLAG_GROUNDSHADOW
	MATERIAL_FLAG_SELFSHADOWMAP
	MATERIAL_FLAG_SELFSHADOW
	MATERIAL_FLAG_DRAWEDGE
)

// Has 是否设置了 f 中所有的位
func (m MaterialFlags) Has(f MaterialFlags) bool { return m&f == f }

// SphereMode 环境高光纹理的混合方式
type SphereMode uint8

const (
	SPHERE_MODE_NONE       SphereMode = iota // 无效
	SPHERE_MODE_MUL                          // 乘法(sph)
	SPHERE_MODE_ADD                          // 加法(spa)
	SPHERE_MODE_SUBTEXTURE                   // 子纹理(UV参照追加UV1的x,y进行通常纹理绘制)
)

// Toon 是 ToonTexture 或 SharedToon
type Toon interface {
	Shared() bool
}

// ToonTexture 模型自带的 toon 纹理
type ToonTexture struct {
	Texture Index
}

// SharedToon 共享 toon, 0~9 对应 toon01.bmp~toon10.bmp
type SharedToon struct {
	Index uint8
}

func (ToonTexture) Shared() bool { return false }
func (SharedToon) Shared() bool  { return true }

// File 共享 toon 对应的文件名
func (t SharedToon) File() string {
	return fmt.Sprintf("toon%02d.bmp", int(t.Index)+1)
}

// 材质
type Material struct {
	Name          string
	NameEN        string
	Diffuse       [4]float32 // RGBA
	Specular      [3]float32 // RGB
	SpecularPower float32    // 系数
	Ambient       [3]float32 // RGB

	Flags MaterialFlags

	EdgeColor [4]float32
	EdgeSize  float32

	Texture   Index
	SpTexture Index // 环境高光纹理 (应该是2次元模型那种头发高光)
	SpMode    SphereMode

	Toon Toon

	Comment  string
	NumVerts uint32 // 材质对应的面索引数, 一定是3的倍数. 所有材质加起来等于面索引的总数.
}

func (m *Material) DoubleSided() bool   { return m.Flags.Has(MATERIAL_FLAG_DOUBLESIDE) }
func (m *Material) GroundShadow() bool  { return m.Flags.Has(MATERIAL_FLAG_GROUNDSHADOW) }
func (m *Material) SelfShadowMap() bool { return m.Flags.Has(MATERIAL_FLAG_SELFSHADOWMAP) }
func (m *Material) SelfShadow() bool    { return m.Flags.Has(MATERIAL_FLAG_SELFSHADOW) }
func (m *Material) DrawEdge() bool      { return m.Flags.Has(MATERIAL_FLAG_DRAWEDGE) }

func decodeMaterial(c *cursor) (m Material) {
	m.Name = c.str()
	m.NameEN = c.str()
	m.Diffuse = c.vec4()
	m.Specular = c.vec3()
	m.SpecularPower = c.f32()
	m.Ambient = c.vec3()
	m.Flags = MaterialFlags(c.u8())
	m.EdgeColor = c.vec4()
	m.EdgeSize = c.f32()
	m.Texture = c.textureIndex()
	m.SpTexture = c.textureIndex()
	m.SpMode = SphereMode(c.u8())
	if m.SpMode > SPHERE_MODE_SUBTEXTURE {
		panic(fmt.Sprintf("pmx: unreachable material sphere mode %d", m.SpMode))
	}
	switch share := c.u8(); share {
	case 0:
		m.Toon = ToonTexture{Texture: c.textureIndex()}
	case 1:
		m.Toon = SharedToon{Index: c.u8()}
	default:
		panic(fmt.Sprintf("pmx: unreachable material toon flag %d", share))
	}
	m.Comment = c.str()
	m.NumVerts = c.u32()
	return
}
