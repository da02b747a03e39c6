package pmx

import "fmt"

// BoneMethod 顶点的骨骼变形方式, 决定 Weight 的具体类型
type BoneMethod uint8

const (
	BDEF1 BoneMethod = iota
	BDEF2
	BDEF4
	SDEF
)

func (m BoneMethod) String() string {
	switch m {
	case BDEF1:
		return "BDEF1"
	case BDEF2:
		return "BDEF2"
	case BDEF4:
		return "BDEF4"
	case SDEF:
		return "SDEF"
	}
	return fmt.Sprintf("BoneMethod(%d)", uint8(m))
}

// Weight 是以下四种之一: BDEF1Weight, BDEF2Weight, BDEF4Weight, SDEFWeight
type Weight interface {
	Method() BoneMethod
}

// BDEF1Weight 只受一根骨骼影响
type BDEF1Weight struct {
	Bone Index
}

// BDEF2Weight 两根骨骼, Bones[1] 的权重是 1-Weight
type BDEF2Weight struct {
	Bones  [2]Index
	Weight float32
}

// BDEF4Weight 四根骨骼, 权重之和不一定是1
type BDEF4Weight struct {
	Bones   [4]Index
	Weights [4]float32
}

// SDEFWeight 球面变形
type SDEFWeight struct {
	Bones  [2]Index
	Weight float32
	C      [3]float32
	R0     [3]float32
	R1     [3]float32
}

func (BDEF1Weight) Method() BoneMethod { return BDEF1 }
func (BDEF2Weight) Method() BoneMethod { return BDEF2 }
func (BDEF4Weight) Method() BoneMethod { return BDEF4 }
func (SDEFWeight) Method() BoneMethod  { return SDEF }

// 顶点
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	ExtraUV  [][4]float32 // 长度等于 Header.NumExtraUV

	Weight Weight

	EdgeFrac float32 // 材质描边倍率
}

func decodeVertex(c *cursor) (v Vertex) {
	v.Position = c.vec3()
	v.Normal = c.vec3()
	v.UV = c.vec2()
	if n := int(c.hdr.NumExtraUV); n > 0 {
		v.ExtraUV = make([][4]float32, n)
		for i := range v.ExtraUV {
			v.ExtraUV[i] = c.vec4()
		}
	}
	switch m := BoneMethod(c.u8()); m {
	case BDEF1:
		v.Weight = BDEF1Weight{Bone: c.boneIndex()}
	case BDEF2:
		w := BDEF2Weight{Bones: [2]Index{c.boneIndex(), c.boneIndex()}}
		w.Weight = c.f32()
		v.Weight = w
	case BDEF4:
		var w BDEF4Weight
		for i := range w.Bones {
			w.Bones[i] = c.boneIndex()
		}
		w.Weights = c.vec4()
		v.Weight = w
	case SDEF:
		w := SDEFWeight{Bones: [2]Index{c.boneIndex(), c.boneIndex()}}
		w.Weight = c.f32()
		w.C = c.vec3()
		w.R0 = c.vec3()
		w.R1 = c.vec3()
		v.Weight = w
	default:
		panic(fmt.Sprintf("pmx: unreachable vertex weight type %d", m))
	}
	v.EdgeFrac = c.f32()
	return
}
