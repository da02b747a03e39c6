package pmx

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// builder 在测试里拼出 PMX 文件
type builder struct {
	bytes.Buffer
	h Header
}

func testHeader(enc Encoding, size uint8) Header {
	return Header{
		Magic:              pmxMagic,
		Version:            pmxVersion,
		NumBytes:           pmxHeaderSize,
		TextEncoding:       enc,
		NumExtraUV:         1,
		SizeVertexIndex:    size,
		SizeTextureIndex:   size,
		SizeMaterialIndex:  size,
		SizeBoneIndex:      size,
		SizeMorphIndex:     size,
		SizeRigidBodyIndex: size,
	}
}

func newBuilder(h Header) *builder {
	b := &builder{h: h}
	b.u32(h.Magic)
	b.f32(h.Version)
	b.u8(h.NumBytes, uint8(h.TextEncoding), h.NumExtraUV,
		h.SizeVertexIndex, h.SizeTextureIndex, h.SizeMaterialIndex,
		h.SizeBoneIndex, h.SizeMorphIndex, h.SizeRigidBodyIndex)
	return b
}

func (b *builder) u8(v ...uint8) { b.Write(v) }

func (b *builder) u16(v uint16) { binary.Write(b, binary.LittleEndian, v) }

func (b *builder) u32(v uint32) { binary.Write(b, binary.LittleEndian, v) }

func (b *builder) i32(v int32) { binary.Write(b, binary.LittleEndian, v) }

func (b *builder) f32(v ...float32) {
	for _, f := range v {
		b.u32(math.Float32bits(f))
	}
}

// raw 写入带长度前缀的原始字节
func (b *builder) raw(p []byte) {
	b.u32(uint32(len(p)))
	b.Write(p)
}

func (b *builder) str(s string) {
	if b.h.TextEncoding == UTF8 {
		b.raw([]byte(s))
		return
	}
	var p []byte
	for _, u := range utf16.Encode([]rune(s)) {
		p = append(p, byte(u), byte(u>>8))
	}
	b.raw(p)
}

func (b *builder) index(size uint8, v int32) {
	switch size {
	case 1:
		b.u8(uint8(int8(v)))
	case 2:
		b.u16(uint16(int16(v)))
	case 4:
		b.i32(v)
	}
}

func (b *builder) vertex(v uint32) {
	switch b.h.SizeVertexIndex {
	case 1:
		b.u8(uint8(v))
	case 2:
		b.u16(uint16(v))
	case 4:
		b.u32(v)
	}
}

func (b *builder) texture(v int32)  { b.index(b.h.SizeTextureIndex, v) }
func (b *builder) material(v int32) { b.index(b.h.SizeMaterialIndex, v) }
func (b *builder) bone(v int32)     { b.index(b.h.SizeBoneIndex, v) }
func (b *builder) morph(v int32)    { b.index(b.h.SizeMorphIndex, v) }
func (b *builder) rigid(v int32)    { b.index(b.h.SizeRigidBodyIndex, v) }

var sectionNames = []string{
	"vertices", "faces", "textures", "materials", "bones",
	"morphs", "display groups", "rigid bodies", "joints",
}

// buildModel 写出文件头和4个文本, 然后按顺序写9个区段. sections 里没有的区段写成空的.
func buildModel(h Header, sections map[string]func(*builder)) []byte {
	b := newBuilder(h)
	b.str("テスト")
	b.str("test")
	b.str("comment")
	b.str("")
	for _, name := range sectionNames {
		if fill, ok := sections[name]; ok {
			fill(b)
		} else {
			b.u32(0)
		}
	}
	return b.Bytes()
}

const deg = math.Pi / 180

var sampleSections = map[string]func(*builder){
	"vertices": func(b *builder) {
		b.u32(4)
		for i, m := range []BoneMethod{BDEF1, BDEF2, BDEF4, SDEF} {
			b.f32(float32(i), 1, 2)
			b.f32(0, 1, 0)
			b.f32(0.5, 0.25)
			for k := 0; k < int(b.h.NumExtraUV); k++ {
				b.f32(1, 2, 3, 4)
			}
			b.u8(uint8(m))
			switch m {
			case BDEF1:
				b.bone(0)
			case BDEF2:
				b.bone(0)
				b.bone(1)
				b.f32(0.75)
			case BDEF4:
				b.bone(0)
				b.bone(1)
				b.bone(2)
				b.bone(-1)
				b.f32(0.4, 0.3, 0.2, 0.1)
			case SDEF:
				b.bone(1)
				b.bone(2)
				b.f32(0.5)
				b.f32(1, 1, 1, 2, 2, 2, 3, 3, 3)
			}
			b.f32(1)
		}
	},
	"faces": func(b *builder) {
		b.u32(6)
		for _, v := range []uint32{0, 1, 2, 2, 3, 0} {
			b.vertex(v)
		}
	},
	"textures": func(b *builder) {
		b.u32(2)
		b.str(`tex\body.png`)
		b.str("hair.tga")
	},
	"materials": func(b *builder) {
		b.u32(2)

		b.str("body")
		b.str("body_en")
		b.f32(1, 1, 1, 1)
		b.f32(0.1, 0.2, 0.3)
		b.f32(5)
		b.f32(0.5, 0.5, 0.5)
		b.u8(uint8(MATERIAL_FLAG_DOUBLESIDE | MATERIAL_FLAG_DRAWEDGE))
		b.f32(0, 0, 0, 1)
		b.f32(1)
		b.texture(0)
		b.texture(-1)
		b.u8(uint8(SPHERE_MODE_NONE))
		b.u8(0)
		b.texture(1)
		b.str("memo")
		b.u32(3)

		b.str("hair")
		b.str("")
		b.f32(1, 1, 1, 0.5)
		b.f32(0, 0, 0)
		b.f32(1)
		b.f32(0, 0, 0)
		b.u8(0x1f)
		b.f32(0, 0, 0, 1)
		b.f32(0.5)
		b.texture(1)
		b.texture(0)
		b.u8(uint8(SPHERE_MODE_ADD))
		b.u8(1)
		b.u8(3)
		b.str("")
		b.u32(3)
	},
	"bones": func(b *builder) {
		b.u32(3)

		b.str("センター")
		b.str("center")
		b.f32(0, 1, 0)
		b.bone(-1)
		b.i32(0)
		b.u16(uint16(BONE_FLAG_ROTATION_ENABLED | BONE_FLAG_TRANSLATION_ENABLED | BONE_FLAG_VISIBLE | BONE_FLAG_ENABLED))
		b.f32(0, 1, 0)

		b.str("腕")
		b.str("arm")
		b.f32(1, 2, 3)
		b.bone(0)
		b.i32(1)
		b.u16(uint16(BONE_FLAG_TAIL_BONE | BONE_FLAG_ROTATION_ENABLED | BONE_FLAG_LOCAL_BLEND |
			BONE_FLAG_BLEND_ROTATION | BONE_FLAG_TWIST_AXIS | BONE_FLAG_LOCAL_AXIS |
			BONE_FLAG_EXTERNAL_PARENT | BONE_FLAG_PHYSICAL_AFTER_DEFORM))
		b.bone(2)
		b.bone(0)
		b.f32(0.5)
		b.f32(1, 0, 0)
		b.f32(1, 0, 0, 0, 0, 1)
		b.i32(7)

		b.str("足IK")
		b.str("leg IK")
		b.f32(0, 0, 0)
		b.bone(0)
		b.i32(2)
		b.u16(uint16(BONE_FLAG_INVERSE_KINEMATICS | BONE_FLAG_TRANSLATION_ENABLED))
		b.f32(0, 0, 1)
		b.bone(1)
		b.u32(40)
		b.f32(2)
		b.u32(2)
		b.bone(1)
		b.u8(1)
		b.f32(-3.14, 0, 0, -0.01, 0, 0)
		b.bone(0)
		b.u8(0)
	},
	"morphs": func(b *builder) {
		b.u32(6)

		b.str("group")
		b.str("")
		b.u8(uint8(MORPH_PANEL_4_OTHERS), uint8(MORPH_TYPE_PROXY))
		b.u32(1)
		b.morph(1)
		b.f32(0.5)

		b.str("vertex")
		b.str("")
		b.u8(uint8(MORPH_PANEL_1_BROW), uint8(MORPH_TYPE_POSITION))
		b.u32(2)
		b.vertex(0)
		b.f32(1, 2, 3)
		b.vertex(3)
		b.f32(4, 5, 6)

		b.str("bone")
		b.str("")
		b.u8(uint8(MORPH_PANEL_2_EYE), uint8(MORPH_TYPE_BONE))
		b.u32(1)
		b.bone(1)
		b.f32(0, 1, 0)
		b.f32(0, 0, 0, 1)

		b.str("uv")
		b.str("")
		b.u8(uint8(MORPH_PANEL_3_MOUTH), uint8(MORPH_TYPE_UV))
		b.u32(1)
		b.vertex(2)
		b.f32(0.1, 0.2, 0, 0)

		b.str("uv2")
		b.str("")
		b.u8(uint8(MORPH_PANEL_4_OTHERS), uint8(MORPH_TYPE_UV2))
		b.u32(1)
		b.vertex(1)
		b.f32(1, 1, 1, 1)

		b.str("material")
		b.str("")
		b.u8(uint8(MORPH_PANEL_4_OTHERS), uint8(MORPH_TYPE_MATERIAL))
		b.u32(1)
		b.material(-1)
		b.u8(uint8(MATERIAL_MORPH_ADD))
		for i := 0; i < materialMorphSize/4; i++ {
			b.f32(float32(i))
		}
	},
	"display groups": func(b *builder) {
		b.u32(2)

		b.str("Root")
		b.str("Root")
		b.u8(1)
		b.u32(1)
		b.u8(uint8(DISPLAY_ELEM_BONE))
		b.bone(0)

		b.str("表情")
		b.str("Exp")
		b.u8(1)
		b.u32(2)
		b.u8(uint8(DISPLAY_ELEM_MORPH))
		b.morph(0)
		b.u8(uint8(DISPLAY_ELEM_MORPH))
		b.morph(5)
	},
	"rigid bodies": func(b *builder) {
		b.u32(1)
		b.str("頭")
		b.str("head")
		b.bone(1)
		b.u8(3)
		b.u16(0xfffe)
		b.u8(uint8(RIGID_SHAPE_CAPSULE))
		b.f32(1, 2, 0)
		b.f32(0, 15, 0)
		b.f32(0, 0, 0)
		b.f32(1, 0.5, 0.5, 0, 0.5)
		b.u8(uint8(RIGID_PHYSICAL_DYNAMIC_BONE))
	},
	"joints": func(b *builder) {
		b.u32(1)
		b.str("リボン右")
		b.str("")
		b.u8(uint8(JOINT_TYPE_SPRING_6DOF))
		b.rigid(0)
		b.rigid(-1)
		b.f32(0, 15, 0)
		b.f32(0, 0, 0)
		b.f32(-1, -1, -1, 1, 1, 1)
		b.f32(0, 0, float32(-5*deg), 0, 0, float32(20*deg))
		b.f32(0, 0, 0)
		b.f32(10, 10, 10)
	},
}

func sampleModel(h Header) []byte {
	return buildModel(h, sampleSections)
}

// withSection 用 fill 替换 sampleSections 里的一个区段
func withSection(name string, fill func(*builder)) map[string]func(*builder) {
	m := make(map[string]func(*builder), len(sampleSections))
	for k, v := range sampleSections {
		m[k] = v
	}
	m[name] = fill
	return m
}
