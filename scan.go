package pmx

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// offsets 各部分在文件中的起始位置. 扫描一次之后不再改变.
type offsets struct {
	name      int
	nameEN    int
	comment   int
	commentEN int

	vertices      int
	faces         int
	textures      int
	materials     int
	bones         int
	morphs        int
	displayGroups int
	rigids        int
	joints        int
}

// scanner 从头到尾走一遍文件, 只跳字节, 记录每个区段的起始位置,
// 并检查决定后续长度的类型字节. 这里的跳过算法就是文件格式本身, 差一个字节后面全错.
type scanner struct {
	seeker
	hdr *Header
	off offsets
}

func scan(data []byte, hdr *Header, logger *log.Logger) (offsets, error) {
	sc := &scanner{seeker: seeker{data: data, pos: headerEnd}, hdr: hdr}

	sections := []struct {
		name string
		at   *int
		fn   func() (uint32, error)
	}{
		{"text info", nil, sc.scanTextInfo},
		{"vertices", &sc.off.vertices, sc.scanVertices},
		{"faces", &sc.off.faces, sc.scanFaces},
		{"textures", &sc.off.textures, sc.scanTextures},
		{"materials", &sc.off.materials, sc.scanMaterials},
		{"bones", &sc.off.bones, sc.scanBones},
		{"morphs", &sc.off.morphs, sc.scanMorphs},
		{"display groups", &sc.off.displayGroups, sc.scanDisplayGroups},
		{"rigid bodies", &sc.off.rigids, sc.scanRigidBodies},
		{"joints", &sc.off.joints, sc.scanJoints},
	}
	for _, s := range sections {
		start := sc.position()
		if s.at != nil {
			*s.at = start
		}
		n, err := s.fn()
		if err != nil {
			return offsets{}, fmt.Errorf("pmx: error scanning %s: %w", s.name, err)
		}
		logger.Debug("scanned", "section", s.name, "offset", start, "count", n, "bytes", sc.position()-start)
	}
	if rest := len(data) - sc.position(); rest > 0 {
		logger.Debug("trailing bytes after joints", "bytes", rest)
	}
	return sc.off, nil
}

func (sc *scanner) scanTextInfo() (n uint32, err error) {
	for _, at := range []*int{&sc.off.name, &sc.off.nameEN, &sc.off.comment, &sc.off.commentEN} {
		if *at, err = sc.skipString(); err != nil {
			return
		}
		n++
	}
	return
}

func (sc *scanner) scanVertices() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	b := int(sc.hdr.SizeBoneIndex)
	fixed := 12 + 12 + 8 + 16*int(sc.hdr.NumExtraUV)
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skip(fixed); err != nil {
			return
		}
		var t uint8
		if t, err = sc.u8(); err != nil {
			return
		}
		var weight int
		switch BoneMethod(t) {
		case BDEF1:
			weight = b
		case BDEF2:
			weight = 2*b + 4
		case BDEF4:
			weight = 4*b + 4*4
		case SDEF:
			weight = 2*b + 4 + 12*3
		default:
			return n, invalidData("vertex weight type %d (vertex %d)", t, i)
		}
		// 权重之后是描边倍率
		if _, err = sc.skip(weight + 4); err != nil {
			return
		}
	}
	return
}

func (sc *scanner) scanFaces() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	// n 是索引数, 不是面数
	if n%3 != 0 {
		return n, invalidData("faces: %d indices is not a multiple of 3", n)
	}
	_, err = sc.skip(int(sc.hdr.SizeVertexIndex) * int(n))
	return
}

func (sc *scanner) scanTextures() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skipString(); err != nil {
			return
		}
	}
	return
}

func (sc *scanner) scanMaterials() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	t := int(sc.hdr.SizeTextureIndex)
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skipString(); err != nil {
			return
		}
		if _, err = sc.skipString(); err != nil {
			return
		}
		// 漫反射, 高光, 高光系数, 环境光, 标志, 描边颜色, 描边宽度, 纹理, 环境高光纹理
		if _, err = sc.skip(16 + 12 + 4 + 12 + 1 + 16 + 4 + 2*t); err != nil {
			return
		}
		var mode, share uint8
		if mode, err = sc.u8(); err != nil {
			return
		}
		if SphereMode(mode) > SPHERE_MODE_SUBTEXTURE {
			return n, invalidData("material sphere mode %d (material %d)", mode, i)
		}
		if share, err = sc.u8(); err != nil {
			return
		}
		switch share {
		case 0:
			_, err = sc.skip(t)
		case 1:
			_, err = sc.skip(1)
		default:
			return n, invalidData("material toon flag %d (material %d)", share, i)
		}
		if err != nil {
			return
		}
		if _, err = sc.skipString(); err != nil {
			return
		}
		if _, err = sc.skip(4); err != nil {
			return
		}
	}
	return
}

func (sc *scanner) scanBones() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	b := int(sc.hdr.SizeBoneIndex)
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skipString(); err != nil {
			return
		}
		if _, err = sc.skipString(); err != nil {
			return
		}
		// 位置, 父骨骼, 变形阶层
		if _, err = sc.skip(12 + b + 4); err != nil {
			return
		}
		var raw uint16
		if raw, err = sc.u16(); err != nil {
			return
		}
		flags := BoneFlags(raw)

		size := 12
		if flags.Has(BONE_FLAG_TAIL_BONE) {
			size = b
		}
		if flags.Has(BONE_FLAG_BLEND_ROTATION) || flags.Has(BONE_FLAG_BLEND_TRANSLATION) {
			size += b + 4
		}
		if flags.Has(BONE_FLAG_TWIST_AXIS) {
			size += 12
		}
		if flags.Has(BONE_FLAG_LOCAL_AXIS) {
			size += 12 + 12
		}
		if flags.Has(BONE_FLAG_EXTERNAL_PARENT) {
			size += 4
		}
		if _, err = sc.skip(size); err != nil {
			return
		}

		if !flags.Has(BONE_FLAG_INVERSE_KINEMATICS) {
			continue
		}
		// 目标骨骼, 循环次数, 单步角度
		if _, err = sc.skip(b + 4 + 4); err != nil {
			return
		}
		var links uint32
		if links, err = sc.u32(); err != nil {
			return
		}
		for j := uint32(0); j < links; j++ {
			if _, err = sc.skip(b); err != nil {
				return
			}
			var limit uint8
			if limit, err = sc.u8(); err != nil {
				return
			}
			if limit == 1 {
				if _, err = sc.skip(12 + 12); err != nil {
					return
				}
			}
		}
	}
	return
}

func (sc *scanner) scanMorphs() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	h := sc.hdr
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skipString(); err != nil {
			return
		}
		if _, err = sc.skipString(); err != nil {
			return
		}
		var panel, typ uint8
		if panel, err = sc.u8(); err != nil {
			return
		}
		if MorphPanel(panel) > MORPH_PANEL_4_OTHERS {
			return n, invalidData("morph panel %d (morph %d)", panel, i)
		}
		if typ, err = sc.u8(); err != nil {
			return
		}
		var count uint32
		if count, err = sc.u32(); err != nil {
			return
		}

		var size int
		switch MorphType(typ) {
		case MORPH_TYPE_PROXY:
			size = int(h.SizeMorphIndex) + 4
		case MORPH_TYPE_POSITION:
			size = int(h.SizeVertexIndex) + 12
		case MORPH_TYPE_BONE:
			size = int(h.SizeBoneIndex) + 12 + 16
		case MORPH_TYPE_UV, MORPH_TYPE_UV1, MORPH_TYPE_UV2, MORPH_TYPE_UV3, MORPH_TYPE_UV4:
			size = int(h.SizeVertexIndex) + 16
		case MORPH_TYPE_MATERIAL:
			// 每一项都要检查运算方式, 不能整块跳过
			for j := uint32(0); j < count; j++ {
				if _, err = sc.skip(int(h.SizeMaterialIndex)); err != nil {
					return
				}
				var op uint8
				if op, err = sc.u8(); err != nil {
					return
				}
				if MaterialMorphOp(op) > MATERIAL_MORPH_ADD {
					return n, invalidData("morph material op %d (morph %d)", op, i)
				}
				if _, err = sc.skip(materialMorphSize); err != nil {
					return
				}
			}
			continue
		default:
			return n, invalidData("morph type %d (morph %d)", typ, i)
		}
		if _, err = sc.skip(size * int(count)); err != nil {
			return
		}
	}
	return
}

func (sc *scanner) scanDisplayGroups() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skipString(); err != nil {
			return
		}
		if _, err = sc.skipString(); err != nil {
			return
		}
		// 特殊枠标志
		if _, err = sc.skip(1); err != nil {
			return
		}
		var count uint32
		if count, err = sc.u32(); err != nil {
			return
		}
		for j := uint32(0); j < count; j++ {
			var t uint8
			if t, err = sc.u8(); err != nil {
				return
			}
			switch DisplayElemType(t) {
			case DISPLAY_ELEM_BONE:
				_, err = sc.skip(int(sc.hdr.SizeBoneIndex))
			case DISPLAY_ELEM_MORPH:
				_, err = sc.skip(int(sc.hdr.SizeMorphIndex))
			default:
				return n, invalidData("display group element %d (group %d)", t, i)
			}
			if err != nil {
				return
			}
		}
	}
	return
}

func (sc *scanner) scanRigidBodies() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skipString(); err != nil {
			return
		}
		if _, err = sc.skipString(); err != nil {
			return
		}
		// 骨骼, 分组, 非冲突掩码
		if _, err = sc.skip(int(sc.hdr.SizeBoneIndex) + 1 + 2); err != nil {
			return
		}
		var shape, physical uint8
		if shape, err = sc.u8(); err != nil {
			return
		}
		if RigidShape(shape) > RIGID_SHAPE_CAPSULE {
			return n, invalidData("rigid shape %d (rigid body %d)", shape, i)
		}
		// 尺寸, 位置, 旋转, 质量, 移动衰减, 旋转衰减, 排斥力, 摩擦力
		if _, err = sc.skip(12*3 + 4*5); err != nil {
			return
		}
		if physical, err = sc.u8(); err != nil {
			return
		}
		if RigidPhysical(physical) > RIGID_PHYSICAL_DYNAMIC_BONE {
			return n, invalidData("rigid method %d (rigid body %d)", physical, i)
		}
	}
	return
}

func (sc *scanner) scanJoints() (n uint32, err error) {
	if n, err = sc.u32(); err != nil {
		return
	}
	for i := uint32(0); i < n; i++ {
		if _, err = sc.skipString(); err != nil {
			return
		}
		if _, err = sc.skipString(); err != nil {
			return
		}
		var t uint8
		if t, err = sc.u8(); err != nil {
			return
		}
		if JointType(t) != JOINT_TYPE_SPRING_6DOF {
			return n, invalidData("joint type %d (joint %d)", t, i)
		}
		// 两个刚体, 位置, 旋转, 移动/旋转上下限, 两组弹簧常数
		if _, err = sc.skip(2*int(sc.hdr.SizeRigidBodyIndex) + 12*2 + 12*4 + 12*2); err != nil {
			return
		}
	}
	return
}
