package pmx

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	pmxMagic      = 0x20584d50 // "PMX "
	pmxVersion    = 2.0
	pmxHeaderSize = 8  // 2.0版文件头后续字节数
	headerEnd     = 17 // 4 + 4 + 1 + 8
)

// Encoding 文件中字符串的编码
type Encoding uint8

const (
	UTF16LE Encoding = iota
	UTF8
)

func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF8:
		return "UTF-8"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// PMX文件头. 解析之后不再修改, 所有读取器共享同一个指针.
type Header struct {
	Magic              uint32   // "PMX " 0x20584d50
	Version            float32  // 只支持 2.0
	NumBytes           uint8    // 后续字节数, PMX2.0固定为8
	TextEncoding       Encoding // 0:UTF16 1:UTF8
	NumExtraUV         uint8    // 0 ~ 4
	SizeVertexIndex    uint8    // 1,2 或 4
	SizeTextureIndex   uint8    // 1,2 或 4
	SizeMaterialIndex  uint8    // 1,2 或 4
	SizeBoneIndex      uint8    // 1,2 或 4
	SizeMorphIndex     uint8    // 1,2 或 4
	SizeRigidBodyIndex uint8    // 1,2 或 4
}

func (h *Header) String() string {
	return fmt.Sprintf("PMX %.1f %s uv+%d index(v=%d t=%d m=%d b=%d mo=%d r=%d)",
		h.Version, h.TextEncoding, h.NumExtraUV,
		h.SizeVertexIndex, h.SizeTextureIndex, h.SizeMaterialIndex,
		h.SizeBoneIndex, h.SizeMorphIndex, h.SizeRigidBodyIndex)
}

func isValidSize(n uint8) bool {
	return n == 1 || n == 2 || n == 4
}

// decodeHeader 解析开头的17个字节.
// 检查顺序: 标志 -> 版本 -> 长度 -> 编码 -> 扩展UV -> 6个索引尺寸, 头部有错就不再往下扫描.
func decodeHeader(data []byte) (h Header, err error) {
	r := bytes.NewReader(data)

	read := func(v interface{}) bool {
		if err == nil {
			err = shortRead(binary.Read(r, binary.LittleEndian, v))
		}
		return err == nil
	}

	if !read(&h.Magic) {
		return
	}
	if h.Magic != pmxMagic {
		return h, invalidHeader("magic number %#08x", h.Magic)
	}

	if !read(&h.Version) {
		return
	}
	if h.Version != pmxVersion {
		return h, fmt.Errorf("%w %v", ErrUnsupportedVersion, h.Version)
	}

	if !read(&h.NumBytes) {
		return
	}
	if h.NumBytes != pmxHeaderSize {
		return h, invalidHeader("data length %d, want %d", h.NumBytes, pmxHeaderSize)
	}

	// 剩下8个字节整块读进来
	var info [pmxHeaderSize]uint8
	if !read(&info) {
		return
	}
	h.TextEncoding = Encoding(info[0])
	h.NumExtraUV = info[1]
	h.SizeVertexIndex = info[2]
	h.SizeTextureIndex = info[3]
	h.SizeMaterialIndex = info[4]
	h.SizeBoneIndex = info[5]
	h.SizeMorphIndex = info[6]
	h.SizeRigidBodyIndex = info[7]

	if h.TextEncoding > UTF8 {
		return h, invalidHeader("encoding %d", h.TextEncoding)
	}
	if h.NumExtraUV > 4 {
		return h, invalidHeader("extended uv %d", h.NumExtraUV)
	}
	sizes := []struct {
		name string
		size uint8
	}{
		{"vertex", h.SizeVertexIndex},
		{"texture", h.SizeTextureIndex},
		{"material", h.SizeMaterialIndex},
		{"bone", h.SizeBoneIndex},
		{"morph", h.SizeMorphIndex},
		{"rigid body", h.SizeRigidBodyIndex},
	}
	for _, s := range sizes {
		if !isValidSize(s.size) {
			return h, invalidHeader("%s index size %d, want 1,2 or 4", s.name, s.size)
		}
	}
	return h, nil
}
