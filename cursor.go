package pmx

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Index 指向纹理/材质/骨骼/变形/刚体区段中的一条记录.
// 文件里用有符号整数保存, 负数表示"无", 统一解码成 NoIndex.
type Index int32

// NoIndex 表示没有引用任何记录
const NoIndex Index = -1

// Valid 是否引用了某条记录
func (i Index) Valid() bool { return i >= 0 }

// Get 返回记录序号, 第二个返回值为 false 时表示没有引用
func (i Index) Get() (int, bool) { return int(i), i >= 0 }

func (i Index) String() string {
	if i < 0 {
		return "none"
	}
	return fmt.Sprintf("#%d", int32(i))
}

func signedIndex[T constraints.Signed](v T) Index {
	if v < 0 {
		return NoIndex
	}
	return Index(v)
}

// seeker 只在结构扫描时使用. 它只跳过字节, 只读取决定后续长度的类型字节.
// 越界一律返回包装了 io.ErrUnexpectedEOF 的错误.
type seeker struct {
	data []byte
	pos  int
}

func (s *seeker) position() int { return s.pos }

func (s *seeker) need(n int) error {
	if n < 0 || len(s.data)-s.pos < n {
		return fmt.Errorf("offset %d: need %d bytes, %d left: %w", s.pos, n, len(s.data)-s.pos, io.ErrUnexpectedEOF)
	}
	return nil
}

// skip 跳过 n 字节, 返回跳过之前的位置
func (s *seeker) skip(n int) (int, error) {
	first := s.pos
	if err := s.need(n); err != nil {
		return first, err
	}
	s.pos += n
	return first, nil
}

// skipString 跳过一个带4字节长度前缀的字符串, 返回字符串开始的位置
func (s *seeker) skipString() (int, error) {
	first := s.pos
	n, err := s.u32()
	if err != nil {
		return first, err
	}
	if uint64(n) > uint64(len(s.data)-s.pos) {
		return first, fmt.Errorf("offset %d: string of %d bytes, %d left: %w", s.pos, n, len(s.data)-s.pos, io.ErrUnexpectedEOF)
	}
	s.pos += int(n)
	return first, nil
}

func (s *seeker) u8() (uint8, error) {
	if err := s.need(1); err != nil {
		return 0, err
	}
	v := s.data[s.pos]
	s.pos++
	return v, nil
}

func (s *seeker) u16() (uint16, error) {
	if err := s.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(s.data[s.pos:])
	s.pos += 2
	return v, nil
}

func (s *seeker) u32() (uint32, error) {
	if err := s.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(s.data[s.pos:])
	s.pos += 4
	return v, nil
}

// cursor 在扫描完成之后解码具体记录. 它是值类型, 可以随意复制,
// 多个 cursor 共享同一块只读数据, 互不影响.
// 结构扫描已经保证了布局正确, 这里读越界属于程序错误, 直接 panic.
type cursor struct {
	data []byte
	pos  int
	hdr  *Header
}

func newCursor(data []byte, hdr *Header, pos int) cursor {
	return cursor{data: data, pos: pos, hdr: hdr}
}

func (c *cursor) next(n int) []byte {
	b := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) u8() uint8   { return c.next(1)[0] }
func (c *cursor) i8() int8    { return int8(c.u8()) }
func (c *cursor) u16() uint16 { return binary.LittleEndian.Uint16(c.next(2)) }
func (c *cursor) i16() int16  { return int16(c.u16()) }
func (c *cursor) u32() uint32 { return binary.LittleEndian.Uint32(c.next(4)) }
func (c *cursor) i32() int32  { return int32(c.u32()) }

func (c *cursor) f32() float32 {
	return math.Float32frombits(c.u32())
}

func (c *cursor) vec2() (v [2]float32) {
	for i := range v {
		v[i] = c.f32()
	}
	return
}

func (c *cursor) vec3() (v [3]float32) {
	for i := range v {
		v[i] = c.f32()
	}
	return
}

func (c *cursor) vec4() (v [4]float32) {
	for i := range v {
		v[i] = c.f32()
	}
	return
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func (c *cursor) decoder() *encoding.Decoder {
	if c.hdr.TextEncoding == UTF16LE {
		return utf16le.NewDecoder()
	}
	return unicode.UTF8.NewDecoder()
}

// str 读取带长度前缀的字符串. 非法的字节序列替换成 U+FFFD, 不会失败.
func (c *cursor) str() string {
	n := int(c.u32())
	if n == 0 {
		return ""
	}
	b := c.next(n)
	s, _, err := transform.Bytes(c.decoder(), b)
	if err != nil {
		// 两种解码器遇到坏数据都只做替换, 走到这里说明 x/text 行为变了
		panic(fmt.Sprintf("pmx: decoding %s string at %d: %v", c.hdr.TextEncoding, c.pos-n, err))
	}
	return string(s)
}

func (c *cursor) index(size uint8) Index {
	switch size {
	case 1:
		return signedIndex(c.i8())
	case 2:
		return signedIndex(c.i16())
	case 4:
		return signedIndex(c.i32())
	}
	panic(fmt.Sprintf("pmx: unsupported index size %d", size))
}

// vertexIndex 顶点索引和其他索引不同: 1和2字节是无符号数, 4字节是有符号数.
func (c *cursor) vertexIndex() uint32 {
	switch c.hdr.SizeVertexIndex {
	case 1:
		return uint32(c.u8())
	case 2:
		return uint32(c.u16())
	case 4:
		return uint32(c.i32())
	}
	panic(fmt.Sprintf("pmx: unsupported vertex index size %d", c.hdr.SizeVertexIndex))
}

func (c *cursor) textureIndex() Index  { return c.index(c.hdr.SizeTextureIndex) }
func (c *cursor) materialIndex() Index { return c.index(c.hdr.SizeMaterialIndex) }
func (c *cursor) boneIndex() Index     { return c.index(c.hdr.SizeBoneIndex) }
func (c *cursor) morphIndex() Index    { return c.index(c.hdr.SizeMorphIndex) }
func (c *cursor) rigidIndex() Index    { return c.index(c.hdr.SizeRigidBodyIndex) }
