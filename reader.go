package pmx

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Reader 保存整个文件的数据, 文件头和各区段的起始位置.
// 构造时完整扫描一遍文件, 之后每个访问函数都从对应位置重新解码, 不会再出错.
// Reader 构造完成后只读, 可以在多个 goroutine 中同时使用.
type Reader struct {
	data   []byte
	header Header
	off    offsets
	logger *log.Logger
}

type Option func(*Reader)

// WithLogger 扫描时把每个区段的位置和记录数以 debug 级别写到 logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader 把 r 全部读进内存再解析
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pmx: error reading data: %w", err)
	}
	return NewReaderBytes(data, opts...)
}

// NewReaderBytes 直接使用 data, 不复制. 调用者之后不能再修改 data.
func NewReaderBytes(data []byte, opts ...Option) (*Reader, error) {
	pr := &Reader{data: data, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(pr)
	}

	var err error
	if pr.header, err = decodeHeader(data); err != nil {
		return nil, fmt.Errorf("pmx: error decoding header: %w", err)
	}
	pr.logger.Debug("header", "version", pr.header.Version, "encoding", pr.header.TextEncoding, "extra_uv", pr.header.NumExtraUV)

	if pr.off, err = scan(data, &pr.header, pr.logger); err != nil {
		return nil, err
	}
	return pr, nil
}

// Open 读取 path 指向的文件
func Open(path string, opts ...Option) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pmx: %w", err)
	}
	return NewReaderBytes(data, opts...)
}

// Header 返回文件头的副本
func (r *Reader) Header() Header { return r.header }

// Size 文件的字节数
func (r *Reader) Size() int { return len(r.data) }

func (r *Reader) cursor(off int) cursor {
	return newCursor(r.data, &r.header, off)
}

func (r *Reader) text(off int) string {
	c := r.cursor(off)
	return c.str()
}

func (r *Reader) Name() string      { return r.text(r.off.name) }
func (r *Reader) NameEN() string    { return r.text(r.off.nameEN) }
func (r *Reader) Comment() string   { return r.text(r.off.comment) }
func (r *Reader) CommentEN() string { return r.text(r.off.commentEN) }

func (r *Reader) Vertices() Seq[Vertex] {
	return newSeq(r.data, &r.header, r.off.vertices, decodeVertex)
}

// Faces 面的顶点索引, 每3个一组
func (r *Reader) Faces() Seq[uint32] {
	return newSeq(r.data, &r.header, r.off.faces, (*cursor).vertexIndex)
}

// Textures 纹理路径, 相对于模型文件所在目录, 分隔符一般是 '\'
func (r *Reader) Textures() Seq[string] {
	return newSeq(r.data, &r.header, r.off.textures, (*cursor).str)
}

func (r *Reader) Materials() Seq[Material] {
	return newSeq(r.data, &r.header, r.off.materials, decodeMaterial)
}

func (r *Reader) Bones() Seq[Bone] {
	return newSeq(r.data, &r.header, r.off.bones, decodeBone)
}

func (r *Reader) Morphs() Seq[Morph] {
	return newSeq(r.data, &r.header, r.off.morphs, decodeMorph)
}

func (r *Reader) DisplayGroups() Seq[DisplayGroup] {
	return newSeq(r.data, &r.header, r.off.displayGroups, decodeDisplayGroup)
}

func (r *Reader) Rigids() Seq[RigidBody] {
	return newSeq(r.data, &r.header, r.off.rigids, decodeRigidBody)
}

func (r *Reader) Joints() Seq[Joint] {
	return newSeq(r.data, &r.header, r.off.joints, decodeJoint)
}
