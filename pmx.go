// Package pmx 用来把PMX 2.0格式的3D模型读进内存.
//
// Reader 先扫描一遍文件, 记下每个区段的位置并检查格式, 之后按需逐条解码记录.
// 如果需要一次把全部数据读出来, 用 Decode.
package pmx

import (
	"io"
)

// PMX模型.
// 默认左手坐标系, Y轴朝上.
type PMX struct {
	Header Header

	Name          string
	NameEN        string
	Description   string
	DescriptionEN string

	Vertices      []Vertex
	Faces         []uint32 // 3点1面
	Textures      []string
	Materials     []Material
	Bones         []Bone // 骨骼
	Morphs        []Morph
	DisplayGroups []DisplayGroup
	RigidBodies   []RigidBody
	Joints        []Joint // 连接两个刚体的关节 (注意Joint不是骨骼的关节)
}

// Decode 读取全部数据并解码所有区段
func Decode(r io.Reader) (*PMX, error) {
	pr, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	return pr.Decode(), nil
}

// Decode 把所有区段解码到一个 PMX 里. 扫描已经检查过格式, 这里不会失败.
func (r *Reader) Decode() *PMX {
	return &PMX{
		Header:        r.header,
		Name:          r.Name(),
		NameEN:        r.NameEN(),
		Description:   r.Comment(),
		DescriptionEN: r.CommentEN(),
		Vertices:      r.Vertices().Collect(),
		Faces:         r.Faces().Collect(),
		Textures:      r.Textures().Collect(),
		Materials:     r.Materials().Collect(),
		Bones:         r.Bones().Collect(),
		Morphs:        r.Morphs().Collect(),
		DisplayGroups: r.DisplayGroups().Collect(),
		RigidBodies:   r.Rigids().Collect(),
		Joints:        r.Joints().Collect(),
	}
}

// Texture 返回索引对应的纹理路径, 索引无效或越界时返回 false
func (pm *PMX) Texture(i Index) (string, bool) {
	n, ok := i.Get()
	if !ok || n >= len(pm.Textures) {
		return "", false
	}
	return pm.Textures[n], true
}
