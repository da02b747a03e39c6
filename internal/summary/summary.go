// Package summary 汇总一个 PMX 模型的基本信息, 供命令行输出文本或 JSON.
package summary

import (
	"fmt"
	"io"
	"sort"
	"strings"

	pmx "github.com/toy80/pmxscan"
)

type Counts struct {
	Vertices      int `json:"vertices"`
	Faces         int `json:"faces"` // 面数, 不是索引数
	Textures      int `json:"textures"`
	Materials     int `json:"materials"`
	Bones         int `json:"bones"`
	Morphs        int `json:"morphs"`
	DisplayGroups int `json:"display_groups"`
	RigidBodies   int `json:"rigid_bodies"`
	Joints        int `json:"joints"`
}

type Material struct {
	Name    string `json:"name"`
	Faces   int    `json:"faces"`
	Texture string `json:"texture,omitempty"`
	Sphere  string `json:"sphere,omitempty"`
	Toon    string `json:"toon,omitempty"`
}

type Bones struct {
	IK           int `json:"ik"`
	Inherit      int `json:"inherit"`
	AfterPhysics int `json:"after_physics"`
	Hidden       int `json:"hidden"`
}

type Summary struct {
	Path      string         `json:"path,omitempty"`
	Size      int            `json:"size"`
	Header    string         `json:"header"`
	Name      string         `json:"name"`
	NameEN    string         `json:"name_en,omitempty"`
	Comment   string         `json:"comment,omitempty"`
	Counts    Counts         `json:"counts"`
	Materials []Material     `json:"materials"`
	Bones     Bones          `json:"bones"`
	Morphs    map[string]int `json:"morphs"` // 按类型统计
	Warnings  []string       `json:"warnings,omitempty"`
}

// New 遍历 r 的各个区段生成汇总. 只解码需要的区段, 顶点只取数量.
func New(r *pmx.Reader) *Summary {
	h := r.Header()
	s := &Summary{
		Size:    r.Size(),
		Header:  h.String(),
		Name:    r.Name(),
		NameEN:  r.NameEN(),
		Comment: r.Comment(),
		Counts: Counts{
			Vertices:      r.Vertices().Len(),
			Faces:         r.Faces().Len() / 3,
			Textures:      r.Textures().Len(),
			Materials:     r.Materials().Len(),
			Bones:         r.Bones().Len(),
			Morphs:        r.Morphs().Len(),
			DisplayGroups: r.DisplayGroups().Len(),
			RigidBodies:   r.Rigids().Len(),
			Joints:        r.Joints().Len(),
		},
		Morphs: make(map[string]int),
	}

	textures := r.Textures().Collect()
	name := func(i pmx.Index) string {
		if n, ok := i.Get(); ok && n < len(textures) {
			return textures[n]
		}
		return ""
	}

	total := 0
	for m := range r.Materials().Values() {
		sm := Material{
			Name:    m.Name,
			Faces:   int(m.NumVerts / 3),
			Texture: name(m.Texture),
		}
		if m.SpMode != pmx.SPHERE_MODE_NONE {
			sm.Sphere = name(m.SpTexture)
		}
		switch toon := m.Toon.(type) {
		case pmx.SharedToon:
			sm.Toon = toon.File()
		case pmx.ToonTexture:
			sm.Toon = name(toon.Texture)
		}
		s.Materials = append(s.Materials, sm)
		total += int(m.NumVerts)
	}
	if n := r.Faces().Len(); total != n {
		s.Warnings = append(s.Warnings, fmt.Sprintf("materials cover %d face indices, model has %d", total, n))
	}

	for b := range r.Bones().Values() {
		if b.IK != nil {
			s.Bones.IK++
		}
		if b.Inherit != nil {
			s.Bones.Inherit++
		}
		if b.AfterPhysics() {
			s.Bones.AfterPhysics++
		}
		if !b.Visible() {
			s.Bones.Hidden++
		}
	}

	for m := range r.Morphs().Values() {
		s.Morphs[m.Type.String()]++
	}
	return s
}

// WriteText 以便于阅读的格式写出汇总
func (s *Summary) WriteText(w io.Writer) error {
	var b strings.Builder
	if s.Path != "" {
		fmt.Fprintf(&b, "file:      %s (%d bytes)\n", s.Path, s.Size)
	}
	fmt.Fprintf(&b, "format:    %s\n", s.Header)
	fmt.Fprintf(&b, "name:      %s", s.Name)
	if s.NameEN != "" {
		fmt.Fprintf(&b, " / %s", s.NameEN)
	}
	b.WriteString("\n")

	c := s.Counts
	fmt.Fprintf(&b, "vertices:  %d\n", c.Vertices)
	fmt.Fprintf(&b, "faces:     %d\n", c.Faces)
	fmt.Fprintf(&b, "textures:  %d\n", c.Textures)
	fmt.Fprintf(&b, "materials: %d\n", c.Materials)
	for _, m := range s.Materials {
		fmt.Fprintf(&b, "  %-20s %6d faces", m.Name, m.Faces)
		if m.Texture != "" {
			fmt.Fprintf(&b, "  tex=%s", m.Texture)
		}
		if m.Sphere != "" {
			fmt.Fprintf(&b, "  sphere=%s", m.Sphere)
		}
		if m.Toon != "" {
			fmt.Fprintf(&b, "  toon=%s", m.Toon)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "bones:     %d (ik %d, inherit %d, after physics %d, hidden %d)\n",
		c.Bones, s.Bones.IK, s.Bones.Inherit, s.Bones.AfterPhysics, s.Bones.Hidden)

	fmt.Fprintf(&b, "morphs:    %d", c.Morphs)
	types := make([]string, 0, len(s.Morphs))
	for t := range s.Morphs {
		types = append(types, t)
	}
	sort.Strings(types)
	for i, t := range types {
		sep := ", "
		if i == 0 {
			sep = " ("
		}
		fmt.Fprintf(&b, "%s%s %d", sep, t, s.Morphs[t])
	}
	if len(types) > 0 {
		b.WriteString(")")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "groups:    %d\n", c.DisplayGroups)
	fmt.Fprintf(&b, "rigids:    %d\n", c.RigidBodies)
	fmt.Fprintf(&b, "joints:    %d\n", c.Joints)
	for _, warn := range s.Warnings {
		fmt.Fprintf(&b, "warning:   %s\n", warn)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
