package texture

import (
	"fmt"

	pmx "github.com/toy80/pmxscan"
)

// Slot 材质引用纹理的位置
type Slot string

const (
	SlotTexture Slot = "texture"
	SlotSphere  Slot = "sphere"
	SlotToon    Slot = "toon"
)

// Problem 一个找不到或者读不出来的纹理引用
type Problem struct {
	Material string
	Slot     Slot
	Index    pmx.Index
	Name     string // 纹理表中的路径, 索引越界时为空
	Err      error
}

func (p Problem) Error() string {
	return fmt.Sprintf("material %q %s %v %q: %v", p.Material, p.Slot, p.Index, p.Name, p.Err)
}

// Ref 一个材质对纹理表的引用
type Ref struct {
	Material string
	Slot     Slot
	Index    pmx.Index
}

// Refs 列出材质里所有有效的纹理引用. 共享 toon 不在纹理表里, 不列出.
func Refs(materials []pmx.Material) []Ref {
	var refs []Ref
	for _, m := range materials {
		if m.Texture.Valid() {
			refs = append(refs, Ref{m.Name, SlotTexture, m.Texture})
		}
		if m.SpTexture.Valid() && m.SpMode != pmx.SPHERE_MODE_NONE {
			refs = append(refs, Ref{m.Name, SlotSphere, m.SpTexture})
		}
		if toon, ok := m.Toon.(pmx.ToonTexture); ok && toon.Texture.Valid() {
			refs = append(refs, Ref{m.Name, SlotToon, toon.Texture})
		}
	}
	return refs
}

// Check 检查材质引用的每个纹理能否在 dir 下找到并解码. 每个纹理文件只读一次.
func Check(dir string, textures []string, materials []pmx.Material) []Problem {
	loaded := make(map[pmx.Index]error)
	var problems []Problem
	for _, ref := range Refs(materials) {
		p := Problem{Material: ref.Material, Slot: ref.Slot, Index: ref.Index}
		i, _ := ref.Index.Get()
		if i >= len(textures) {
			p.Err = fmt.Errorf("index out of range, %d textures", len(textures))
			problems = append(problems, p)
			continue
		}
		p.Name = textures[i]
		err, ok := loaded[ref.Index]
		if !ok {
			err = checkFile(dir, p.Name)
			loaded[ref.Index] = err
		}
		if err != nil {
			p.Err = err
			problems = append(problems, p)
		}
	}
	return problems
}

func checkFile(dir, name string) error {
	path, err := Resolve(dir, name)
	if err != nil {
		return err
	}
	_, err = Load(path)
	return err
}
