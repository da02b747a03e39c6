package pmx

import "fmt"

type DisplayElemType uint8

const (
	DISPLAY_ELEM_BONE  DisplayElemType = iota // 骨骼
	DISPLAY_ELEM_MORPH                        // 变形
)

// DisplayElem 显示枠中的一个元素. Type 决定 Index 指向骨骼还是变形.
type DisplayElem struct {
	Type  DisplayElemType
	Index Index
}

func (e DisplayElem) Bone() (Index, bool) {
	if e.Type != DISPLAY_ELEM_BONE {
		return NoIndex, false
	}
	return e.Index, true
}

func (e DisplayElem) Morph() (Index, bool) {
	if e.Type != DISPLAY_ELEM_MORPH {
		return NoIndex, false
	}
	return e.Index, true
}

// DisplayGroup 动作分组(显示枠), 主要用于界面显示, 把同组的骨骼/动画放在一起.
type DisplayGroup struct {
	Name   string
	NameEN string

	Special bool // 特殊枠 (Root 和 表情)

	Elements []DisplayElem
}

func decodeDisplayGroup(c *cursor) (g DisplayGroup) {
	g.Name = c.str()
	g.NameEN = c.str()
	g.Special = c.u8() != 0
	if n := c.u32(); n > 0 {
		g.Elements = make([]DisplayElem, n)
		for i := range g.Elements {
			e := &g.Elements[i]
			e.Type = DisplayElemType(c.u8())
			switch e.Type {
			case DISPLAY_ELEM_BONE:
				e.Index = c.boneIndex()
			case DISPLAY_ELEM_MORPH:
				e.Index = c.morphIndex()
			default:
				panic(fmt.Sprintf("pmx: unreachable display group element %d", e.Type))
			}
		}
	}
	return
}
