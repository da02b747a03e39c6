package pmx

import "iter"

// Seq 某个区段的记录序列. 长度在创建时就已知, 记录在遍历时逐条解码.
// 每次调用 All/Values/Collect 都从区段开头重新解码, 不缓存结果.
// Seq 只读共享的数据, 可以在多个 goroutine 里同时遍历.
type Seq[T any] struct {
	start  cursor
	n      int
	decode func(*cursor) T
}

// newSeq 在 off 处读取记录数, 之后的数据交给 decode 逐条解析
func newSeq[T any](data []byte, hdr *Header, off int, decode func(*cursor) T) Seq[T] {
	c := newCursor(data, hdr, off)
	n := int(c.u32())
	return Seq[T]{start: c, n: n, decode: decode}
}

// Len 记录数, 不会消耗序列
func (s Seq[T]) Len() int { return s.n }

// All 按顺序返回 (序号, 记录)
func (s Seq[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		c := s.start
		for i := 0; i < s.n; i++ {
			if !yield(i, s.decode(&c)) {
				return
			}
		}
	}
}

// Values 按顺序返回记录
func (s Seq[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Collect 把全部记录解码到一个切片里
func (s Seq[T]) Collect() []T {
	if s.n == 0 {
		return nil
	}
	out := make([]T, 0, s.n)
	for v := range s.Values() {
		out = append(out, v)
	}
	return out
}
