package pmx

import (
	"testing"
)

func cursorOver(h Header, fill func(*builder)) cursor {
	b := &builder{h: h}
	fill(b)
	return newCursor(b.Bytes(), &h, 0)
}

func TestIndex(t *testing.T) {
	tests := []struct {
		size uint8
		raw  int32
		want Index
	}{
		{1, 0, 0},
		{1, 127, 127},
		{1, -1, NoIndex},
		{1, -128, NoIndex},
		{2, 0, 0},
		{2, 32767, 32767},
		{2, -1, NoIndex},
		{2, -300, NoIndex},
		{4, 0, 0},
		{4, 0x7fffffff, 0x7fffffff},
		{4, -1, NoIndex},
		{4, -1 << 31, NoIndex},
	}
	for _, tt := range tests {
		h := testHeader(UTF8, tt.size)
		c := cursorOver(h, func(b *builder) { b.bone(tt.raw) })
		if got := c.boneIndex(); got != tt.want {
			t.Errorf("size %d raw %d: got %v, want %v", tt.size, tt.raw, got, tt.want)
		}
		if c.pos != int(tt.size) {
			t.Errorf("size %d: consumed %d bytes", tt.size, c.pos)
		}
	}
}

func TestIndexGet(t *testing.T) {
	if n, ok := Index(3).Get(); !ok || n != 3 {
		t.Errorf("Get = %d, %v", n, ok)
	}
	if _, ok := NoIndex.Get(); ok || NoIndex.Valid() {
		t.Error("NoIndex reported as valid")
	}
	if NoIndex.String() != "none" || Index(12).String() != "#12" {
		t.Errorf("strings = %q %q", NoIndex.String(), Index(12).String())
	}
}

func TestVertexIndex(t *testing.T) {
	tests := []struct {
		size uint8
		fill func(*builder)
		want uint32
	}{
		{1, func(b *builder) { b.u8(255) }, 255},
		{2, func(b *builder) { b.u16(65535) }, 65535},
		{4, func(b *builder) { b.i32(0x7fffffff) }, 0x7fffffff},
		{4, func(b *builder) { b.i32(7) }, 7},
		// 4字节顶点索引按有符号读入, 负数不表示"无"
		{4, func(b *builder) { b.i32(-1) }, 0xffffffff},
	}
	for _, tt := range tests {
		c := cursorOver(testHeader(UTF8, tt.size), tt.fill)
		if got := c.vertexIndex(); got != tt.want {
			t.Errorf("size %d: got %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		enc  Encoding
		raw  []byte
		want string
	}{
		{"empty utf16", UTF16LE, nil, ""},
		{"empty utf8", UTF8, nil, ""},
		{"utf16", UTF16LE, []byte{0xa2, 0x30, 0xea, 0x30}, "アリ"},
		{"utf8", UTF8, []byte("アリ"), "アリ"},
		{"utf16 surrogate pair", UTF16LE, []byte{0x3d, 0xd8, 0x00, 0xde}, "\U0001f600"},
		{"utf8 invalid", UTF8, []byte{'a', 0xff, 'b'}, "a�b"},
		{"utf16 lone surrogate", UTF16LE, []byte{0x00, 0xd8, 'a', 0}, "�a"},
		{"utf16 odd length", UTF16LE, []byte{'a', 0, 'b'}, "a�"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursorOver(testHeader(tt.enc, 1), func(b *builder) { b.raw(tt.raw) })
			if got := c.str(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if c.pos != 4+len(tt.raw) {
				t.Errorf("consumed %d bytes", c.pos)
			}
		})
	}
}

func TestSeekerBounds(t *testing.T) {
	s := seeker{data: make([]byte, 6)}
	if _, err := s.skip(4); err != nil {
		t.Fatal(err)
	}
	if _, err := s.u32(); err == nil {
		t.Fatal("expected error reading past end")
	}
	if s.position() != 4 {
		t.Errorf("position moved to %d after failed read", s.position())
	}
	if _, err := s.u16(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.u8(); err == nil {
		t.Fatal("expected error at end")
	}
}
