// Package texture 查找和读取 PMX 材质引用的纹理文件.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var ErrUnknownFormat = errors.New("texture: unknown format")

// Resolve 把 PMX 里的纹理路径转换成 modelDir 下的文件路径.
// PMX 路径用 '\' 分隔, 并且来自不区分大小写的文件系统, 所以逐级按忽略大小写的方式查找.
func Resolve(modelDir, name string) (string, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("texture: invalid path %q", name)
	}
	exact := filepath.Join(modelDir, rel)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	dir := modelDir
	for _, part := range strings.Split(filepath.Clean(rel), string(filepath.Separator)) {
		switch part {
		case "", ".":
			continue
		case "..":
			dir = filepath.Join(dir, part)
			continue
		}
		next, err := lookup(dir, part)
		if err != nil {
			return "", fmt.Errorf("texture: resolve %q: %w", name, err)
		}
		dir = next
	}
	return dir, nil
}

func lookup(dir, part string) (string, error) {
	p := filepath.Join(dir, part)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), part) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", &os.PathError{Op: "lookup", Path: p, Err: os.ErrNotExist}
}

// Load 读取并解码 path. 按扩展名选择解码器, 失败时再按文件内容猜一次格式,
// 因为不少模型的 .spa/.sph 其实是 png 或 jpeg.
func Load(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := decode(raw, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// decoders 按扩展名选择解码器
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".spa":  bmp.Decode,
	".sph":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

func decode(raw []byte, ext string) (image.Image, error) {
	dec, ok := decoders[strings.ToLower(ext)]
	if !ok {
		dec = sniff(raw)
	}
	if dec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	img, err := dec(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}

	// 扩展名和内容不符时按文件标志再试一次
	if alt := sniff(raw); alt != nil {
		if img, aerr := alt(bytes.NewReader(raw)); aerr == nil {
			return img, nil
		}
	}
	return nil, err
}

// sniff 按文件标志选择解码器. tga 没有文件标志, 不在这里识别.
// 不用 image.Decode: tga 注册的是空标志, 会匹配任何数据.
func sniff(raw []byte) func(io.Reader) (image.Image, error) {
	switch {
	case bytes.HasPrefix(raw, []byte("\x89PNG")):
		return png.Decode
	case bytes.HasPrefix(raw, []byte("\xff\xd8")):
		return jpeg.Decode
	case bytes.HasPrefix(raw, []byte("BM")):
		return bmp.Decode
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return webp.Decode
	}
	return nil
}

// Thumbnail 把 img 等比缩小到不超过 size x size. 比 size 小的图片不放大.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size > 0 && (w > size || h > size) {
		if w >= h {
			w, h = size, max(1, h*size/w)
		} else {
			w, h = max(1, w*size/h), size
		}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WriteWebP 以无损 WebP 格式写出 img
func WriteWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("texture: webp encode: %w", err)
	}
	return nil
}

// SaveWebP 把 img 写到 path, 需要时创建目录
func SaveWebP(path string, img image.Image) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteWebP(f, img)
}
