package pmx

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnsupportedVersion 文件版本不是 2.0
	ErrUnsupportedVersion = errors.New("unsupported PMX version")

	// ErrInvalidHeader 文件头格式错误, 具体原因包在错误信息里
	ErrInvalidHeader = errors.New("invalid PMX header")

	// ErrInvalidData 数据区的某个类型字节越界, 或面索引数不是3的倍数
	ErrInvalidData = errors.New("invalid PMX data")
)

func invalidHeader(reason string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidHeader, fmt.Sprintf(reason, args...))
}

func invalidData(reason string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(reason, args...))
}

// 统一把读到末尾的情况报告成 io.ErrUnexpectedEOF, 文件被截断时不会出现干净的 EOF
func shortRead(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
