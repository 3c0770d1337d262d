package scanner

import (
	"fmt"

	"fortio.org/safecast"

	"textconf/internal/source"
)

// Cursor представляет собой позицию в тексте
type Cursor struct {
	File    source.FileID
	Content []byte
	Off     uint32
	Limit   uint32 // exclusive upper bound for Off
}

// NewCursor creates a cursor over the whole content of f.
func NewCursor(f *source.File) Cursor {
	return newCursor(f.ID, f.Content)
}

func newCursor(id source.FileID, content []byte) Cursor {
	limit, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("len content overflow: %w", err))
	}
	return Cursor{File: id, Content: content, Limit: limit}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Content[c.Off]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Content[c.Off]
	c.Off++
	return b
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
