package desensitize

import "io"

// Writer masks every write through a Hook before passing it on.
type Writer struct {
	writer io.Writer
	hook   *Hook
}

// NewWriter wraps writer. Both arguments are required.
func NewWriter(writer io.Writer, hook *Hook) *Writer {
	if writer == nil {
		panic("desensitize: writer cannot be nil")
	}
	if hook == nil {
		panic("desensitize: hook cannot be nil")
	}
	return &Writer{writer: writer, hook: hook}
}

// Write reports len(p) on success even when the masked line differs in
// length, as zerolog expects.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 || w.hook.RuleCount() == 0 {
		return w.writer.Write(p)
	}

	text := string(p)
	masked := w.hook.Desensitize(text)
	if masked == text {
		return w.writer.Write(p)
	}

	if _, err := io.WriteString(w.writer, masked); err != nil {
		return 0, err
	}
	return len(p), nil
}
