package report

import (
	"fmt"
	"io"
	"sort"
)

// Writer renders one report format.
type Writer interface {
	Format() string
	Write(w io.Writer, r *Report) error
}

// Factory resolves output formats to writers. Callers construct and
// inject it; there is no package-level default.
type Factory struct {
	writers map[string]Writer
}

// NewFactory builds a factory over the given writers.
func NewFactory(writers ...Writer) *Factory {
	f := &Factory{writers: make(map[string]Writer, len(writers))}
	for _, w := range writers {
		f.writers[w.Format()] = w
	}
	return f
}

// NewDefaultFactory wires every built-in format.
func NewDefaultFactory() *Factory {
	return NewFactory(
		&JSONWriter{Indent: true},
		&CSVWriter{},
		&MarkdownWriter{},
		&ExcelWriter{},
	)
}

// Writer returns the writer for a format, or an error naming the known
// formats.
func (f *Factory) Writer(format string) (Writer, error) {
	w, ok := f.writers[format]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q (known: %v)", format, f.Formats())
	}
	return w, nil
}

// Formats lists supported formats in sorted order.
func (f *Factory) Formats() []string {
	formats := make([]string, 0, len(f.writers))
	for format := range f.writers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Render writes a report in the named format.
func (f *Factory) Render(format string, w io.Writer, r *Report) error {
	writer, err := f.Writer(format)
	if err != nil {
		return err
	}
	return writer.Write(w, r)
}
