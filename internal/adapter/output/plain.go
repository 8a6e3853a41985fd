package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// PlainFormatter formats tracks as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes tracks as plain text.
func (f *PlainFormatter) Format(w io.Writer, tracks []model.Track) error {
	for i, t := range tracks {
		if err := f.formatTrack(w, i+1, &t); err != nil {
			return err
		}
	}
	return nil
}

// formatTrack formats a single track.
func (f *PlainFormatter) formatTrack(w io.Writer, index int, t *model.Track) error {
	// Use custom template if available
	if f.template != nil {
		return f.template.Execute(w, templateData{Index: index, Track: t})
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	sb.WriteString(t.ID)

	attrs := []string{t.Kind, fmt.Sprintf("%.0f%%", t.Volume*100)}
	if t.Loop {
		attrs = append(attrs, "loop")
	}
	sb.WriteString(fmt.Sprintf(" (%s) %s\n", strings.Join(attrs, ", "), t.SizeLabel()))
	sb.WriteString("    " + t.Path + "\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}
