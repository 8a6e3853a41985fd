package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// DmenuFormatter formats tracks for dmenu/rofi/fuzzel.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes tracks in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, tracks []model.Track) error {
	for i, t := range tracks {
		line := f.formatLine(i+1, &t)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single track line. The id comes first so the
// selection can be cut back to it.
func (f *DmenuFormatter) formatLine(index int, t *model.Track) string {
	// Use custom template if available
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, templateData{Index: index, Track: t}); err == nil {
			return buf.String()
		}
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	parts := []string{t.ID, t.Kind, t.Source}
	if !t.Exists {
		parts = append(parts, t.SizeLabel())
	}
	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index int
	Track *model.Track
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"bytes": humanize.Bytes,
		"percent": func(v float64) string {
			return fmt.Sprintf("%.0f%%", v*100)
		},
	}
}
