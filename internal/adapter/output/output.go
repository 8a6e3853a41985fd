// Package output provides output formatters for track listings.
package output

import (
	"io"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// Formatter formats tracks for output.
type Formatter interface {
	// Format writes formatted tracks to the writer.
	Format(w io.Writer, tracks []model.Track) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatIDs   FormatType = "ids"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template  string // Custom template for dmenu/plain format
	ShowIndex bool   // Show 1-based index prefix
	Separator string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		Separator: " | ",
	}
}
