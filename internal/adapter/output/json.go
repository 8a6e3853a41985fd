package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// JSONFormatter formats tracks as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes tracks as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, tracks []model.Track) error {
	if tracks == nil {
		tracks = []model.Track{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tracks)
}
