package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// YAMLFormatter formats tracks as a YAML sequence.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes tracks as YAML.
func (f *YAMLFormatter) Format(w io.Writer, tracks []model.Track) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(tracks); err != nil {
		return err
	}
	return encoder.Close()
}
