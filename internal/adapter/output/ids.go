package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// IDsFormatter outputs just the track ids, one per line.
// Useful for piping to other commands (e.g., voidaudio play $(...)).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes track ids to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, tracks []model.Track) error {
	for _, t := range tracks {
		if _, err := fmt.Fprintln(w, t.ID); err != nil {
			return err
		}
	}
	return nil
}
