// Package input parses track selections piped back from pickers such as
// dmenu, fuzzel or jq.
package input

// SelectionError represents a failure to read or parse a selection.
type SelectionError struct {
	Source  string
	Message string
	Err     error
}

func (e *SelectionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}
