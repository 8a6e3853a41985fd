// Package core provides filtering, sorting, and lookup logic for track
// listings.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: id, source, path, kind, volume, size, loop, exists
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	// Cached parsed values
	regex   *regexp.Regexp // Compiled regex for ~= operator
	numVal  float64        // Parsed volume or size
	boolVal bool           // Parsed bool value
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies simple criteria for filtering tracks.
type FilterOptions struct {
	Kind        string // Exact match on kind (empty = any)
	MissingOnly bool   // Only tracks whose file does not exist
	Limit       int    // Maximum results (0=unlimited)
}

// Filter filters tracks based on the provided options.
func Filter(tracks []model.Track, opts FilterOptions) []model.Track {
	result := make([]model.Track, 0, len(tracks))

	for _, t := range tracks {
		if opts.Kind != "" && t.Kind != opts.Kind {
			continue
		}
		if opts.MissingOnly && t.Exists {
			continue
		}
		result = append(result, t)
	}

	// Apply limit
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseKind normalizes a kind name. Accepts music, sfx and a few aliases.
func ParseKind(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "music", "m", "bgm":
		return model.KindMusic, nil
	case "sfx", "sound", "s":
		return model.KindSFX, nil
	default:
		return "", fmt.Errorf("invalid kind: %s (use music or sfx)", s)
	}
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: id, source, path, kind, volume, size, loop, exists
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "kind=music" - music tracks only
//   - "id~rain" - id contains "rain"
//   - "volume<0.5" - quieter than half volume
//   - "size>1MB" - files larger than one megabyte
//   - "exists=false" - tracks whose file is missing
//   - "source~=\.ogg$" - source matches regex
func ParseFilter(expr string) (*FilterExpr, error) {
	if expr == "" {
		return &FilterExpr{}, nil
	}

	filter := &FilterExpr{
		Conditions: make([]FilterCondition, 0),
	}

	// Split by comma
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "kind=music" or "id~rain"
func parseCondition(s string) (FilterCondition, error) {
	// Try operators in order of specificity (longest first)
	operators := []FilterOp{
		FilterOpNotEqual,  // != (must be before =)
		FilterOpGreaterEq, // >= (must be before >)
		FilterOpLessEq,    // <= (must be before <)
		FilterOpRegex,     // ~= (must be before ~)
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			field := strings.TrimSpace(s[:idx])
			value := strings.TrimSpace(s[idx+len(op):])

			cond := FilterCondition{
				Field:    strings.ToLower(field),
				Operator: op,
				Value:    value,
			}

			// Pre-parse and validate based on field type
			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}

			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "id", "name":
		c.Field = "id" // Normalize
	case "source", "src":
		c.Field = "source"
	case "path", "file":
		c.Field = "path"
	case "kind", "type":
		c.Field = "kind"
		if c.Operator == FilterOpEqual || c.Operator == FilterOpNotEqual {
			kind, err := ParseKind(c.Value)
			if err != nil {
				return err
			}
			c.Value = kind
		}
	case "volume", "vol":
		c.Field = "volume"
		v, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return fmt.Errorf("invalid volume value: %s", c.Value)
		}
		c.numVal = v
	case "size":
		c.Field = "size"
		n, err := humanize.ParseBytes(c.Value)
		if err != nil {
			return fmt.Errorf("invalid size value: %w", err)
		}
		c.numVal = float64(n)
	case "loop":
		c.Field = "loop"
		c.boolVal = parseBool(c.Value)
	case "exists", "present":
		c.Field = "exists"
		c.boolVal = parseBool(c.Value)
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	// Compile regex if needed
	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// parseBool parses various boolean representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true", "yes", "1", "y", "t":
		return true
	default:
		return false
	}
}

// Match tests if a track matches the filter expression.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(t model.Track) bool {
	for _, cond := range f.Conditions {
		if !cond.Match(t) {
			return false
		}
	}
	return true
}

// Match tests if a track matches this single condition.
func (c *FilterCondition) Match(t model.Track) bool {
	switch c.Field {
	case "id":
		return c.matchString(t.ID)
	case "source":
		return c.matchString(t.Source)
	case "path":
		return c.matchString(t.Path)
	case "kind":
		return c.matchString(t.Kind)
	case "volume":
		return c.matchNumber(t.Volume)
	case "size":
		return t.Exists && c.matchNumber(float64(t.Size))
	case "loop":
		return c.matchBool(t.Loop)
	case "exists":
		return c.matchBool(t.Exists)
	default:
		return false
	}
}

// matchString matches a string field.
func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

// matchNumber matches a numeric field.
func (c *FilterCondition) matchNumber(fieldValue float64) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.numVal
	case FilterOpNotEqual:
		return fieldValue != c.numVal
	case FilterOpGreater:
		return fieldValue > c.numVal
	case FilterOpLess:
		return fieldValue < c.numVal
	case FilterOpGreaterEq:
		return fieldValue >= c.numVal
	case FilterOpLessEq:
		return fieldValue <= c.numVal
	default:
		return false
	}
}

// matchBool matches a boolean field.
func (c *FilterCondition) matchBool(fieldValue bool) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.boolVal
	case FilterOpNotEqual:
		return fieldValue != c.boolVal
	default:
		return false
	}
}

// FilterWithExpr filters tracks using a filter expression.
func FilterWithExpr(tracks []model.Track, expr *FilterExpr) []model.Track {
	if expr == nil || len(expr.Conditions) == 0 {
		return tracks
	}

	result := make([]model.Track, 0, len(tracks))
	for _, t := range tracks {
		if expr.Match(t) {
			result = append(result, t)
		}
	}
	return result
}
