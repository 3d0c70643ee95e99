// Package board holds the column vocabulary of a project board and the rules
// for turning user input into stored status keys.
package board

import (
	"errors"
	"strings"

	"github.com/yukikurage/board-api/internal/models"
)

var (
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidColumnTitle  = errors.New("column title must contain at least one letter or digit")
	ErrInvalidPriority     = errors.New("priority must be one of High, Medium, Low")
	ErrInvalidArchitecture = errors.New("architecture must be one of FE, BE, DB, ARCH, MISC")
)

// Column keys seeded for every new project.
const (
	KeyToDo       = "to_do"
	KeyInProgress = "in_progress"
	KeyValidation = "validation"
	KeyDone       = "done"

	// TerminalKey is the column whose entry marks a task as completed.
	TerminalKey = KeyDone
	// InitialKey is the status of a task created without one.
	InitialKey = KeyToDo
)

// ColumnSpec describes a column before it is persisted.
type ColumnSpec struct {
	Key   string
	Title string
	Pos   int
}

var defaultColumns = []ColumnSpec{
	{Key: KeyToDo, Title: "To Do", Pos: 0},
	{Key: KeyInProgress, Title: "In Progress", Pos: 1},
	{Key: KeyValidation, Title: "Validation", Pos: 2},
	{Key: KeyDone, Title: "Done", Pos: 3},
}

// legacy spellings that normalization alone does not map onto a seeded key
var aliases = map[string]string{
	"todo": KeyToDo,
}

// DefaultColumns returns a fresh copy of the columns every project starts with.
func DefaultColumns() []ColumnSpec {
	out := make([]ColumnSpec, len(defaultColumns))
	copy(out, defaultColumns)
	return out
}

// NormalizeKey lower-cases s, treats hyphens and whitespace as underscores and
// collapses repeated separators, so "In-Progress", "in_progress" and
// "IN PROGRESS" all become "in_progress".
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r':
			pendingSep = b.Len() > 0
		default:
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ColumnKey derives the key of a column from its display title.
func ColumnKey(title string) (string, error) {
	key := NormalizeKey(title)
	if key == "" {
		return "", ErrInvalidColumnTitle
	}
	return key, nil
}

// ResolveStatus maps raw status input to one of the given column keys.
// Unknown values fail with ErrInvalidStatus rather than falling back.
func ResolveStatus(input string, keys []string) (string, error) {
	key := NormalizeKey(input)
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if key == "" {
		return "", ErrInvalidStatus
	}
	for _, k := range keys {
		if k == key {
			return key, nil
		}
	}
	return "", ErrInvalidStatus
}

// ParsePriority validates a priority case-insensitively and returns its canonical form.
func ParsePriority(s string) (models.TaskPriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return models.PriorityHigh, nil
	case "medium":
		return models.PriorityMedium, nil
	case "low":
		return models.PriorityLow, nil
	}
	return "", ErrInvalidPriority
}

// ParseArchitecture validates an architecture tag case-insensitively.
func ParseArchitecture(s string) (models.TaskArchitecture, error) {
	switch models.TaskArchitecture(strings.ToUpper(strings.TrimSpace(s))) {
	case models.ArchitectureFrontend:
		return models.ArchitectureFrontend, nil
	case models.ArchitectureBackend:
		return models.ArchitectureBackend, nil
	case models.ArchitectureDatabase:
		return models.ArchitectureDatabase, nil
	case models.ArchitectureArch:
		return models.ArchitectureArch, nil
	case models.ArchitectureMisc:
		return models.ArchitectureMisc, nil
	}
	return "", ErrInvalidArchitecture
}
