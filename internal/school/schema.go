package school

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError describes a rejected payload. The message is safe to return
// to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindBool
	kindDate     // YYYY-MM-DD
	kindDateTime // RFC 3339
)

type field struct {
	name     string
	kind     fieldKind
	required bool
	enum     []string
	min, max *float64
	def      any
}

func fptr(v float64) *float64 { return &v }

var schemas = map[string][]field{
	CollectionTeachers: {
		{name: "name", kind: kindString, required: true},
		{name: "email", kind: kindString, required: true},
		{name: "department", kind: kindString},
		{name: "phone", kind: kindString},
		{name: "join_date", kind: kindDate},
	},
	CollectionStudents: {
		{name: "name", kind: kindString, required: true},
		{name: "email", kind: kindString, required: true},
		{name: "roll_number", kind: kindString, required: true},
		{name: "department", kind: kindString},
		{name: "year", kind: kindInt, min: fptr(1), max: fptr(8)},
		{name: "section", kind: kindString},
		{name: "phone", kind: kindString},
	},
	CollectionClassrooms: {
		{name: "name", kind: kindString, required: true},
		{name: "department", kind: kindString},
		{name: "year", kind: kindInt, min: fptr(1), max: fptr(8)},
		{name: "section", kind: kindString},
		{name: "teacher_id", kind: kindString},
	},
	CollectionEnrollments: {
		{name: "class_id", kind: kindString, required: true},
		{name: "student_id", kind: kindString, required: true},
		{name: "active", kind: kindBool, def: true},
	},
	CollectionAnnouncements: {
		{name: "title", kind: kindString, required: true},
		{name: "body", kind: kindString, required: true},
		{name: "audience", kind: kindString, def: "all"},
		{name: "author_id", kind: kindString},
		{name: "pinned", kind: kindBool, def: false},
	},
	CollectionCirculars: {
		{name: "title", kind: kindString, required: true},
		{name: "body", kind: kindString, required: true},
		{name: "audience", kind: kindString, def: "all"},
		{name: "author_id", kind: kindString},
	},
	CollectionEvents: {
		{name: "title", kind: kindString, required: true},
		{name: "description", kind: kindString},
		{name: "starts_at", kind: kindDateTime, required: true},
		{name: "ends_at", kind: kindDateTime, required: true},
		{name: "location", kind: kindString},
		{name: "audience", kind: kindString, def: "all"},
		{name: "host_id", kind: kindString},
	},
	CollectionEventRegistrations: {
		{name: "event_id", kind: kindString, required: true},
		{name: "user_id", kind: kindString, required: true},
		{name: "role", kind: kindString, required: true, enum: []string{"student", "teacher", "admin"}},
	},
	CollectionStudyMaterials: {
		{name: "class_id", kind: kindString, required: true},
		{name: "title", kind: kindString, required: true},
		{name: "description", kind: kindString},
		{name: "file_url", kind: kindString},
		{name: "uploaded_by", kind: kindString, required: true},
	},
	CollectionAssignments: {
		{name: "class_id", kind: kindString, required: true},
		{name: "title", kind: kindString, required: true},
		{name: "description", kind: kindString},
		{name: "due_date", kind: kindDate},
		{name: "type", kind: kindString, def: "homework", enum: []string{"homework", "test", "project", "quiz"}},
		{name: "created_by", kind: kindString, required: true},
	},
	CollectionSubmissions: {
		{name: "assignment_id", kind: kindString, required: true},
		{name: "student_id", kind: kindString, required: true},
		{name: "file_url", kind: kindString},
		{name: "text", kind: kindString},
		{name: "score", kind: kindFloat, min: fptr(0)},
		{name: "graded_by", kind: kindString},
	},
	CollectionAttendance: {
		{name: "class_id", kind: kindString, required: true},
		{name: "student_id", kind: kindString, required: true},
		{name: "date", kind: kindDate, required: true},
		{name: "status", kind: kindString, def: "present", enum: []string{"present", "absent", "late", "excused"}},
		{name: "marked_by", kind: kindString},
		{name: "approved", kind: kindBool, def: false},
		{name: "approved_by", kind: kindString},
	},
	CollectionPerformance: {
		{name: "teacher_id", kind: kindString, required: true},
		{name: "reviewer_id", kind: kindString, required: true},
		{name: "period", kind: kindString, required: true},
		{name: "score", kind: kindFloat, required: true, min: fptr(0), max: fptr(5)},
		{name: "feedback", kind: kindString},
	},
}

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindInt:
		return "integer"
	case kindFloat:
		return "number"
	case kindBool:
		return "boolean"
	case kindDate:
		return "date"
	case kindDateTime:
		return "datetime"
	}
	return "unknown"
}

// FieldInfo is the outward description of one schema field.
type FieldInfo struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required,omitempty"`
	Enum     []string `json:"enum,omitempty"`
	Default  any      `json:"default,omitempty"`
}

// Catalog describes every collection's payload schema, for API discovery.
func Catalog() map[string][]FieldInfo {
	out := make(map[string][]FieldInfo, len(schemas))
	for name, fields := range schemas {
		infos := make([]FieldInfo, 0, len(fields))
		for _, f := range fields {
			infos = append(infos, FieldInfo{
				Name:     f.name,
				Kind:     f.kind.String(),
				Required: f.required,
				Enum:     append([]string(nil), f.enum...),
				Default:  f.def,
			})
		}
		out[name] = infos
	}
	return out
}

// KnownCollection reports whether a payload schema exists for the name.
func KnownCollection(name string) bool {
	_, ok := schemas[name]
	return ok
}

// Normalize validates a decoded JSON payload against the collection schema
// and returns the cleaned document: defaults applied, unknown keys dropped.
func Normalize(collection string, payload map[string]any) (map[string]any, error) {
	fields, ok := schemas[collection]
	if !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown collection %q", collection)}
	}

	out := make(map[string]any, len(fields))
	for _, f := range fields {
		raw, present := payload[f.name]
		if !present || raw == nil {
			if f.required {
				return nil, &ValidationError{Field: f.name, Reason: "field required"}
			}
			if f.def != nil {
				out[f.name] = f.def
			}
			continue
		}
		val, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		out[f.name] = val
	}
	return out, nil
}

func coerce(f field, raw any) (any, error) {
	switch f.kind {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Field: f.name, Reason: "must be a string"}
		}
		if f.required && strings.TrimSpace(s) == "" {
			return nil, &ValidationError{Field: f.name, Reason: "field required"}
		}
		if len(f.enum) > 0 && !contains(f.enum, s) {
			return nil, &ValidationError{Field: f.name, Reason: "must be one of " + strings.Join(f.enum, "|")}
		}
		return s, nil
	case kindInt:
		n, ok := raw.(float64)
		if !ok || n != float64(int64(n)) {
			return nil, &ValidationError{Field: f.name, Reason: "must be an integer"}
		}
		if err := checkRange(f, n); err != nil {
			return nil, err
		}
		return n, nil
	case kindFloat:
		n, ok := raw.(float64)
		if !ok {
			return nil, &ValidationError{Field: f.name, Reason: "must be a number"}
		}
		if err := checkRange(f, n); err != nil {
			return nil, err
		}
		return n, nil
	case kindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, &ValidationError{Field: f.name, Reason: "must be a boolean"}
		}
		return b, nil
	case kindDate:
		s, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Field: f.name, Reason: "must be a date string (YYYY-MM-DD)"}
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return nil, &ValidationError{Field: f.name, Reason: "must be a date string (YYYY-MM-DD)"}
		}
		return s, nil
	case kindDateTime:
		s, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Field: f.name, Reason: "must be an RFC 3339 timestamp"}
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return nil, &ValidationError{Field: f.name, Reason: "must be an RFC 3339 timestamp"}
		}
		return s, nil
	}
	return nil, &ValidationError{Field: f.name, Reason: "unsupported field kind"}
}

func checkRange(f field, n float64) error {
	if f.min != nil && n < *f.min {
		return &ValidationError{Field: f.name, Reason: fmt.Sprintf("must be >= %g", *f.min)}
	}
	if f.max != nil && n > *f.max {
		return &ValidationError{Field: f.name, Reason: fmt.Sprintf("must be <= %g", *f.max)}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
