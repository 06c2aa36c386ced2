package doctree

import "fmt"

// WarningKind classifies a non-fatal conversion problem.
type WarningKind string

const (
	WarnUnattachedPage       WarningKind = "unattached_page"
	WarnUnresolvedInnerClass WarningKind = "unresolved_inner_class"
	WarnUnresolvedFieldType  WarningKind = "unresolved_field_type"
	WarnMalformedParam       WarningKind = "malformed_param"
	WarnUnhandledElement     WarningKind = "unhandled_element"
	WarnIgnoredSection       WarningKind = "ignored_section"
	WarnSkippedCompound      WarningKind = "skipped_compound"
	WarnDuplicateGroup       WarningKind = "duplicate_group"
)

// Warning is something the converter dropped or could not resolve.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Subject string      `json:"subject"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Subject, w.Message)
}

// Report collects warnings in the order they were raised.
type Report struct {
	Warnings []Warning
}

// Warn records a warning.
func (r *Report) Warn(kind WarningKind, subject, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Add appends already-built warnings.
func (r *Report) Add(ws ...Warning) {
	r.Warnings = append(r.Warnings, ws...)
}

// Count returns how many warnings of kind were recorded.
func (r *Report) Count(kind WarningKind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
