package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is the outcome pydoctest assigns to every node of a report.
type Status int

const (
	StatusNotRun Status = iota
	StatusOK
	StatusFailed
	StatusSkipped
	StatusNoDoc
)

func (s Status) String() string {
	switch s {
	case StatusNotRun:
		return "NOT_RUN"
	case StatusOK:
		return "OK"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	case StatusNoDoc:
		return "NO_DOC"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the status pair shared by every level of the report tree.
// FailReason is only non-empty when Status is StatusFailed.
type Result struct {
	Status     Status `json:"result"`
	FailReason string `json:"fail_reason"`
}

func (r Result) Failed() bool { return r.Status == StatusFailed }

// SourceRange locates a function in its module. Lines are 1-based,
// characters 0-based.
type SourceRange struct {
	StartLine      int `json:"start_line"`
	EndLine        int `json:"end_line"`
	StartCharacter int `json:"start_character"`
	EndCharacter   int `json:"end_character"`
}

type FunctionResult struct {
	Result
	Function string       `json:"function"`
	Range    *SourceRange `json:"range,omitempty"`
}

type ClassResult struct {
	Result
	ClassName       string           `json:"class_name"`
	FunctionResults []FunctionResult `json:"function_results"`
}

type ModuleResult struct {
	Result
	ModulePath      string           `json:"module_path"`
	FunctionResults []FunctionResult `json:"function_results"`
	ClassResults    []ClassResult    `json:"class_results"`
}

// ValidationReport is the root of the JSON document printed by
// `pydoctest --reporter json`.
type ValidationReport struct {
	Result
	ModuleResults []ModuleResult `json:"module_results"`
}

// ParseReport decodes captured tool output. Absent fields decode to their
// zero values; anything that is not a JSON object is ErrMalformedReport.
func ParseReport(data []byte) (*ValidationReport, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedReport)
	}

	var report ValidationReport
	if err := json.Unmarshal(trimmed, &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	return &report, nil
}

// Severity of an annotation. The mapper only ever produces SeverityError.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Range is a 0-based line/column span in editor coordinates.
type Range struct {
	StartLine   int `json:"start_line"`
	EndLine     int `json:"end_line"`
	StartColumn int `json:"start_column"`
	EndColumn   int `json:"end_column"`
}

// Annotation is a located message destined for an error-marking surface.
type Annotation struct {
	Range    Range    `json:"range"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// AnnotationSet groups the annotations for one target file. An empty
// Annotations slice is meaningful: it clears stale markers for Target.
type AnnotationSet struct {
	Target      string       `json:"target"`
	Annotations []Annotation `json:"annotations"`
}
