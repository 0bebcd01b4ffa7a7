package diagnose

import "github.com/pydoclens/pydoclens/internal/domain"

// EndColumn is where every annotation's column span ends, regardless of the
// report's end_character. Editors highlight a fixed width from the start
// column.
const EndColumn = 80

// Map projects a validation report into one AnnotationSet per failed module.
//
// Only FAILED functions that carry a source range become annotations; a
// failed module with none of those still yields an empty set so callers can
// clear stale markers for that file. Functions nested in a class are only
// visited when the class itself is FAILED. Map never fails: absent fields
// simply produce fewer annotations.
func Map(report *domain.ValidationReport) []domain.AnnotationSet {
	if report == nil || !report.Failed() {
		return nil
	}

	var sets []domain.AnnotationSet
	for _, m := range report.ModuleResults {
		if !m.Failed() {
			continue
		}

		set := domain.AnnotationSet{
			Target:      m.ModulePath,
			Annotations: []domain.Annotation{},
		}
		set.Annotations = appendFunctions(set.Annotations, m.FunctionResults)
		for _, c := range m.ClassResults {
			if c.Failed() {
				set.Annotations = appendFunctions(set.Annotations, c.FunctionResults)
			}
		}
		sets = append(sets, set)
	}
	return sets
}

// Count returns the total number of annotations across sets.
func Count(sets []domain.AnnotationSet) int {
	n := 0
	for _, s := range sets {
		n += len(s.Annotations)
	}
	return n
}

func appendFunctions(dst []domain.Annotation, fns []domain.FunctionResult) []domain.Annotation {
	for _, fn := range fns {
		if !fn.Failed() || fn.Range == nil {
			continue
		}
		dst = append(dst, domain.Annotation{
			Range:    toEditorRange(*fn.Range),
			Message:  fn.FailReason,
			Severity: domain.SeverityError,
		})
	}
	return dst
}

func toEditorRange(r domain.SourceRange) domain.Range {
	return domain.Range{
		StartLine:   r.StartLine - 1,
		EndLine:     r.EndLine - 1,
		StartColumn: r.StartCharacter,
		EndColumn:   EndColumn,
	}
}
