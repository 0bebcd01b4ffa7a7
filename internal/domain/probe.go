package domain

// ProbeReport is the outcome of the availability checks run before any
// analysis.
type ProbeReport struct {
	Interpreter        string `json:"interpreter,omitempty"`
	InterpreterChecked bool   `json:"interpreter_checked"`
	InterpreterFound   bool   `json:"interpreter_found"`
	ToolCommand        string `json:"tool_command"`
	ToolFound          bool   `json:"tool_found"`
}

// Err returns the error the session reports for this probe, checking the
// interpreter first.
func (p ProbeReport) Err() error {
	if p.InterpreterChecked && !p.InterpreterFound {
		return ErrInterpreterMissing
	}
	if !p.ToolFound {
		return ErrToolMissing
	}
	return nil
}
