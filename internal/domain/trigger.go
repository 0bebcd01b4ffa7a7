package domain

// TriggerKind names the event that asked for a re-analysis.
type TriggerKind string

const (
	TriggerStartup TriggerKind = "startup"
	TriggerFocus   TriggerKind = "focus"
	TriggerSave    TriggerKind = "save"
	TriggerConfig  TriggerKind = "config"
	TriggerCommand TriggerKind = "command"
)

// Trigger is one event on the session queue. Path is set for focus and
// save triggers.
type Trigger struct {
	Kind TriggerKind `json:"kind"`
	Path string      `json:"path,omitempty"`
}
