// Package workflow models the upload -> edit -> preview session flow as an
// explicit state machine, so the flow is testable without any UI toolkit.
package workflow

import "fmt"

type State string

const (
	StateUpload  State = "upload"
	StateEdit    State = "edit"
	StatePreview State = "preview"
)

type Event string

const (
	// FileAccepted: a PDF was extracted and structured successfully.
	FileAccepted Event = "file_accepted"
	// AdjustmentsSubmitted: margin and labor parameters were applied.
	AdjustmentsSubmitted Event = "adjustments_submitted"
	// EditRequested: back from preview to tweak the adjustments.
	EditRequested Event = "edit_requested"
	// RestartRequested: drop everything, start over with a new document.
	RestartRequested Event = "restart_requested"
)

var transitions = map[State]map[Event]State{
	StateUpload: {
		FileAccepted: StateEdit,
	},
	StateEdit: {
		AdjustmentsSubmitted: StatePreview,
		RestartRequested:     StateUpload,
	},
	StatePreview: {
		EditRequested:    StateEdit,
		RestartRequested: StateUpload,
	},
}

// Workflow is one session's position in the flow. The zero value is not
// usable; start with New.
type Workflow struct {
	state State
}

func New() *Workflow { return &Workflow{state: StateUpload} }

func (w *Workflow) State() State { return w.state }

// Fire applies an event. Unknown or out-of-place events leave the state
// untouched and return an error.
func (w *Workflow) Fire(ev Event) error {
	next, ok := transitions[w.state][ev]
	if !ok {
		return fmt.Errorf("invalid transition: %s from state %s", ev, w.state)
	}
	w.state = next
	return nil
}
