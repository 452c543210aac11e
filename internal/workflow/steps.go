package workflow

import "github.com/cuivienor/clipdeck/internal/model"

// Classify marks each step in model.Steps as completed, active or pending
// relative to current. Steps before current are completed, current is active,
// the rest pending. done marks every step completed; any other status outside
// the step order leaves every step pending.
//
// error is terminal but still reports every step pending: the failure point is
// unknown, and the error view replaces the step list.
func Classify(current model.Status) []model.Step {
	idx := current.StepIndex()
	if current == model.StatusDone {
		idx = len(model.Steps)
	}

	steps := make([]model.Step, len(model.Steps))
	for i, s := range model.Steps {
		state := model.StepPending
		switch {
		case idx < 0:
		case i < idx:
			state = model.StepCompleted
		case i == idx:
			state = model.StepActive
		}
		steps[i] = model.Step{Status: s, State: state}
	}
	return steps
}
