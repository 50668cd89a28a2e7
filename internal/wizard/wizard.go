// Package wizard drives an ordered, user-navigable sequence of steps with
// per-step validation and monotonic forward completion. A Wizard is an
// immutable value: every transition returns a new Wizard and never performs
// I/O, which is what lets three independent booking flows share it.
package wizard

import (
	"errors"

	apperrors "hopskip/internal/errors"
)

// StepStatus is the lifecycle of a single step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCurrent   StepStatus = "current"
	StepCompleted StepStatus = "completed"
	StepError     StepStatus = "error"
)

// Form is the accumulated selections across all steps.
type Form map[string]string

// Validator is a pure predicate over the form: it returns a map of field name
// to message for every problem, or an empty map when the step is satisfied.
type Validator func(Form) map[string]string

// StepDef declares a step of a flow. Definitions are shared and never mutated.
type StepDef struct {
	ID       string
	Title    string
	Validate Validator
}

// Step is the navigable state of one step instance.
type Step struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Status StepStatus        `json:"status"`
	Errors map[string]string `json:"errors,omitempty"`
}

var (
	// ErrStepInvalid reports that the active step's validation failed. The
	// returned wizard carries the per-field errors; the form is untouched.
	ErrStepInvalid = errors.New("step validation failed")

	// ErrStepLocked reports a jump ahead of the current position.
	ErrStepLocked = errors.New("cannot skip ahead of the current step")

	ErrAtFirstStep = errors.New("already at the first step")
	ErrAtLastStep  = errors.New("already at the final step, submit instead")
	ErrNotLastStep = errors.New("wizard is not on its final step")
	ErrFinished    = errors.New("wizard already completed")
)

// Wizard is one active flow instance. The zero value is not usable; construct
// with New or Restore.
type Wizard struct {
	Flow    string
	Current int
	Steps   []Step
	Form    Form

	defs []StepDef
}

// New starts a flow at its first step.
func New(flow string, defs []StepDef) Wizard {
	steps := make([]Step, len(defs))
	for i, d := range defs {
		steps[i] = Step{ID: d.ID, Title: d.Title, Status: StepPending}
	}
	if len(steps) > 0 {
		steps[0].Status = StepCurrent
	}
	return Wizard{Flow: flow, Steps: steps, Form: Form{}, defs: defs}
}

// clone copies the mutable parts so transitions never alias.
func (w Wizard) clone() Wizard {
	steps := make([]Step, len(w.Steps))
	copy(steps, w.Steps)
	form := make(Form, len(w.Form))
	for k, v := range w.Form {
		form[k] = v
	}
	w.Steps = steps
	w.Form = form
	return w
}

// Completed reports whether the final step has been submitted.
func (w Wizard) Completed() bool {
	return w.Current >= len(w.Steps)
}

// SetField records one form selection. Entered data is never lost by any
// later validation failure.
func (w Wizard) SetField(key, value string) Wizard {
	next := w.clone()
	next.Form[key] = value
	return next
}

// Next validates the active step. On success the step is marked completed and
// the following step becomes current; on failure the step carries its field
// errors, the position does not change, and ErrStepInvalid is returned
// alongside the updated wizard.
func (w Wizard) Next() (Wizard, error) {
	if w.Completed() {
		return w, ErrFinished
	}
	if w.Current == len(w.Steps)-1 {
		return w, ErrAtLastStep
	}

	next := w.clone()
	if errs := w.defs[w.Current].Validate(next.Form); len(errs) > 0 {
		next.Steps[w.Current].Status = StepError
		next.Steps[w.Current].Errors = errs
		return next, ErrStepInvalid
	}

	next.Steps[w.Current].Status = StepCompleted
	next.Steps[w.Current].Errors = nil
	next.Current++
	next.Steps[next.Current].Status = StepCurrent
	return next, nil
}

// Previous moves back one step without re-validating. Revisiting is free;
// a completed mark is only revoked if a later Next fails validation.
func (w Wizard) Previous() (Wizard, error) {
	if w.Current == 0 {
		return w, ErrAtFirstStep
	}
	if w.Completed() {
		return w, ErrFinished
	}
	return w.jump(w.Current - 1), nil
}

// JumpTo moves directly to a previously visited step. Skipping ahead of the
// current position is rejected and the wizard is unchanged.
func (w Wizard) JumpTo(index int) (Wizard, error) {
	if w.Completed() {
		return w, ErrFinished
	}
	if index < 0 || index >= len(w.Steps) {
		return w, apperrors.InvalidInputf("step index %d out of range", index)
	}
	if index > w.Current {
		return w, ErrStepLocked
	}
	if index == w.Current {
		return w, nil
	}
	return w.jump(index), nil
}

func (w Wizard) jump(index int) Wizard {
	next := w.clone()
	// The step being left was reached but never completed from here; steps
	// between the target and the old position keep their completed marks.
	if next.Steps[next.Current].Status == StepCurrent {
		next.Steps[next.Current].Status = StepPending
	}
	next.Current = index
	next.Steps[index].Status = StepCurrent
	next.Steps[index].Errors = nil
	return next
}

// Submit validates the final step and runs the terminal commit. If commit
// fails the original wizard is returned unchanged so the user can retry; on
// success the wizard is finished and should be discarded by the caller.
func (w Wizard) Submit(commit func() error) (Wizard, error) {
	if w.Completed() {
		return w, ErrFinished
	}
	if w.Current != len(w.Steps)-1 {
		return w, ErrNotLastStep
	}

	next := w.clone()
	if errs := w.defs[w.Current].Validate(next.Form); len(errs) > 0 {
		next.Steps[w.Current].Status = StepError
		next.Steps[w.Current].Errors = errs
		return next, ErrStepInvalid
	}

	if err := commit(); err != nil {
		return w, err
	}

	next.Steps[w.Current].Status = StepCompleted
	next.Steps[w.Current].Errors = nil
	next.Current = len(next.Steps)
	return next, nil
}

// Snapshot is the serializable part of a wizard, stored by the persistence
// layer between requests. Validators live in the flow definition and are
// re-attached on Restore.
type Snapshot struct {
	Flow    string `json:"flow"`
	Current int    `json:"current"`
	Steps   []Step `json:"steps"`
	Form    Form   `json:"form"`
}

// Snapshot captures the wizard for storage.
func (w Wizard) Snapshot() Snapshot {
	c := w.clone()
	return Snapshot{Flow: c.Flow, Current: c.Current, Steps: c.Steps, Form: c.Form}
}

// Restore rebuilds a wizard from a stored snapshot and its flow definition.
// A snapshot whose steps do not line up with the definition is corrupt.
func Restore(snap Snapshot, defs []StepDef) (Wizard, error) {
	if len(snap.Steps) != len(defs) {
		return Wizard{}, apperrors.DataIntegrityf("wizard snapshot has %d steps, flow %q defines %d",
			len(snap.Steps), snap.Flow, len(defs))
	}
	for i, d := range defs {
		if snap.Steps[i].ID != d.ID {
			return Wizard{}, apperrors.DataIntegrityf("wizard snapshot step %d is %q, flow %q defines %q",
				i, snap.Steps[i].ID, snap.Flow, d.ID)
		}
	}
	if snap.Current < 0 || snap.Current > len(defs) {
		return Wizard{}, apperrors.DataIntegrityf("wizard snapshot position %d out of range", snap.Current)
	}

	w := Wizard{Flow: snap.Flow, Current: snap.Current, Steps: snap.Steps, Form: snap.Form, defs: defs}
	if w.Form == nil {
		w.Form = Form{}
	}
	return w.clone(), nil
}
