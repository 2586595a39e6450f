package customize

import (
	"errors"

	"github.com/kiwari-pos/storefront/internal/enum"
)

var ErrDialogClosed = errors.New("customization dialog is not open")

// DismissPolicy decides what happens to the walk when the dialog is closed
// without finishing.
type DismissPolicy int

const (
	// KeepSelections leaves step and selections as they were, so reopening
	// resumes where the customer left off.
	KeepSelections DismissPolicy = iota
	// ResetSelections starts the next open from step 1 with nothing chosen.
	ResetSelections
)

// Dialog is the Closed → Open(step) → Completed state machine around an Engine.
type Dialog struct {
	engine *Engine
	status string
}

// NewDialog wraps engine. An empty status means closed.
func NewDialog(engine *Engine, status string) *Dialog {
	if status == "" {
		status = enum.DialogClosed
	}
	return &Dialog{engine: engine, status: status}
}

func (d *Dialog) Engine() *Engine { return d.engine }

func (d *Dialog) Status() string { return d.status }

func (d *Dialog) IsOpen() bool { return d.status == enum.DialogOpen }

// Open shows the dialog. Step and selections carry over from any earlier open.
func (d *Dialog) Open() {
	d.status = enum.DialogOpen
}

// Select chooses an option by name at the current step.
func (d *Dialog) Select(name string) error {
	if !d.IsOpen() {
		return ErrDialogClosed
	}
	_, err := d.engine.SelectByName(name)
	return err
}

// Continue advances; on the last step it closes the dialog as completed.
func (d *Dialog) Continue() (completed bool, err error) {
	if !d.IsOpen() {
		return false, ErrDialogClosed
	}
	if d.engine.Advance() {
		d.status = enum.DialogCompleted
		return true, nil
	}
	return false, nil
}

func (d *Dialog) Back() error {
	if !d.IsOpen() {
		return ErrDialogClosed
	}
	d.engine.Retreat()
	return nil
}

// Dismiss closes the dialog without finishing. Dismissing a closed dialog is
// a no-op.
func (d *Dialog) Dismiss(policy DismissPolicy) {
	if !d.IsOpen() {
		return
	}
	d.status = enum.DialogClosed
	if policy == ResetSelections {
		d.engine.Reset()
	}
}

// FinishLabel is the caption of the forward button at the current step.
func (d *Dialog) FinishLabel() string {
	if d.engine.IsLastStep() {
		return enum.StepLabelFinish
	}
	return enum.StepLabelContinue
}
