// Package customize drives the item customization dialog: one step per
// customization group, at most one chosen option per step.
package customize

import (
	"errors"
	"sort"

	"github.com/kiwari-pos/storefront/internal/catalog"
)

var ErrUnknownOption = errors.New("option not found in current step")

// Selections maps a 1-based step to the option chosen in it. A step with no
// entry has not been chosen.
type Selections map[int]catalog.Option

// Ordered returns the chosen options in ascending step order. Gaps are skipped.
func (s Selections) Ordered() []catalog.Option {
	steps := make([]int, 0, len(s))
	for step := range s {
		steps = append(steps, step)
	}
	sort.Ints(steps)

	out := make([]catalog.Option, 0, len(steps))
	for _, step := range steps {
		out = append(out, s[step])
	}
	return out
}

// State is the persisted form of an Engine.
type State struct {
	CurrentStep int        `json:"current_step"`
	Selections  Selections `json:"selections"`
}

// Engine walks the ordered customization groups of one item.
type Engine struct {
	groups      []catalog.CustomizationGroup
	currentStep int
	selections  Selections
}

// NewEngine starts at step 1 with nothing selected.
func NewEngine(groups []catalog.CustomizationGroup) *Engine {
	return &Engine{
		groups:      groups,
		currentStep: 1,
		selections:  Selections{},
	}
}

// Restore rebuilds an engine from a snapshot taken with Snapshot.
func Restore(groups []catalog.CustomizationGroup, st State) *Engine {
	e := NewEngine(groups)
	if st.CurrentStep > 1 && st.CurrentStep <= len(groups) {
		e.currentStep = st.CurrentStep
	}
	for step, opt := range st.Selections {
		e.selections[step] = opt
	}
	return e
}

func (e *Engine) Snapshot() State {
	sel := make(Selections, len(e.selections))
	for step, opt := range e.selections {
		sel[step] = opt
	}
	return State{CurrentStep: e.currentStep, Selections: sel}
}

func (e *Engine) CurrentStep() int { return e.currentStep }

// Steps is N, the number of groups.
func (e *Engine) Steps() int { return len(e.groups) }

// CurrentGroup returns the group shown at the current step. ok is false when
// the item has no customization groups.
func (e *Engine) CurrentGroup() (catalog.CustomizationGroup, bool) {
	if e.currentStep < 1 || e.currentStep > len(e.groups) {
		return catalog.CustomizationGroup{}, false
	}
	return e.groups[e.currentStep-1], true
}

// IsLastStep reports whether Advance would complete the walk.
func (e *Engine) IsLastStep() bool {
	return e.currentStep >= len(e.groups)
}

// SelectOption records opt for step, replacing any earlier choice. The option
// is not checked against the group at step and the current step is unchanged.
func (e *Engine) SelectOption(step int, opt catalog.Option) {
	e.selections[step] = opt
}

// SelectByName selects the option of the current group whose name matches.
func (e *Engine) SelectByName(name string) (catalog.Option, error) {
	group, ok := e.CurrentGroup()
	if !ok {
		return catalog.Option{}, ErrUnknownOption
	}
	opt, ok := group.Find(name)
	if !ok {
		return catalog.Option{}, ErrUnknownOption
	}
	e.SelectOption(e.currentStep, opt)
	return opt, nil
}

// IsSelected compares by option name, not identity.
func (e *Engine) IsSelected(step int, name string) bool {
	opt, ok := e.selections[step]
	return ok && opt.Key() == name
}

// Advance moves to the next step. On the last step it leaves the step and
// selections untouched and reports completion.
func (e *Engine) Advance() (completed bool) {
	if e.currentStep < len(e.groups) {
		e.currentStep++
		return false
	}
	return true
}

// Retreat moves to the previous step, stopping at 1.
func (e *Engine) Retreat() {
	if e.currentStep > 1 {
		e.currentStep--
	}
}

// Selections returns a copy of the current choices.
func (e *Engine) Selections() Selections {
	return e.Snapshot().Selections
}

// Reset returns to step 1 and clears every selection.
func (e *Engine) Reset() {
	e.currentStep = 1
	e.selections = Selections{}
}
