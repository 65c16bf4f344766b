package presets

import (
	"fmt"

	"lotsheet/internal"
)

type EditorState string

const (
	StateViewing EditorState = "viewing"
	StateEditing EditorState = "editing"
)

// Editor drives edits to a single preset through an explicit two-state
// machine instead of per-row boolean flags. Commands are only legal in
// the state that allows them.
type Editor struct {
	store   Store
	state   EditorState
	current internal.Preset
	draft   internal.Preset
}

func NewEditor(store Store, p internal.Preset) *Editor {
	return &Editor{store: store, state: StateViewing, current: p}
}

func (e *Editor) State() EditorState { return e.state }

func (e *Editor) Current() internal.Preset { return e.current }

// BeginEdit moves to Editing and seeds the draft from the current value.
func (e *Editor) BeginEdit() error {
	if e.state != StateViewing {
		return fmt.Errorf("begin edit: editor is %s", e.state)
	}
	e.draft = e.current
	e.state = StateEditing
	return nil
}

// Draft exposes the mutable working copy while Editing.
func (e *Editor) Draft() (*internal.Preset, error) {
	if e.state != StateEditing {
		return nil, fmt.Errorf("draft: editor is %s", e.state)
	}
	return &e.draft, nil
}

// Commit validates and persists the draft, then returns to Viewing. The
// building/category key is fixed for the editor's lifetime.
func (e *Editor) Commit() error {
	if e.state != StateEditing {
		return fmt.Errorf("commit: editor is %s", e.state)
	}
	e.draft.Building = e.current.Building
	e.draft.Category = e.current.Category
	if err := Validate(e.draft); err != nil {
		return err
	}
	if err := e.store.PutPreset(e.draft); err != nil {
		return err
	}
	e.current = e.draft
	e.state = StateViewing
	return nil
}

// Cancel discards the draft and returns to Viewing.
func (e *Editor) Cancel() error {
	if e.state != StateEditing {
		return fmt.Errorf("cancel: editor is %s", e.state)
	}
	e.draft = internal.Preset{}
	e.state = StateViewing
	return nil
}

// Delete removes the preset; only legal while Viewing.
func (e *Editor) Delete() error {
	if e.state != StateViewing {
		return fmt.Errorf("delete: editor is %s", e.state)
	}
	return e.store.DeletePreset(e.current.Building, e.current.Category)
}
