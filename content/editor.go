package content

import (
	"fmt"
	"log"
	"time"

	"docsite/config"
	"docsite/types"
)

// Clone deep-copies an editable content tree. Everything is value-typed
// except the services slice, which is copied element-wise.
func Clone(c types.EditableContent) types.EditableContent {
	out := c
	items := make([]types.ServiceItem, len(c.Pages.Home.Services.Items))
	copy(items, c.Pages.Home.Services.Items)
	out.Pages.Home.Services.Items = items
	return out
}

// UpdateContent returns a deep copy of c with the dotted path set to value,
// the version bumped, and LastModified refreshed. The input is never mutated.
func UpdateContent(c types.EditableContent, path, value string) (types.EditableContent, error) {
	out := Clone(c)
	if err := setValueAtPath(&out, path, value); err != nil {
		return c, err
	}
	touch(&out)
	return out, nil
}

// AddService returns a copy of c with a new service appended, carrying a
// freshly generated unique id
func AddService(c types.EditableContent, name, description, icon string) (types.EditableContent, string, error) {
	if len(c.Pages.Home.Services.Items) >= config.MaxServices {
		return c, "", fmt.Errorf("services list is full (max %d)", config.MaxServices)
	}

	id := types.NewServiceID()
	for containsService(c.Pages.Home.Services.Items, id) {
		id = types.NewServiceID()
	}

	out := Clone(c)
	out.Pages.Home.Services.Items = append(out.Pages.Home.Services.Items, serviceItem(id, name, description, icon))
	touch(&out)
	return out, id, nil
}

// RemoveService returns a copy of c without the identified service. An
// unknown id leaves the copy untouched; callers historically rely on this
// being silent.
func RemoveService(c types.EditableContent, id string) (types.EditableContent, bool) {
	out := Clone(c)
	items := out.Pages.Home.Services.Items
	for i, item := range items {
		if item.ID == id {
			out.Pages.Home.Services.Items = append(items[:i:i], items[i+1:]...)
			touch(&out)
			return out, true
		}
	}
	log.Printf("content: remove of unknown service %q ignored", id)
	return out, false
}

// touch advances the mutation bookkeeping on every change
func touch(c *types.EditableContent) {
	c.Version++
	c.LastModified = time.Now()
}

func containsService(items []types.ServiceItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Editor owns one editing session: the current content plus a bounded change
// history for undo/redo. It is created per session and passed by reference to
// whatever needs it; there is deliberately no package-level instance.
type Editor struct {
	content      types.EditableContent
	baseline     types.EditableContent
	history      []types.ChangeHistoryEntry
	snapshots    []types.EditableContent // content after history[i], same indexes
	historyIndex int                     // index of the last applied entry, -1 when at baseline
	maxHistory   int
}

// NewEditor starts an editing session over the given content
func NewEditor(c types.EditableContent) *Editor {
	return &Editor{
		content:      Clone(c),
		baseline:     Clone(c),
		history:      make([]types.ChangeHistoryEntry, 0),
		snapshots:    make([]types.EditableContent, 0),
		historyIndex: -1,
		maxHistory:   config.MaxHistoryEntries,
	}
}

// Content returns a copy of the current content
func (e *Editor) Content() types.EditableContent {
	return Clone(e.content)
}

// Update sets the dotted path to value, recording the change for undo
func (e *Editor) Update(path, value string) (types.EditableContent, error) {
	oldValue, _ := ValueAtPath(e.content, path)
	updated, err := UpdateContent(e.content, path, value)
	if err != nil {
		return e.content, err
	}

	e.content = updated
	e.record(types.ChangeHistoryEntry{
		Action:    types.ActionUpdate,
		FieldPath: path,
		OldValue:  oldValue,
		NewValue:  value,
		Timestamp: time.Now(),
	})
	return Clone(updated), nil
}

// AddService appends a new service item and records the change
func (e *Editor) AddService(name, description, icon string) (types.EditableContent, string, error) {
	updated, id, err := AddService(e.content, name, description, icon)
	if err != nil {
		return e.content, "", err
	}

	e.content = updated
	e.record(types.ChangeHistoryEntry{
		Action:    types.ActionAddService,
		NewValue:  id,
		Timestamp: time.Now(),
	})
	return Clone(updated), id, nil
}

// RemoveService deletes a service item by id, recording the change. Removing
// an unknown id changes nothing and records nothing.
func (e *Editor) RemoveService(id string) types.EditableContent {
	updated, removed := RemoveService(e.content, id)
	if !removed {
		return Clone(updated)
	}

	e.content = updated
	e.record(types.ChangeHistoryEntry{
		Action:    types.ActionRemoveService,
		OldValue:  id,
		Timestamp: time.Now(),
	})
	return Clone(updated)
}

// Undo steps back one history entry. Returns false when there is nothing to
// undo.
func (e *Editor) Undo() (types.EditableContent, bool) {
	if e.historyIndex < 0 {
		return Clone(e.content), false
	}
	e.historyIndex--
	if e.historyIndex < 0 {
		e.content = Clone(e.baseline)
	} else {
		e.content = Clone(e.snapshots[e.historyIndex])
	}
	return Clone(e.content), true
}

// Redo re-applies the next history entry after an undo. Returns false at the
// head of history.
func (e *Editor) Redo() (types.EditableContent, bool) {
	if e.historyIndex >= len(e.history)-1 {
		return Clone(e.content), false
	}
	e.historyIndex++
	e.content = Clone(e.snapshots[e.historyIndex])
	return Clone(e.content), true
}

// History returns a copy of the recorded entries and the current position
func (e *Editor) History() ([]types.ChangeHistoryEntry, int) {
	out := make([]types.ChangeHistoryEntry, len(e.history))
	copy(out, e.history)
	return out, e.historyIndex
}

// record appends a history entry, truncating the redo branch when the session
// is not at the head of history, and dropping the oldest entry once the ring
// is full
func (e *Editor) record(entry types.ChangeHistoryEntry) {
	if e.historyIndex < len(e.history)-1 {
		e.history = e.history[:e.historyIndex+1]
		e.snapshots = e.snapshots[:e.historyIndex+1]
	}

	e.history = append(e.history, entry)
	e.snapshots = append(e.snapshots, Clone(e.content))

	if len(e.history) > e.maxHistory {
		drop := len(e.history) - e.maxHistory
		// The oldest surviving entry must still undo to something sensible
		e.baseline = Clone(e.snapshots[drop-1])
		e.history = e.history[drop:]
		e.snapshots = e.snapshots[drop:]
	}
	e.historyIndex = len(e.history) - 1
}
