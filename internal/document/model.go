package document

import (
	"fmt"
	"sort"
	"time"
)

// KeyDocument is the conventional output key under which the assembling
// stage publishes the final *Document.
const KeyDocument = "doc"

// StageStatus records how one stage of an execution went.
type StageStatus struct {
	Stage    string
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Model accumulates the outputs of all stages for one source file.
//
// A Model is exclusively owned by the single execution that created it; it is
// never shared across documents and therefore needs no locking. Once the run
// finishes (or fails), Finalize freezes it: further merges are rejected.
type Model struct {
	source    string
	values    map[string]any
	statuses  []StageStatus
	finalized bool
}

// NewModel returns an empty model for the given source identifier.
func NewModel(source string) *Model {
	return &Model{
		source: source,
		values: make(map[string]any),
	}
}

// Source returns the input identifier the model was created for.
func (m *Model) Source() string { return m.source }

// Merge folds a stage's outputs into the model. Merging into a finalized
// model or re-producing an existing key is a programming error surfaced as an
// explicit failure rather than silent overwrite.
func (m *Model) Merge(out map[string]any) error {
	if m.finalized {
		return fmt.Errorf("model for %q is finalized", m.source)
	}
	for k := range out {
		if _, exists := m.values[k]; exists {
			return fmt.Errorf("key %q already present in model for %q", k, m.source)
		}
	}
	for k, v := range out {
		m.values[k] = v
	}
	return nil
}

// RecordStage appends a stage status entry.
func (m *Model) RecordStage(s StageStatus) {
	if m.finalized {
		return
	}
	m.statuses = append(m.statuses, s)
}

// Finalize freezes the model. Idempotent.
func (m *Model) Finalize() { m.finalized = true }

// Finalized reports whether the model has been frozen.
func (m *Model) Finalized() bool { return m.finalized }

// Value returns the output stored under key.
func (m *Model) Value(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns all stored output keys, sorted.
func (m *Model) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Statuses returns the per-stage execution records in run order.
func (m *Model) Statuses() []StageStatus {
	out := make([]StageStatus, len(m.statuses))
	copy(out, m.statuses)
	return out
}

// Document returns the assembled document, if the graph produced one under
// the conventional key.
func (m *Model) Document() (*Document, bool) {
	v, ok := m.values[KeyDocument]
	if !ok {
		return nil, false
	}
	doc, ok := v.(*Document)
	return doc, ok
}
