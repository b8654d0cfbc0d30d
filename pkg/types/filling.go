package types

// FillingQueueItem is an ephemeral unit of fill work: apply Value to
// the form field at Key. PreviousValue is kept for revert. Items are
// created at fill start and discarded on completion or reset; they
// are never persisted.
type FillingQueueItem struct {
	Key           string
	Value         any
	PreviousValue any
	Explanation   string
	IsNewField    bool
}
