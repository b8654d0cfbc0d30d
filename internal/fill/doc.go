// Package fill builds filling-queue work items from parsed data and
// drives the sequential filling state machine that applies them to a
// live form one at a time, with a highlight window per field and
// pause/resume/stop semantics.
package fill
