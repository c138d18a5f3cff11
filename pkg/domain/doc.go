// Package domain holds the core value types of the codemend pipeline: the
// workflow state record, the delta reducer that advances it, and the final
// report. It has no dependencies on adapters or the runtime.
package domain
