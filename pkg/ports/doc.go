// Package ports defines the collaborator interfaces of the pipeline:
// the language model, the external lint/format tooling, the execution
// backends and the session store. Adapters implement these; the runtime
// consumes them.
package ports
