package engine

// Writer receives the engine's generated write operations. The production
// implementation is the batched persistence layer in internal/graph; tests
// substitute an in-memory capture.
//
// Writes are fire-and-forget from the engine's point of view: an individual
// failing write must be absorbed by the implementation (logged, recorded,
// batch continues) rather than surfaced mid-traversal, per the engine's
// partial-failure policy.
type Writer interface {
	// WriteNode enqueues one entity-table row. args follow the column order
	// of the table's descriptor in SchemaEntities, excluding the id column.
	WriteNode(table string, id int64, args ...any)
	// WriteRel enqueues one relationship tuple. args follow the Props order
	// of the table's descriptor in SchemaRelations.
	WriteRel(table string, from, to int64, args ...any)
}
