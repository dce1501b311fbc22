package graph

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
)

// Batch-size and transaction defaults. Position-based one-at-a-time writes
// against SQLite are materially slower than accumulate-then-submit inside a
// transaction; this layer is the throughput-critical path of the engine.
const (
	DefaultBatchSize   = 512
	DefaultCommitEvery = 2048
)

// Diagnostic records one tolerated write failure.
type Diagnostic struct {
	Table string
	Err   error
}

// Summary is the end-of-run account of the persistence layer.
type Summary struct {
	NodeOps  int // entity rows written
	RelOps   int // relationship tuples written
	Batches  int // flushes that submitted work
	Commits  int // transaction commits
	Failures int // individually failed statements (logged, not fatal)
}

type nodeOp struct {
	table string
	id    int64
	args  []any
}

type relOp struct {
	table    string
	from, to int64
	args     []any
}

// Batcher implements engine.Writer with two in-memory queues: entity-row
// operations and relationship tuples. It flushes when the combined pending
// count reaches the batch-size threshold or on Close, opening a transaction
// lazily at the first submitted operation after a flush and committing every
// CommitEvery operations to bound journal growth.
//
// An individual failing statement is logged and appended to the diagnostics
// list; the batch continues. Only transaction begin/commit failures abort.
type Batcher struct {
	store *Store
	sql   map[string]string

	mu          sync.Mutex
	nodes       []nodeOp
	rels        []relOp
	batchSize   int
	commitEvery int

	tx      *sql.Tx
	opsInTx int

	summary Summary
	diags   []Diagnostic
	fatal   error
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher)

// WithBatchSize overrides the flush threshold.
func WithBatchSize(n int) BatcherOption {
	return func(b *Batcher) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithCommitEvery overrides the per-transaction operation bound.
func WithCommitEvery(n int) BatcherOption {
	return func(b *Batcher) {
		if n > 0 {
			b.commitEvery = n
		}
	}
}

// NewBatcher creates a batched writer over the store.
func NewBatcher(s *Store, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		store:       s,
		sql:         insertSQL(),
		batchSize:   DefaultBatchSize,
		commitEvery: DefaultCommitEvery,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WriteNode enqueues one entity row. After a transaction-level failure the
// batcher is dead: further writes are dropped and the error surfaces at
// Close.
func (b *Batcher) WriteNode(table string, id int64, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fatal != nil {
		return
	}
	b.nodes = append(b.nodes, nodeOp{table: table, id: id, args: args})
	b.maybeFlushLocked()
}

// WriteRel enqueues one relationship tuple. Dropped once the batcher has
// recorded a transaction-level failure.
func (b *Batcher) WriteRel(table string, from, to int64, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fatal != nil {
		return
	}
	b.rels = append(b.rels, relOp{table: table, from: from, to: to, args: args})
	b.maybeFlushLocked()
}

// Flush submits all pending operations. A flush with nothing pending is a
// no-op.
func (b *Batcher) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

// Close performs the final flush and commits any open transaction.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.flushLocked(); err != nil {
		return err
	}
	if b.tx != nil {
		if err := b.tx.Commit(); err != nil {
			b.tx = nil
			return fmt.Errorf("final commit: %w", err)
		}
		b.summary.Commits++
		b.tx = nil
		b.opsInTx = 0
	}
	return b.fatal
}

// Summary returns the run totals so far.
func (b *Batcher) Summary() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary
}

// Diagnostics returns the tolerated failures recorded so far.
func (b *Batcher) Diagnostics() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.diags))
	copy(out, b.diags)
	return out
}

func (b *Batcher) pendingLocked() int {
	return len(b.nodes) + len(b.rels)
}

func (b *Batcher) maybeFlushLocked() {
	if b.pendingLocked() < b.batchSize {
		return
	}
	if err := b.flushLocked(); err != nil {
		// Transaction-level failure: remember it for Close, stop writing.
		b.fatal = err
		slog.Error("batch.flush.fatal", "err", err)
	}
}

func (b *Batcher) flushLocked() error {
	if b.fatal != nil {
		return b.fatal
	}
	if b.pendingLocked() == 0 {
		return nil
	}
	b.summary.Batches++

	// Entity rows first so relationship endpoints exist in submission order.
	for _, op := range b.nodes {
		args := make([]any, 0, len(op.args)+1)
		args = append(args, op.id)
		args = append(args, op.args...)
		if err := b.execLocked(op.table, args); err != nil {
			return err
		}
		b.summary.NodeOps++
	}
	for _, op := range b.rels {
		args := make([]any, 0, len(op.args)+2)
		args = append(args, op.from, op.to)
		args = append(args, op.args...)
		if err := b.execLocked(op.table, args); err != nil {
			return err
		}
		b.summary.RelOps++
	}
	b.nodes = b.nodes[:0]
	b.rels = b.rels[:0]
	return nil
}

// execLocked runs one insert inside the lazily opened transaction. A failing
// statement is tolerated; only transaction management errors propagate.
func (b *Batcher) execLocked(table string, args []any) error {
	stmt, ok := b.sql[table]
	if !ok {
		b.recordFailureLocked(table, fmt.Errorf("unknown table %q", table))
		return nil
	}
	if b.tx == nil {
		tx, err := b.store.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		b.tx = tx
		b.opsInTx = 0
	}
	if _, err := b.tx.Exec(stmt, args...); err != nil {
		b.recordFailureLocked(table, err)
	}
	b.opsInTx++
	if b.opsInTx >= b.commitEvery {
		if err := b.tx.Commit(); err != nil {
			b.tx = nil
			return fmt.Errorf("commit tx: %w", err)
		}
		b.summary.Commits++
		b.tx = nil // reopened lazily by the next operation
		b.opsInTx = 0
	}
	return nil
}

func (b *Batcher) recordFailureLocked(table string, err error) {
	b.summary.Failures++
	b.diags = append(b.diags, Diagnostic{Table: table, Err: err})
	slog.Warn("batch.write.err", "table", table, "err", err)
}
