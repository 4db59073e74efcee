package store

import (
	"github.com/iov-one/safepay/errors"
)

// OpKind tells if an operation sets or deletes a key.
type OpKind int

const (
	SetKind OpKind = iota + 1
	DelKind
)

// Op is a single recorded write operation.
type Op struct {
	Kind  OpKind
	Key   []byte
	Value []byte
}

// SetOp returns an operation setting key to value.
func SetOp(key, value []byte) Op {
	return Op{Kind: SetKind, Key: key, Value: value}
}

// DelOp returns an operation deleting key.
func DelOp(key []byte) Op {
	return Op{Kind: DelKind, Key: key}
}

// Apply performs the operation on given store.
func (o Op) Apply(out SetDeleter) error {
	switch o.Kind {
	case SetKind:
		return out.Set(o.Key, o.Value)
	case DelKind:
		return out.Delete(o.Key)
	default:
		return errors.Wrapf(errors.ErrDatabase, "unknown operation kind %d", o.Kind)
	}
}

// NonAtomicBatch records operations and applies them one by one to the
// destination on Write. It is only safe to use on top of stores that cannot
// fail half way, like another cache wrap.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns a batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set records a set operation.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

// Delete records a delete operation.
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies all recorded operations in order and clears the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns all recorded and not yet written operations.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}

// reset drops all recorded operations.
func (b *NonAtomicBatch) reset() {
	b.ops = nil
}
