package store

import "context"

// RefState tags the outcome of following a foreign key. Deletes do not
// cascade, so a dangling reference is an ordinary, expected result.
type RefState int

const (
	Orphaned RefState = iota
	Found
)

func (s RefState) String() string {
	if s == Found {
		return "found"
	}
	return "orphaned"
}

// Ref is the result of resolving a reference by id.
type Ref[T any] struct {
	ID    string
	State RefState
	Value *T
}

func (r Ref[T]) Found() bool {
	return r.State == Found && r.Value != nil
}

// Resolve follows the reference id into T's table.
func Resolve[T any](ctx context.Context, s *Store, id string) (Ref[T], error) {
	v, err := Get[T](ctx, s, id)
	if err != nil {
		return Ref[T]{ID: id}, err
	}
	if v == nil {
		return Ref[T]{ID: id, State: Orphaned}, nil
	}
	return Ref[T]{ID: id, State: Found, Value: v}, nil
}
