package dep

// Slot is a single reactive value backed by its own Dep.
type Slot[T any] struct {
	dep   *Dep
	value T
	equal func(a, b T) bool
}

func NewSlot[T any](t *Tracker, value T) *Slot[T] {
	return NewSlotFunc(t, value, nil)
}

// NewSlotFunc uses equal to decide whether Set changed the value. A nil
// equal compares comparable values with == and treats everything else as
// changed.
func NewSlotFunc[T any](t *Tracker, value T, equal func(a, b T) bool) *Slot[T] {
	if equal == nil {
		equal = func(a, b T) bool {
			return sameValue(a, b)
		}
	}
	return &Slot[T]{
		dep:   New(t),
		value: value,
		equal: equal,
	}
}

func (s *Slot[T]) Get() T {
	s.dep.Depend()
	return s.value
}

// Peek reads without recording a dependency.
func (s *Slot[T]) Peek() T {
	return s.value
}

func (s *Slot[T]) Set(value T) {
	if s.equal(s.value, value) {
		return
	}
	s.value = value
	s.dep.Notify()
}

func (s *Slot[T]) Dep() *Dep {
	return s.dep
}
