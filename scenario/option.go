package scenario

import "fmt"

// Option is a value that may be absent.  The zero Option is absent.
type Option[T any] struct {
	value   T
	present bool
}

// Some returns a present Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Option[T]) IsPresent() bool {
	return o.present
}

// OrElse returns the value if present, else def.
func (o Option[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

func (o Option[T]) String() string {
	if !o.present {
		return "(absent)"
	}
	return fmt.Sprint(o.value)
}
