package reactive

import "fmt"

type Kind uint8

const (
	KindNext Kind = iota + 1
	KindComplete
	KindError
)

var kindNames = map[Kind]string{
	KindNext:     "next",
	KindComplete: "complete",
	KindError:    "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	kind, err := ParseKind(string(b))
	if err == nil {
		*k = kind
	}
	return err
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown signal kind %q", s)
}

// Signal is one materialized event of a sequence.
type Signal[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

func NextSignal[T any](v T) Signal[T] {
	return Signal[T]{Kind: KindNext, Value: v}
}

func CompleteSignal[T any]() Signal[T] {
	return Signal[T]{Kind: KindComplete}
}

func ErrorSignal[T any](err error) Signal[T] {
	return Signal[T]{Kind: KindError, Err: err}
}

func (s Signal[T]) IsTerminal() bool {
	return s.Kind == KindComplete || s.Kind == KindError
}

func (s Signal[T]) String() string {
	switch s.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", s.Value)
	case KindError:
		return fmt.Sprintf("error(%v)", s.Err)
	default:
		return s.Kind.String()
	}
}
