package util

type Set[T comparable] map[T]struct{}

func SetOf[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s *Set[T]) Add(v T) bool {
	if *s == nil {
		*s = map[T]struct{}{}
	}
	if _, ok := (*s)[v]; ok {
		return false
	}
	(*s)[v] = struct{}{}
	return true
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Size() int {
	return len(s)
}
