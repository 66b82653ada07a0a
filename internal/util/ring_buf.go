package util

import "iter"

// RingBuf keeps the last cap items. Index 0 is the oldest one.
type RingBuf[T any] struct {
	start int
	size  int
	buf   []T
}

func NewRingBuf[T any](capacity int) *RingBuf[T] {
	return &RingBuf[T]{buf: make([]T, max(1, capacity))}
}

func (s *RingBuf[T]) Add(item T) {
	capacity := len(s.buf)
	if s.size == capacity {
		s.buf[s.start] = item
		s.start = (s.start + 1) % capacity
		return
	}
	s.buf[(s.start+s.size)%capacity] = item
	s.size++
}

func (s *RingBuf[T]) Get(i int) T {
	return s.buf[(s.start+i)%len(s.buf)]
}

func (s *RingBuf[T]) Size() int {
	return s.size
}

func (s *RingBuf[T]) Values() []T {
	res := make([]T, 0, s.size)
	for v := range s.Iterator(0, 1) {
		res = append(res, v)
	}
	return res
}

// Iterator walks from index from by step (negative step walks backward)
// until it leaves the buffer.
func (s *RingBuf[T]) Iterator(from, step int) iter.Seq[T] {
	if step == 0 {
		step = 1
	}
	return func(yield func(T) bool) {
		for i := from; i >= 0 && i < s.size; i += step {
			if !yield(s.Get(i)) {
				break
			}
		}
	}
}
