package entity

import "sort"

// IDSet is a set of entity IDs. The zero value is an empty set ready to use.
// Add and Remove are idempotent: they report whether membership changed but
// never fail.
type IDSet struct {
	m map[int64]struct{}
}

// NewIDSet builds a set holding ids.
func NewIDSet(ids ...int64) IDSet {
	s := IDSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *IDSet) Add(id int64) bool {
	if s.m == nil {
		s.m = make(map[int64]struct{})
	}
	if _, ok := s.m[id]; ok {
		return false
	}
	s.m[id] = struct{}{}
	return true
}

func (s *IDSet) Remove(id int64) bool {
	if _, ok := s.m[id]; !ok {
		return false
	}
	delete(s.m, id)
	return true
}

func (s *IDSet) Has(id int64) bool {
	if s == nil {
		return false
	}
	_, ok := s.m[id]
	return ok
}

func (s *IDSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Slice returns the members in ascending order.
func (s *IDSet) Slice() []int64 {
	if s == nil || len(s.m) == 0 {
		return []int64{}
	}
	out := make([]int64, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (s *IDSet) Clone() IDSet {
	return NewIDSet(s.Slice()...)
}
