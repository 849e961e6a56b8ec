package core

// Set is an unordered collection of distinct strings.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	s.Add(items...)
	return s
}

func (s Set) Add(items ...string) {
	for _, item := range items {
		s[item] = struct{}{}
	}
}

func (s Set) Remove(items ...string) {
	for _, item := range items {
		delete(s, item)
	}
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s Set) Len() int { return len(s) }

// UniqueStrings returns the union of `lists`, keeping the first-seen order.
func UniqueStrings(lists ...[]string) []string {
	seen := make(Set)
	out := make([]string, 0)
	for _, list := range lists {
		for _, item := range list {
			if seen.Has(item) {
				continue
			}
			seen.Add(item)
			out = append(out, item)
		}
	}
	return out
}

// Without returns `list` minus every element of `remove`, keeping the order.
func Without(list []string, remove ...string) []string {
	drop := NewSet(remove...)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if !drop.Has(item) {
			out = append(out, item)
		}
	}
	return out
}

// Contains reports whether `item` is in `list`.
func Contains(list []string, item string) bool {
	for _, it := range list {
		if it == item {
			return true
		}
	}
	return false
}
