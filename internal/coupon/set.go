package coupon

import "prepkart/internal/model"

// mapSet implements Set using a map for O(1) lookups.
type mapSet struct {
	defs  map[string]model.CouponRequest
	order []string
}

// NewMapSet creates a new map-based definition set.
func NewMapSet(capacity int) Set {
	return newMapSet(capacity)
}

func newMapSet(capacity int) *mapSet {
	return &mapSet{
		defs:  make(map[string]model.CouponRequest, capacity),
		order: make([]string, 0, capacity),
	}
}

// Contains checks if a coupon code exists in the set.
func (s *mapSet) Contains(code string) bool {
	_, exists := s.defs[code]
	return exists
}

// Get returns the definition of a code.
func (s *mapSet) Get(code string) (model.CouponRequest, bool) {
	def, ok := s.defs[code]
	return def, ok
}

// Size returns the number of definitions in the set.
func (s *mapSet) Size() int {
	return len(s.defs)
}

// Definitions returns the definitions in first-seen order.
func (s *mapSet) Definitions() []model.CouponRequest {
	out := make([]model.CouponRequest, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.defs[code])
	}
	return out
}

// Add stores a definition. A later definition of the same code replaces the
// earlier one but keeps its position.
func (s *mapSet) Add(def model.CouponRequest) {
	if _, exists := s.defs[def.Code]; !exists {
		s.order = append(s.order, def.Code)
	}
	s.defs[def.Code] = def
}
