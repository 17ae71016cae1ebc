package privilege

import "sort"

// Set conjunto de IDs de privilegio.
type Set map[string]struct{}

// NewSet construye un conjunto sin duplicados.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has informa si el conjunto contiene el privilegio.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice devuelve los IDs ordenados.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal compara dos conjuntos.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}
