package interp

import (
	"io"
	"sort"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/labrun/vm"
)

// Store maps identifiers to values for a single execution. Last write wins.
type Store struct {
	vars map[string]vm.Value
}

func NewStore() *Store {
	return &Store{vars: make(map[string]vm.Value)}
}

func (s *Store) Get(name string) (vm.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

func (s *Store) Set(name string, v vm.Value) {
	s.vars[name] = v
}

func (s *Store) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

func (s *Store) Delete(name string) {
	delete(s.vars, name)
}

// Clear empties the store.
func (s *Store) Clear() {
	s.vars = make(map[string]vm.Value)
}

func (s *Store) Len() int {
	return len(s.vars)
}

// Names returns the bound identifiers in sorted order.
func (s *Store) Names() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Clone() *Store {
	out := NewStore()
	for k, v := range s.vars {
		out.vars[k] = v.Clone()
	}
	return out
}

// RealVector returns name when it is bound to a real vector.
func (s *Store) RealVector(name string) (vm.RealVector, bool) {
	v, ok := s.vars[name].(vm.RealVector)
	return v, ok
}

// ComplexVector returns name when it is bound to a complex vector.
func (s *Store) ComplexVector(name string) (vm.ComplexVector, bool) {
	v, ok := s.vars[name].(vm.ComplexVector)
	return v, ok
}

// Scalar returns name when it is bound to a scalar.
func (s *Store) Scalar(name string) (float64, bool) {
	return vm.AsScalar(s.vars[name])
}

// snapshot is the wire form of a Store. Complex entries are interleaved
// re, im pairs.
type snapshot struct {
	Scalars map[string]float64   `msgpack:"scalars"`
	Real    map[string][]float64 `msgpack:"real"`
	Complex map[string][]float64 `msgpack:"complex"`
}

func (s *Store) Serialize(w io.Writer) error {
	snap := snapshot{
		Scalars: make(map[string]float64),
		Real:    make(map[string][]float64),
		Complex: make(map[string][]float64),
	}
	for k, v := range s.vars {
		switch val := v.(type) {
		case vm.Scalar:
			snap.Scalars[k] = float64(val)
		case vm.RealVector:
			snap.Real[k] = []float64(val)
		case vm.ComplexVector:
			pairs := make([]float64, 0, 2*len(val))
			for _, c := range val {
				pairs = append(pairs, real(c), imag(c))
			}
			snap.Complex[k] = pairs
		}
	}
	return msgpack.MarshalWrite(w, snap)
}

func (s *Store) Deserialize(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		return err
	}
	s.Clear()
	for k, v := range snap.Scalars {
		s.vars[k] = vm.Scalar(v)
	}
	for k, v := range snap.Real {
		s.vars[k] = vm.RealVector(v)
	}
	for k, pairs := range snap.Complex {
		cv := make(vm.ComplexVector, len(pairs)/2)
		for i := range cv {
			cv[i] = complex(pairs[2*i], pairs[2*i+1])
		}
		s.vars[k] = cv
	}
	return nil
}

// PrettyPrint lists every binding, one per line, sorted by name.
func (s *Store) PrettyPrint() string {
	if s.Len() == 0 {
		return "  (no variables)\n"
	}
	var result string
	for _, k := range s.Names() {
		v := s.vars[k]
		result += "  " + k + " = " + vm.Format(v) + " (" + v.Kind() + ")\n"
	}
	return result
}
