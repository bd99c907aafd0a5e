package reflection

type mask struct {
	include PropertyFlag
	exclude PropertyFlag
}

func (m mask) matches(flags PropertyFlag) bool {
	return flags&m.include == m.include && flags&m.exclude == 0
}

func compileAll(queries []PropertyQuery) []mask {
	if len(queries) == 0 {
		queries = []PropertyQuery{DefaultQuery}
	}
	masks := make([]mask, len(queries))
	for i, q := range queries {
		masks[i].include, masks[i].exclude = q.Compile()
	}
	return masks
}

// Matches reports whether a descriptor with the given flags is selected by
// at least one of the queries. No queries means {Public: Yes}.
func Matches(flags PropertyFlag, queries ...PropertyQuery) bool {
	for _, m := range compileAll(queries) {
		if m.matches(flags) {
			return true
		}
	}
	return false
}

// Filter returns the names of the descriptors that match at least one
// query, in descriptor order. With no queries it behaves as
// Filter(ds, PropertyQuery{Public: Yes}).
func Filter(ds []PropertyDescriptor, queries ...PropertyQuery) []PropertyName {
	masks := compileAll(queries)
	names := []PropertyName{}
	for _, d := range ds {
		for _, m := range masks {
			if m.matches(d.Flags) {
				names = append(names, d.Name)
				break
			}
		}
	}
	return names
}

// PropertiesOf captures ds and returns the query function that generated
// code calls at run time. The returned function is safe for concurrent use.
func PropertiesOf(ds []PropertyDescriptor) func(queries ...PropertyQuery) []PropertyName {
	captured := make([]PropertyDescriptor, len(ds))
	copy(captured, ds)
	return func(queries ...PropertyQuery) []PropertyName {
		return Filter(captured, queries...)
	}
}
