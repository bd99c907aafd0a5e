package reflection

// PropertyDescriptor summarizes one structural member: its name and its
// qualifier flags. Descriptors are produced at build time and never
// mutated afterwards.
type PropertyDescriptor struct {
	Name  PropertyName `json:"name"`
	Flags PropertyFlag `json:"flags"`
}

// Names returns the names of ds in order.
func Names(ds []PropertyDescriptor) []PropertyName {
	names := make([]PropertyName, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return names
}
