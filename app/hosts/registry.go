package hosts

// Registry selects an adapter for a feed URL by probing registered adapters
// in registration order. Selection never fails: when no adapter claims the
// URL the generic fallback is returned, since plain RSS 2.0 with iTunes tags
// is the common case.
type Registry struct {
	adapters []HostAdapter
	fallback HostAdapter
}

// NewRegistry builds a registry with the known host adapters and the generic
// fallback already registered.
func NewRegistry() *Registry {
	registry := &Registry{
		fallback: NewGeneric(),
	}
	registry.Register(NewTransistor())
	return registry
}

func (r *Registry) Register(adapter HostAdapter) {
	r.adapters = append(r.adapters, adapter)
}

func (r *Registry) ForURL(feedURL string) HostAdapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(feedURL) {
			return adapter
		}
	}
	return r.fallback
}
