package adapter

import (
	"github.com/klauern/skillhub/internal/model"
)

// Registry holds one adapter per tool. Iteration is always sorted by tool
// identifier, which makes scan and collection order deterministic.
type Registry struct {
	adapters map[model.Tool]Adapter
}

// NewRegistry returns a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[model.Tool]Adapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter, replacing any previous one for the same tool.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Tool()] = a
}

// Get returns the adapter for tool.
func (r *Registry) Get(tool model.Tool) (Adapter, bool) {
	a, ok := r.adapters[tool]
	return a, ok
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int { return len(r.adapters) }

// Tools returns the registered tools sorted by identifier.
func (r *Registry) Tools() []model.Tool {
	tools := make([]model.Tool, 0, len(r.adapters))
	for t := range r.adapters {
		tools = append(tools, t)
	}
	model.SortTools(tools)
	return tools
}

// All returns the adapters sorted by tool identifier.
func (r *Registry) All() []Adapter {
	tools := r.Tools()
	out := make([]Adapter, 0, len(tools))
	for _, t := range tools {
		out = append(out, r.adapters[t])
	}
	return out
}
