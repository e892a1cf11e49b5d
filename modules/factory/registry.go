package factory

import (
	"sort"
	"sync"
)

// Registry 按模型名保存工厂，供按名解析的关系和 fixture 服务使用。
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Source
}

func NewRegistry(sources ...Source) *Registry {
	r := &Registry{factories: make(map[string]Source, len(sources))}
	r.Register(sources...)
	return r
}

// Register 以 ModelName 为键登记，同名后者覆盖前者。
func (r *Registry) Register(sources ...Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range sources {
		if s == nil {
			continue
		}
		r.factories[s.ModelName()] = s
	}
}

func (r *Registry) Lookup(model string) (Source, error) {
	if r == nil {
		return nil, ErrNotRegistered.WithMsgf("no registry to look up %s", model).WithData("model", model)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.factories[model]
	if !ok {
		return nil, ErrNotRegistered.WithMsgf("no factory registered for %s", model).WithData("model", model)
	}
	return s, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
