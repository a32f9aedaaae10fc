package portal

import (
	"fmt"
	"slices"
	"sync"

	"omnivox-backend/internal/browser"
	"omnivox-backend/internal/components/assert"
	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/components/telemetry"
)

// Institution is the configuration of one supported portal.
type Institution struct {
	Driver      string `json:"driver"`
	BaseUrl     string `json:"base_url"`
	DisplayName string `json:"display_name"`
}

// Environment is what every driver receives to build its session and adapter.
type Environment struct {
	Browser browser.Options
	Time    chrono.TimeAPI
	Tel     telemetry.API
}

// Driver builds the session and adapter pair for an institution.
type Driver func(id string, institution Institution, env Environment) (Session, Adapter, error)

// Registry maps configured institution ids to drivers, adding an institution is a
// configuration change when its driver already exists.
type Registry struct {
	mutex        sync.RWMutex
	institutions map[string]Institution
	drivers      map[string]Driver
}

func NewRegistry(institutions map[string]Institution) *Registry {
	copied := make(map[string]Institution, len(institutions))
	for id, inst := range institutions {
		copied[id] = inst
	}
	return &Registry{
		institutions: copied,
		drivers:      map[string]Driver{},
	}
}

func (r *Registry) Register(driver string, open Driver) {
	assert.NotEmptyStr(driver)
	assert.NotNil(open)

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.drivers[driver] = open
}

func (r *Registry) Drivers() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Institutions lists the ids of configured institutions whose driver is registered.
func (r *Registry) Institutions() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	var ids []string
	for id, inst := range r.institutions {
		if _, ok := r.drivers[inst.Driver]; ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) Institution(id string) (Institution, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	inst, ok := r.institutions[id]
	return inst, ok
}

func (r *Registry) Open(id string, env Environment) (Session, Adapter, error) {
	assert.NotNil(env.Time)
	assert.NotNil(env.Tel)

	r.mutex.RLock()
	inst, ok := r.institutions[id]
	var open Driver
	if ok {
		open = r.drivers[inst.Driver]
	}
	r.mutex.RUnlock()

	if !ok {
		return nil, nil, fmt.Errorf("%w '%s'", ErrUnknownInstitution, id)
	}
	if open == nil {
		return nil, nil, fmt.Errorf("institution '%s': %w '%s'", id, ErrUnknownDriver, inst.Driver)
	}
	return open(id, inst, env)
}
