// Package registry holds the latest fix reported by every tracked device.
//
// The registry lives for the lifetime of the process. Entries are created on the
// first fix for a device and replaced by every later one; nothing is ever evicted,
// so memory grows with the number of distinct device ids seen.
package registry

import (
	"sync"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
)

type Registry struct {
	mutex sync.RWMutex

	fixes map[string]ctdf.DeviceFix
	order []string
}

func New() *Registry {
	return &Registry{
		fixes: map[string]ctdf.DeviceFix{},
	}
}

// Put stores fix as the latest state of fix.DeviceID, replacing whatever was there.
// It reports whether the device had not been seen before.
func (r *Registry) Put(fix ctdf.DeviceFix) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, exists := r.fixes[fix.DeviceID]
	if !exists {
		r.order = append(r.order, fix.DeviceID)
	}

	r.fixes[fix.DeviceID] = fix

	return !exists
}

func (r *Registry) Get(deviceID string) (ctdf.DeviceFix, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	fix, exists := r.fixes[deviceID]

	return fix, exists
}

// All returns a copy of every stored fix in the order devices first reported
func (r *Registry) All() []ctdf.DeviceFix {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	fixes := make([]ctdf.DeviceFix, 0, len(r.order))
	for _, deviceID := range r.order {
		fixes = append(fixes, r.fixes[deviceID])
	}

	return fixes
}

func (r *Registry) DeviceIDs() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	deviceIDs := make([]string, len(r.order))
	copy(deviceIDs, r.order)

	return deviceIDs
}

func (r *Registry) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.fixes)
}
