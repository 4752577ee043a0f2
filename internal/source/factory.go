package source

import (
	"sort"
	"sync"
)

// Builder constructs the runtime proxy for one configured source.
type Builder func(id string, entry Entry) (Source, error)

// The driver table maps type tags to builders. It replaces dynamic module
// lookup with an explicit registration step, the same way database/sql
// registers drivers.
var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Builder)
)

// RegisterDriver makes a builder available under the given type tag.
// Drivers call this at process start; registering the same tag again
// replaces the previous builder.
func RegisterDriver(typ string, builder Builder) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[typ] = builder
}

// lookupDriver resolves the builder for a type tag.
func lookupDriver(typ string) (Builder, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	b, ok := drivers[typ]
	return b, ok
}

// RegisteredDrivers returns the registered type tags, sorted.
func RegisteredDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	tags := make([]string, 0, len(drivers))
	for t := range drivers {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
