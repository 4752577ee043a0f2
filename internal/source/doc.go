// Package source keeps live SDR device proxies synchronized with the
// configuration store and derives the read-only views the rest of radiomux
// consumes.
//
// # Architecture
//
//	config layer (props.Layer[Entry])
//	        │  change batches
//	        ▼
//	┌──────────────────┐     ┌──────────────────┐     ┌──────────────────┐
//	│     Registry     │────▶│    HealthView    │────▶│  ProfileCatalog  │
//	│  (registry.go)   │     │   (health.go)    │     │  (profiles.go)   │
//	│                  │     │                  │     │                  │
//	│ • driver factory │     │ • enabled && not │     │ • id → name      │
//	│ • feature gating │     │   failed overlay │     │ • rename subs    │
//	│ • proxy lifetime │     │ • state handlers │     │                  │
//	└──────────────────┘     └──────────────────┘     └──────────────────┘
//
// Propagation is unidirectional and synchronous: the goroutine that mutates
// the configuration layer (or the goroutine a source fires a lifecycle
// callback on) runs the whole reconciliation chain inline. Each stage only
// reacts to the stage before it.
//
// # Key Types
//
//   - Entry: one source's configuration (type tag, display name, driver props)
//   - Source: the runtime proxy for one device, owned by the Registry
//   - LifecycleListener: callbacks a source fires on fail/disable/enable/shutdown
//   - Service: process-wide composition of the three stages
//
// # Thread Safety
//
// All exported types are safe for concurrent use. Lifecycle callbacks may
// arrive on arbitrary goroutines; each overlay serializes its own mutation.
package source
