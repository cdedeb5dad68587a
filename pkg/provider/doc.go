// Package provider is the data-model provider that drives cluster
// lifecycles across endpoints.
//
// A Provider owns the data-model lock and an ordered list of lifecycle
// integrations, one per cluster type. Bringing an endpoint up runs every
// integration's init callback in registration order; taking it down runs the
// shutdown callbacks in reverse order. All callbacks run with the lock held,
// so the holders inside the integrations never see concurrent access.
//
// Code that touches an integration directly, such as installing a delegate,
// must hold the same lock:
//
//	err := p.WithLock(func() error {
//		return pushavIntegration.SetDelegate(1, camera)
//	})
//
// # Lifecycle
//
//	New ──> Uninitialized ──Startup──> Running ──Shutdown──> Stopped
//
// Startup runs each integration's plugin init hook once and then enables
// every endpoint present in the attribute store. Shutdown disables the
// enabled endpoints, highest first, runs the plugin shutdown hooks and
// empties every holder.
package provider
