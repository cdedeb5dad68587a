// Package registry holds the table of live server clusters keyed by
// (endpoint, cluster).
//
// The registry never owns a cluster: it stores the interface value handed to
// Register and drops it on Unregister. Construction and destruction belong to
// the caller (see pkg/lifecycle).
//
// C++ Reference: src/app/server-cluster/ServerClusterInterfaceRegistry.h
package registry
