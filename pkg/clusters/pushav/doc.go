// Package pushav implements the Push AV Stream Transport cluster (0x0555)
// server and its lifecycle integration.
//
// The cluster lets a controller allocate push transports on a camera-style
// device: each transport describes where and how the device pushes recorded
// audio/video (CMAF over HTTPS ingest). The server keeps the transport table;
// the media pipeline lives behind a Delegate provided by the application.
//
// # Lifecycle
//
// The server is constructed per endpoint when the endpoint comes up and the
// cluster exists on it in the attribute store. Its features are decoded
// from the FeatureMap attribute at that moment. It stays idle until the
// application supplies a delegate:
//
//	integ.SetDelegate(ep, myDelegate) // calls Server.Init, then Delegate.Init
//
// On endpoint shutdown the server is unregistered, deinitialized (which calls
// Delegate.Shutdown) and destroyed.
//
// # References
//
//   - Matter 1.5 Core Chapter 11.7 (Push AV Stream Transport Cluster)
//   - C++ Reference: src/app/clusters/push-av-stream-transport-server/
package pushav
