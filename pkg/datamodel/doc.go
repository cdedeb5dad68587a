// Package datamodel provides the identifiers, paths and server-cluster
// capability shared by the registry, the lifecycle managers and the cluster
// implementations (Matter Core Chapter 7).
//
// A server cluster is an object that satisfies ServerCluster. Cluster
// implementations embed ClusterBase for the global attributes they all share
// (revision, feature map, data version) and for Init/Deinit bookkeeping.
//
// Matter Core references:
//   - Section 7.9: Endpoint
//   - Section 7.10: Cluster
//   - Section 7.10.3: Data Version
//   - Section 7.13: Global Elements
package datamodel
