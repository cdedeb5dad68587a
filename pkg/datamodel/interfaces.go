package datamodel

// ServerCluster is the capability a server-side cluster instance presents to
// the provider registry. The registry only stores the interface value; the
// object itself is owned by whoever constructed it.
//
// C++ Reference: app::ServerClusterInterface
type ServerCluster interface {
	// Path returns the endpoint/cluster pair this instance serves.
	Path() ConcreteClusterPath

	// DataVersion returns the current cluster data version (Matter Core 7.10.3).
	DataVersion() DataVersion

	// ClusterRevision returns the implemented cluster revision (0xFFFD).
	ClusterRevision() uint16

	// FeatureMap returns the supported features bitmap (0xFFFC).
	FeatureMap() uint32

	// AttributeList returns the IDs of all attributes this instance serves,
	// global attributes included.
	AttributeList() []AttributeID

	// Init brings the cluster up once its collaborators (delegates, storage)
	// are in place.
	Init() error

	// Deinit releases everything Init acquired. Safe to call on a cluster
	// that was never initialized.
	Deinit()
}

// OptionalAttributeCluster is implemented by clusters whose set of optional
// attributes is fixed at construction time.
type OptionalAttributeCluster interface {
	ServerCluster

	// OptionalAttributes returns the construction-time optional attribute bitset.
	OptionalAttributes() uint32
}
