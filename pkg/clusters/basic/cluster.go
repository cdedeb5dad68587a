// Package basic implements the Basic Information Cluster (0x0028) server
// and its lifecycle integration.
//
// The Basic Information cluster provides attributes for determining basic
// information about Nodes, such as Vendor ID, Product ID and serial number.
// It is a singleton: it exists once per node, on the root endpoint.
//
// Which optional attributes the server exposes is decided once, at
// construction, from the attributes present in the attribute store.
//
// Matter Core Section 11.1
//
// C++ Reference: src/app/clusters/basic-information/BasicInformationCluster.cpp
package basic

import (
	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/pion/logging"
)

// Cluster constants.
const (
	ClusterID       datamodel.ClusterID = 0x0028
	ClusterRevision uint16              = 5
)

// Attribute IDs (Matter Core 11.1.5).
const (
	AttrDataModelRevision    datamodel.AttributeID = 0x0000
	AttrVendorName           datamodel.AttributeID = 0x0001
	AttrVendorID             datamodel.AttributeID = 0x0002
	AttrProductName          datamodel.AttributeID = 0x0003
	AttrProductID            datamodel.AttributeID = 0x0004
	AttrNodeLabel            datamodel.AttributeID = 0x0005
	AttrLocation             datamodel.AttributeID = 0x0006
	AttrHardwareVersion      datamodel.AttributeID = 0x0007
	AttrHardwareVersionStr   datamodel.AttributeID = 0x0008
	AttrSoftwareVersion      datamodel.AttributeID = 0x0009
	AttrSoftwareVersionStr   datamodel.AttributeID = 0x000A
	AttrManufacturingDate    datamodel.AttributeID = 0x000B
	AttrPartNumber           datamodel.AttributeID = 0x000C
	AttrProductURL           datamodel.AttributeID = 0x000D
	AttrProductLabel         datamodel.AttributeID = 0x000E
	AttrSerialNumber         datamodel.AttributeID = 0x000F
	AttrLocalConfigDisabled  datamodel.AttributeID = 0x0010
	AttrReachable            datamodel.AttributeID = 0x0011
	AttrUniqueID             datamodel.AttributeID = 0x0012
	AttrCapabilityMinima     datamodel.AttributeID = 0x0013
	AttrProductAppearance    datamodel.AttributeID = 0x0014
	AttrSpecificationVersion datamodel.AttributeID = 0x0015
	AttrMaxPathsPerInvoke    datamodel.AttributeID = 0x0016
	AttrConfigurationVersion datamodel.AttributeID = 0x0018
)

// mandatoryAttributes are served regardless of the optional attribute set.
var mandatoryAttributes = []datamodel.AttributeID{
	AttrDataModelRevision,
	AttrVendorName,
	AttrVendorID,
	AttrProductName,
	AttrProductID,
	AttrNodeLabel,
	AttrLocation,
	AttrHardwareVersion,
	AttrHardwareVersionStr,
	AttrSoftwareVersion,
	AttrSoftwareVersionStr,
	AttrCapabilityMinima,
	AttrSpecificationVersion,
	AttrMaxPathsPerInvoke,
	AttrConfigurationVersion,
}

// Config provides dependencies for the Basic Information cluster.
type Config struct {
	// EndpointID is the endpoint this cluster belongs to (should be 0).
	EndpointID datamodel.EndpointID

	// OptionalAttributes selects the optional attributes to serve.
	OptionalAttributes OptionalAttributeSet

	// LoggerFactory for the cluster logger. Optional.
	LoggerFactory logging.LoggerFactory
}

// Cluster implements the Basic Information cluster (0x0028).
type Cluster struct {
	*datamodel.ClusterBase
	optional OptionalAttributeSet
	log      logging.LeveledLogger

	// Cached attribute list (built on construction)
	attrList []datamodel.AttributeID
}

// New creates a new Basic Information cluster.
func New(cfg Config) *Cluster {
	c := &Cluster{
		ClusterBase: datamodel.NewClusterBase(ClusterID, cfg.EndpointID, ClusterRevision),
		optional:    cfg.OptionalAttributes,
		log:         loggerFactoryOrDefault(cfg.LoggerFactory).NewLogger("basic"),
	}
	c.attrList = c.buildAttributeList()
	return c
}

// buildAttributeList constructs the list of supported attributes.
func (c *Cluster) buildAttributeList() []datamodel.AttributeID {
	attrs := make([]datamodel.AttributeID, 0, len(mandatoryAttributes)+len(optionalAttributes))
	attrs = append(attrs, mandatoryAttributes...)

	// Optional attributes in bit order
	for _, opt := range optionalAttributes {
		if c.optional.Has(opt) {
			attrs = append(attrs, opt.AttributeID())
		}
	}

	// Add global attributes
	return datamodel.MergeAttributeLists(attrs)
}

// AttributeList implements datamodel.ServerCluster.
func (c *Cluster) AttributeList() []datamodel.AttributeID {
	return c.attrList
}

// OptionalAttributes implements datamodel.OptionalAttributeCluster.
func (c *Cluster) OptionalAttributes() uint32 {
	return uint32(c.optional)
}

// OptionalAttributeSet returns the construction-time optional attribute set.
func (c *Cluster) OptionalAttributeSet() OptionalAttributeSet {
	return c.optional
}

// Init implements datamodel.ServerCluster.
func (c *Cluster) Init() error {
	if err := c.MarkInitialized(); err != nil {
		return err
	}
	c.log.Infof("Basic Information up on endpoint %d, optional attributes %s", c.EndpointID(), c.optional)
	return nil
}

// Deinit implements datamodel.ServerCluster.
func (c *Cluster) Deinit() {
	if c.MarkDeinitialized() {
		c.log.Debugf("Basic Information down on endpoint %d", c.EndpointID())
	}
}

// Verify Cluster implements the interface.
var _ datamodel.OptionalAttributeCluster = (*Cluster)(nil)
