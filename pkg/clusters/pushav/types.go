package pushav

import (
	"fmt"
	"strings"

	"github.com/backkem/matter-dm/pkg/datamodel"
)

// Cluster constants.
const (
	ClusterID       datamodel.ClusterID = 0x0555
	ClusterRevision uint16              = 1
)

// Attribute IDs.
const (
	AttrSupportedFormats   datamodel.AttributeID = 0x0000
	AttrCurrentConnections datamodel.AttributeID = 0x0001
)

// Features is the decoded FeatureMap of the cluster.
type Features uint32

const (
	// FeaturePerZoneSensitivity allows motion sensitivity per zone.
	FeaturePerZoneSensitivity Features = 1 << 0

	// FeatureMetadata allows transports that carry metadata.
	FeatureMetadata Features = 1 << 1
)

// knownFeatures are the bits this server understands.
const knownFeatures = FeaturePerZoneSensitivity | FeatureMetadata

// Has reports whether every bit of f is set.
func (fs Features) Has(f Features) bool {
	return fs&f == f
}

// String lists the feature names, e.g. "PerZoneSensitivity|Metadata".
func (fs Features) String() string {
	var names []string
	if fs.Has(FeaturePerZoneSensitivity) {
		names = append(names, "PerZoneSensitivity")
	}
	if fs.Has(FeatureMetadata) {
		names = append(names, "Metadata")
	}
	if rest := fs &^ knownFeatures; rest != 0 {
		names = append(names, fmt.Sprintf("0x%X", uint32(rest)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ConnectionID identifies an allocated push transport.
type ConnectionID uint16

// TransportStatus is TransportStatusEnum.
type TransportStatus uint8

const (
	TransportStatusActive   TransportStatus = 0
	TransportStatusInactive TransportStatus = 1
)

// String returns the name of the status.
func (s TransportStatus) String() string {
	switch s {
	case TransportStatusActive:
		return "Active"
	case TransportStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// TriggerType is TransportTriggerTypeEnum.
type TriggerType uint8

const (
	TriggerCommand    TriggerType = 0
	TriggerMotion     TriggerType = 1
	TriggerContinuous TriggerType = 2
)

// ContainerFormat is ContainerFormatEnum.
type ContainerFormat uint8

const (
	ContainerFormatCMAF ContainerFormat = 0
)

// IngestMethod is IngestMethodsEnum.
type IngestMethod uint8

const (
	IngestMethodCMAF IngestMethod = 0
)

// MotionZone configures motion triggering for one zone.
type MotionZone struct {
	Zone        *uint16 // nil means all zones
	Sensitivity *uint8  // requires FeaturePerZoneSensitivity
}

// TriggerOptions configures when the transport pushes.
type TriggerOptions struct {
	Type              TriggerType
	MotionZones       []MotionZone
	MotionSensitivity *uint8
	MaxPreRollLen     *uint16
}

// TransportOptions is TransportOptionsStruct.
type TransportOptions struct {
	StreamUsage     uint8
	VideoStreamID   *uint16
	AudioStreamID   *uint16
	TLSEndpointID   uint16
	URL             string
	Trigger         TriggerOptions
	IngestMethod    IngestMethod
	ContainerFormat ContainerFormat
	ExpiryTime      *uint32
	MetadataEnabled bool
}

// TransportConfiguration is TransportConfigurationStruct, one row of
// CurrentConnections.
type TransportConfiguration struct {
	ConnectionID ConnectionID
	Status       TransportStatus
	Options      TransportOptions
	FabricIndex  uint8
}
