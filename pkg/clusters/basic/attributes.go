package basic

import (
	"strings"

	"github.com/backkem/matter-dm/pkg/attribute"
	"github.com/backkem/matter-dm/pkg/datamodel"
)

// OptionalAttribute is the bit position of one optional attribute in an
// OptionalAttributeSet.
type OptionalAttribute uint8

// Optional attribute bits, bit 0 first.
const (
	OptManufacturingDate OptionalAttribute = iota
	OptPartNumber
	OptProductLabel
	OptProductURL
	OptSerialNumber
	OptLocalConfigDisabled
	OptReachable
	OptProductAppearance
	OptUniqueID
)

// optionalAttributes lists every optional attribute in bit order.
var optionalAttributes = []OptionalAttribute{
	OptManufacturingDate,
	OptPartNumber,
	OptProductLabel,
	OptProductURL,
	OptSerialNumber,
	OptLocalConfigDisabled,
	OptReachable,
	OptProductAppearance,
	OptUniqueID,
}

var optionalAttributeIDs = map[OptionalAttribute]datamodel.AttributeID{
	OptManufacturingDate:   AttrManufacturingDate,
	OptPartNumber:          AttrPartNumber,
	OptProductLabel:        AttrProductLabel,
	OptProductURL:          AttrProductURL,
	OptSerialNumber:        AttrSerialNumber,
	OptLocalConfigDisabled: AttrLocalConfigDisabled,
	OptReachable:           AttrReachable,
	OptProductAppearance:   AttrProductAppearance,
	OptUniqueID:            AttrUniqueID,
}

var optionalAttributeNames = map[OptionalAttribute]string{
	OptManufacturingDate:   "ManufacturingDate",
	OptPartNumber:          "PartNumber",
	OptProductLabel:        "ProductLabel",
	OptProductURL:          "ProductURL",
	OptSerialNumber:        "SerialNumber",
	OptLocalConfigDisabled: "LocalConfigDisabled",
	OptReachable:           "Reachable",
	OptProductAppearance:   "ProductAppearance",
	OptUniqueID:            "UniqueID",
}

// AttributeID returns the attribute carried by this bit.
func (o OptionalAttribute) AttributeID() datamodel.AttributeID {
	return optionalAttributeIDs[o]
}

// String returns the attribute name.
func (o OptionalAttribute) String() string {
	if name, ok := optionalAttributeNames[o]; ok {
		return name
	}
	return "Unknown"
}

// OptionalAttributeSet is a bitset with one bit per optional attribute.
type OptionalAttributeSet uint32

// Has reports whether the attribute's bit is set.
func (s OptionalAttributeSet) Has(o OptionalAttribute) bool {
	return s&(1<<o) != 0
}

// With returns a copy of the set with the attribute's bit set.
func (s OptionalAttributeSet) With(o OptionalAttribute) OptionalAttributeSet {
	return s | 1<<o
}

// Attributes returns the attribute IDs whose bits are set, in bit order.
func (s OptionalAttributeSet) Attributes() []datamodel.AttributeID {
	var ids []datamodel.AttributeID
	for _, o := range optionalAttributes {
		if s.Has(o) {
			ids = append(ids, o.AttributeID())
		}
	}
	return ids
}

// String lists the set attribute names, e.g. "[PartNumber SerialNumber]".
func (s OptionalAttributeSet) String() string {
	var names []string
	for _, o := range optionalAttributes {
		if s.Has(o) {
			names = append(names, o.String())
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// ComputeOptionalAttributes queries the store once per optional attribute on
// the endpoint's Basic Information cluster. A bit is set when the attribute
// is present.
func ComputeOptionalAttributes(store attribute.Store, ep datamodel.EndpointID) OptionalAttributeSet {
	var set OptionalAttributeSet
	for _, o := range optionalAttributes {
		if store.Get(ep, ClusterID, o.AttributeID()) != nil {
			set = set.With(o)
		}
	}
	return set
}
