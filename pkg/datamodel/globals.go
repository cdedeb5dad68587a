package datamodel

// Global attribute IDs are mandatory attributes present on every cluster instance.
// Matter Core Section 7.13, Table 93
const (
	// GlobalAttrClusterRevision (0xFFFD) indicates the cluster revision.
	GlobalAttrClusterRevision AttributeID = 0xFFFD

	// GlobalAttrFeatureMap (0xFFFC) indicates supported optional features.
	GlobalAttrFeatureMap AttributeID = 0xFFFC

	// GlobalAttrAttributeList (0xFFFB) lists all supported attribute IDs.
	GlobalAttrAttributeList AttributeID = 0xFFFB

	// GlobalAttrAcceptedCommandList (0xFFF9) lists accepted command IDs.
	GlobalAttrAcceptedCommandList AttributeID = 0xFFF9

	// GlobalAttrGeneratedCommandList (0xFFF8) lists generated command IDs.
	GlobalAttrGeneratedCommandList AttributeID = 0xFFF8
)

// IsGlobalAttribute returns true if the attribute ID is a global attribute.
func IsGlobalAttribute(id AttributeID) bool {
	return id >= GlobalAttrGeneratedCommandList && id <= GlobalAttrClusterRevision
}

// GlobalAttributeIDs returns the global attributes every server cluster reports
// in its AttributeList.
func GlobalAttributeIDs() []AttributeID {
	return []AttributeID{
		GlobalAttrGeneratedCommandList,
		GlobalAttrAcceptedCommandList,
		GlobalAttrAttributeList,
		GlobalAttrFeatureMap,
		GlobalAttrClusterRevision,
	}
}
