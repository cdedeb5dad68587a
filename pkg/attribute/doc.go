// Package attribute implements the attribute store that cluster integrations
// read their construction-time configuration from.
//
// The store holds per-endpoint, per-cluster, per-attribute values. Get reports
// whether an attribute exists (the handle is nil when it does not), GetVal
// returns its typed value. Attributes created with FlagNonVolatile are loaded
// from and written back to a Persister; NVStore persists them as CBOR files.
//
// A whole device composition can be seeded from YAML with LoadYAML.
//
// C++ Reference: esp_matter::attribute::get / get_val (esp_matter_data_model.cpp)
package attribute
