package attribute

import (
	"fmt"
	"io"
	"math"

	"github.com/backkem/matter-dm/pkg/datamodel"
	"gopkg.in/yaml.v3"
)

// DeviceConfig describes a device composition: which clusters exist on which
// endpoints, and the initial value of each attribute.
//
// Example:
//
//	endpoints:
//	  - id: 0
//	    clusters:
//	      - id: 0x0028
//	        attributes:
//	          - {id: 0x000F, type: char_string, value: "SN-0001"}
//	  - id: 1
//	    clusters:
//	      - id: 0x0555
//	        attributes:
//	          - {id: 0xFFFC, type: bitmap32, value: 3}
type DeviceConfig struct {
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

// EndpointConfig lists the clusters of one endpoint.
type EndpointConfig struct {
	ID       uint16          `yaml:"id"`
	Clusters []ClusterConfig `yaml:"clusters"`
}

// ClusterConfig lists the attributes of one cluster.
type ClusterConfig struct {
	ID         uint32            `yaml:"id"`
	Attributes []AttributeConfig `yaml:"attributes"`
}

// AttributeConfig is one attribute with its initial value.
type AttributeConfig struct {
	ID          uint32 `yaml:"id"`
	Type        string `yaml:"type"`
	Value       any    `yaml:"value"`
	NonVolatile bool   `yaml:"nonvolatile,omitempty"`
	Writable    bool   `yaml:"writable,omitempty"`
}

// LoadYAML parses a device description.
func LoadYAML(r io.Reader) (*DeviceConfig, error) {
	var cfg DeviceConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse device config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for duplicate IDs and malformed values.
func (c *DeviceConfig) Validate() error {
	seenEP := make(map[uint16]bool)
	for _, ep := range c.Endpoints {
		if datamodel.EndpointID(ep.ID) == datamodel.InvalidEndpointID {
			return fmt.Errorf("%w: %w %d", ErrInvalidArgument, datamodel.ErrInvalidEndpoint, ep.ID)
		}
		if seenEP[ep.ID] {
			return fmt.Errorf("%w: duplicate endpoint %d", ErrInvalidArgument, ep.ID)
		}
		seenEP[ep.ID] = true

		seenCluster := make(map[uint32]bool)
		for _, cl := range ep.Clusters {
			if seenCluster[cl.ID] {
				return fmt.Errorf("%w: duplicate cluster 0x%04X on endpoint %d", ErrInvalidArgument, cl.ID, ep.ID)
			}
			seenCluster[cl.ID] = true

			seenAttr := make(map[uint32]bool)
			for _, at := range cl.Attributes {
				if seenAttr[at.ID] {
					return fmt.Errorf("%w: duplicate attribute 0x%04X in cluster 0x%04X on endpoint %d",
						ErrInvalidArgument, at.ID, cl.ID, ep.ID)
				}
				seenAttr[at.ID] = true
				if _, err := at.value(); err != nil {
					return fmt.Errorf("endpoint %d cluster 0x%04X attribute 0x%04X: %w", ep.ID, cl.ID, at.ID, err)
				}
			}
		}
	}
	return nil
}

// Apply creates every cluster and attribute of the description in store.
func (c *DeviceConfig) Apply(store *MemoryStore) error {
	for _, ep := range c.Endpoints {
		for _, cl := range ep.Clusters {
			if err := store.CreateCluster(datamodel.EndpointID(ep.ID), datamodel.ClusterID(cl.ID)); err != nil {
				return err
			}
			for _, at := range cl.Attributes {
				val, err := at.value()
				if err != nil {
					return err
				}
				path := datamodel.ConcreteAttributePath{
					Endpoint:  datamodel.EndpointID(ep.ID),
					Cluster:   datamodel.ClusterID(cl.ID),
					Attribute: datamodel.AttributeID(at.ID),
				}
				if _, err := store.Create(path, at.flags(), val); err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

func (a AttributeConfig) flags() Flags {
	var f Flags
	if a.NonVolatile {
		f |= FlagNonVolatile
	}
	if a.Writable {
		f |= FlagWritable
	}
	return f
}

// value converts the YAML scalar into a typed Value.
func (a AttributeConfig) value() (Value, error) {
	t, err := ParseValueType(a.Type)
	if err != nil {
		return Value{}, err
	}

	var v Value
	switch {
	case t == TypeBool:
		b, ok := a.Value.(bool)
		if !ok {
			return Value{}, fmt.Errorf("%w: want bool, got %T", ErrTypeMismatch, a.Value)
		}
		v = BoolValue(b)
	case t.IsUnsigned():
		u, err := toUint(a.Value)
		if err != nil {
			return Value{}, err
		}
		v = UintValue(t, u)
	case t.IsSigned():
		i, err := toInt(a.Value)
		if err != nil {
			return Value{}, err
		}
		v = IntValue(t, i)
	case t == TypeCharString:
		s, ok := a.Value.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, a.Value)
		}
		v = StringValue(s)
	case t == TypeOctetString:
		s, ok := a.Value.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, a.Value)
		}
		v = OctetStringValue([]byte(s))
	}
	return v, v.Validate()
}

func toUint(x any) (uint64, error) {
	switch n := x.(type) {
	case int:
		if n < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrOutOfRange, n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrOutOfRange, n)
		}
		return uint64(n), nil
	case uint64:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, x)
	}
}

func toInt(x any) (int64, error) {
	switch n := x.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, x)
	}
}
