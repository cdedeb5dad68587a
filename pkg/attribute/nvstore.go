package attribute

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/afero"
)

// nvRecordVersion is the current on-disk record format.
const nvRecordVersion = 1

// nvEncMode is the CBOR encoder mode for persisted attribute records.
// Canonical so identical values always produce identical files.
var nvEncMode cbor.EncMode

// nvDecMode is the CBOR decoder mode for persisted attribute records.
var nvDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	nvEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create attribute CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	nvDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create attribute CBOR decoder mode: %v", err))
	}
}

// nvRecord is the persisted form of one attribute value.
type nvRecord struct {
	Version int   `cbor:"1,keyasint"`
	Value   Value `cbor:"2,keyasint"`
}

// NVStore persists non-volatile attribute values as one CBOR file per
// attribute below a base directory.
type NVStore struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

// NewNVStore creates a persister rooted at dir on fsys.
// Use afero.NewOsFs() for real storage and afero.NewMemMapFs() in tests.
func NewNVStore(fsys afero.Fs, dir string) (*NVStore, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: nil filesystem", ErrInvalidArgument)
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &NVStore{fs: fsys, dir: dir}, nil
}

// fileName returns the file holding one attribute, keyed the way NVS keys
// are: endpoint, cluster and attribute in hex.
func (n *NVStore) fileName(path datamodel.ConcreteAttributePath) string {
	return filepath.Join(n.dir, fmt.Sprintf("%04x_%08x_%08x.cbor",
		uint16(path.Endpoint), uint32(path.Cluster), uint32(path.Attribute)))
}

// Load implements Persister.
func (n *NVStore) Load(path datamodel.ConcreteAttributePath) (Value, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	data, err := afero.ReadFile(n.fs, n.fileName(path))
	if errors.Is(err, fs.ErrNotExist) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, err
	}

	var rec nvRecord
	if err := nvDecMode.Unmarshal(data, &rec); err != nil {
		return Value{}, false, fmt.Errorf("decode %s: %w", path, err)
	}
	if rec.Version != nvRecordVersion {
		return Value{}, false, fmt.Errorf("decode %s: unsupported record version %d", path, rec.Version)
	}
	if err := rec.Value.Validate(); err != nil {
		return Value{}, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec.Value, true, nil
}

// Save implements Persister. The record is written to a temporary file and
// renamed into place.
func (n *NVStore) Save(path datamodel.ConcreteAttributePath, v Value) error {
	data, err := nvEncMode.Marshal(nvRecord{Version: nvRecordVersion, Value: v})
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	name := n.fileName(path)
	tmp := name + ".tmp"
	if err := afero.WriteFile(n.fs, tmp, data, 0o600); err != nil {
		return err
	}
	return n.fs.Rename(tmp, name)
}

// Erase implements Persister.
func (n *NVStore) Erase(path datamodel.ConcreteAttributePath) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	err := n.fs.Remove(n.fileName(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Verify NVStore implements the interface.
var _ Persister = (*NVStore)(nil)
