package metaldb

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// CompressionType names a backend compression algorithm. metaldb only ships
// a bbolt-backed PersistentDB, and bbolt has no block compression of its
// own; the field exists so DBOptions stays wire-compatible with hosts that
// serialize configuration shared with other backends, and is otherwise a
// no-op here (see DESIGN.md).
type CompressionType string

const (
	CompressionNone   CompressionType = "none"
	CompressionBz2    CompressionType = "bz2"
	CompressionLz4    CompressionType = "lz4"
	CompressionLz4hc  CompressionType = "lz4hc"
	CompressionSnappy CompressionType = "snappy"
	CompressionZlib   CompressionType = "zlib"
	CompressionZstd   CompressionType = "zstd"
)

// DBOptions configures a backend. Every field is accepted by PersistentDB's
// constructor; fields bbolt cannot act on are retained for API parity with
// the spec and documented as no-ops rather than silently dropped.
type DBOptions struct {
	MaxOpenFiles     *int            `yaml:"max_open_files,omitempty"`
	CreateIfMissing  bool            `yaml:"create_if_missing"`
	CompressionType  CompressionType `yaml:"compression_type"`
	MaxTotalWalSize  *uint64         `yaml:"max_total_wal_size,omitempty"`
	MaxCacheSize     *uint64         `yaml:"max_cache_size,omitempty"`
}

// NewDBOptions returns the default options: create the database file if
// missing, no compression, and every other knob left unset.
func NewDBOptions() DBOptions {
	return DBOptions{
		CreateIfMissing: true,
		CompressionType: CompressionNone,
	}
}

// LoadDBOptionsYAML reads DBOptions from YAML, the same convention
// cmd/warren/apply.go uses for its manifests. It starts from NewDBOptions
// so a partial document still yields sane defaults.
func LoadDBOptionsYAML(r io.Reader) (DBOptions, error) {
	opts := NewDBOptions()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return DBOptions{}, fmt.Errorf("metaldb: decode DBOptions: %w", err)
	}
	return opts, nil
}
