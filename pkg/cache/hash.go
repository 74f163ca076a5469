package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashJSON hashes the JSON encoding of v. Values that cannot be encoded
// hash as their fmt representation.
func HashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", v))
	}
	return Hash(data)
}

// =============================================================================
// Keyer
// =============================================================================

// FrameKeyOpts are the scene inputs that change a frame besides the entries.
type FrameKeyOpts struct {
	Width       float64 `json:"width"`
	Grouping    string  `json:"grouping"`
	Expanded    string  `json:"expanded,omitempty"`
	Preview     string  `json:"preview,omitempty"`
	OffsetsHash string  `json:"offsets_hash"`
	ConfigHash  string  `json:"config_hash,omitempty"`
}

// ArtifactKeyOpts are the render options of one output file.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Style     string  `json:"style"`
	Type      string  `json:"type"`
	Seed      uint64  `json:"seed,omitempty"`
	Popups    bool    `json:"popups,omitempty"`
	Title     string  `json:"title,omitempty"`
	Subtitle  string  `json:"subtitle,omitempty"`
	Links     string  `json:"links,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	Detailed  bool    `json:"detailed,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty"`
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// FrameKey identifies a laid-out frame.
	FrameKey(entriesHash string, opts FrameKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a frame.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the unscoped Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(entriesHash string, opts FrameKeyOpts) string {
	return hashKey("frame", entriesHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}
