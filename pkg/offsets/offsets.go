// Package offsets stores the user-applied displacements of timeline markers
// and owns the merge and clamp policy that turns a base position plus an
// offset into the position that is actually drawn.
//
// # Stores
//
// A [Store] is a keyed upsert store: keys are year-group keys ("2022") or
// entry IDs, values are two numbers. Last write wins and a key that was never
// written reads as the zero offset. Backends:
//
//   - [MemoryStore]: process-local map, used by tests and the TUI
//   - [FileStore]: a single JSON document, used by the CLI
//   - [SQLiteStore]: a table in an SQLite database
//   - [RedisStore]: one Redis hash shared by all server instances
//   - [MongoStore]: one document per key
//
// [Open] selects a backend from a [Config].
//
// # Policy
//
// Offsets are bounded by a [Policy] expressed as fractions of the canvas, so
// a layout tuned on a wide screen stays proportionate on a narrow one.
// Stored offsets are never rewritten when the canvas shrinks; they are
// clamped when read.
//
// # Writes
//
// Interactive code never writes a store directly. It hands the final offset
// of a drag to an [AsyncWriter], which applies writes on one background
// goroutine in submission order and logs failures without retrying.
package offsets

import (
	"context"
	"errors"

	"github.com/rvno/roadline/pkg/geom"
)

// ErrClosed is returned by stores and writers used after Close.
var ErrClosed = errors.New("offsets: store closed")

// Store is a keyed offset store.
type Store interface {
	// Get returns the offset for key, or the zero offset if none was stored.
	Get(ctx context.Context, key string) (geom.Offset, error)

	// Set upserts the offset for key.
	Set(ctx context.Context, key string, o geom.Offset) error

	// All returns every stored offset.
	All(ctx context.Context) (map[string]geom.Offset, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default clamp fractions. A marker may wander 35% of the canvas width and
// 8% of its height from its base position; the vertical bound is tight so
// chronological order stays readable.
const (
	DefaultMaxFracX = 0.35
	DefaultMaxFracY = 0.08
)

// Policy bounds offsets relative to the canvas size.
type Policy struct {
	MaxFracX float64 `toml:"max_frac_x" json:"max_frac_x"`
	MaxFracY float64 `toml:"max_frac_y" json:"max_frac_y"`
}

// DefaultPolicy returns the default clamp fractions.
func DefaultPolicy() Policy {
	return Policy{MaxFracX: DefaultMaxFracX, MaxFracY: DefaultMaxFracY}
}

// Limits returns the absolute offset bounds for a width x height canvas.
func (p Policy) Limits(width, height float64) geom.Limits {
	return geom.Limits{
		MaxDX: nonNeg(width) * p.MaxFracX,
		MaxDY: nonNeg(height) * p.MaxFracY,
	}
}

// Clamp bounds o for a width x height canvas.
func (p Policy) Clamp(o geom.Offset, width, height float64) geom.Offset {
	return p.Limits(width, height).Clamp(o)
}

// Effective returns the drawn position of a marker: base plus the clamped
// offset, kept inside the canvas.
func (p Policy) Effective(base geom.Point, o geom.Offset, width, height float64) geom.Point {
	return geom.Canvas(width, height).Clamp(base.Add(p.Clamp(o, width, height)))
}

func nonNeg(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

// Snapshot reads every offset from s, dropping nothing. It is a convenience
// for callers that seed a scene at load time.
func Snapshot(ctx context.Context, s Store) (map[string]geom.Offset, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string]geom.Offset{}
	}
	return all, nil
}
