// Package ablatecfg wires a physical grid description and a decrement
// source into a runnable ablate.Driver, the way FixAblate's constructor
// argument list (fix ID group nevery scale sourceID [random maxrandom])
// and FixAblate::store_corners (fix_ablate.cpp:262) translate user-facing
// parameters into grid/corner storage.
//
// The teacher and the rest of the retrieval pack carry no configuration
// file library (no viper/toml/yaml import anywhere in _examples), so this
// package is plain Go structs passed by value, matching spec.md's ambient
// configuration section.
package ablatecfg

import (
	"errors"
	"fmt"
	"log"

	"github.com/rarefiedflow/ablate/ablate"
	"github.com/rarefiedflow/ablate/geom"
	"github.com/rarefiedflow/ablate/gridblock"
	"github.com/rarefiedflow/ablate/surf"
	"github.com/rarefiedflow/ablate/transport"
)

// ErrInvalidGrid is returned by BuildGridBlock for a non-positive extent.
var ErrInvalidGrid = errors.New("ablatecfg: invalid grid spec")

// GridSpec describes one whole domain's uniform brick shape. BuildGridBlock
// turns it into a single rank that owns the entirety of that domain;
// ShardX instead splits it into nranks contiguous per-rank sub-bricks for a
// Cluster.
type GridSpec struct {
	Dim        int
	NX, NY, NZ int
	Origin     geom.Point
	Step       geom.Point
}

func (s GridSpec) nz() int {
	if s.Dim == 2 {
		return 1
	}
	return s.NZ
}

func (s GridSpec) ncorner() int {
	if s.Dim == 2 {
		return 4
	}
	return 8
}

// BuildGridBlock allocates a gridblock.Block that owns the entirety of the
// domain described by spec (DomainNX/NY/NZ equal to NX/NY/NZ, zero offset).
func BuildGridBlock(spec GridSpec) (*gridblock.Block, error) {
	if spec.NX <= 0 || spec.NY <= 0 || (spec.Dim == 3 && spec.NZ <= 0) {
		return nil, fmt.Errorf("%w: non-positive extent", ErrInvalidGrid)
	}
	cfg := gridblock.Config{
		Dim: spec.Dim, NX: spec.NX, NY: spec.NY, NZ: spec.nz(),
		NCorner: spec.ncorner(),
		Origin:  spec.Origin, Step: spec.Step,
		DomainNX: spec.NX, DomainNY: spec.NY, DomainNZ: spec.nz(),
	}
	return gridblock.NewBlock(cfg), nil
}

// ShardX splits base into nranks contiguous slices along X, for a
// multi-rank ablate.Cluster: rank r owns local extent [OffX, OffX+NX) of
// the whole domain, each with its own Origin shifted so its local cell
// (1,1,1) still lands at its true world position. Cells split as evenly as
// NX/nranks allows, with any remainder going to the lowest-ranked shards.
func ShardX(base GridSpec, nranks int) ([]gridblock.Config, error) {
	if nranks <= 0 {
		return nil, fmt.Errorf("%w: nranks must be positive", ErrInvalidGrid)
	}
	if base.NX <= 0 || base.NY <= 0 || (base.Dim == 3 && base.NZ <= 0) {
		return nil, fmt.Errorf("%w: non-positive extent", ErrInvalidGrid)
	}
	if base.NX < nranks {
		return nil, fmt.Errorf("%w: cannot shard %d cells along x across %d ranks", ErrInvalidGrid, base.NX, nranks)
	}

	cfgs := make([]gridblock.Config, nranks)
	off := 0
	for r := 0; r < nranks; r++ {
		nx := base.NX / nranks
		if r < base.NX%nranks {
			nx++
		}
		cfgs[r] = gridblock.Config{
			Dim:      base.Dim,
			NX:       nx,
			NY:       base.NY,
			NZ:       base.nz(),
			NCorner:  base.ncorner(),
			Origin:   geom.Point{X: base.Origin.X + float64(off)*base.Step.X, Y: base.Origin.Y, Z: base.Origin.Z},
			Step:     base.Step,
			DomainNX: base.NX,
			DomainNY: base.NY,
			DomainNZ: base.nz(),
			OffX:     off,
		}
		off += nx
	}
	return cfgs, nil
}

// SourceKind selects how BuildSource interprets a SourceSpec, mirroring
// FixAblate's which ∈ {COMPUTE, FIX, RANDOM}. COMPUTE and FIX collapse to
// Column: both are "read a per-local-cell-index array published by some
// other collaborator," which is exactly what ablate.ColumnSource models,
// regardless of whether that collaborator is a compute or a fix.
type SourceKind int

const (
	Random SourceKind = iota
	Column
)

// ErrUnknownSourceKind is returned by BuildSource for an unrecognized Kind.
var ErrUnknownSourceKind = errors.New("ablatecfg: unknown source kind")

// SourceSpec configures the decrement source for one Driver.
type SourceSpec struct {
	Kind SourceKind
	Freq int

	// Random fields.
	Scale     float64
	MaxRandom float64

	// Column fields.
	ColumnValues []float64
	IndexOf      func(cellID uint64) (int, bool)
}

// BuildSource realizes spec as a concrete ablate.Source.
func BuildSource(spec SourceSpec) (ablate.Source, error) {
	switch spec.Kind {
	case Random:
		return ablate.RandomSource{Scale: spec.Scale, MaxRandom: spec.MaxRandom, Freq: spec.Freq}, nil
	case Column:
		if spec.IndexOf == nil {
			return nil, fmt.Errorf("%w: column source needs an IndexOf lookup", ErrUnknownSourceKind)
		}
		return ablate.ColumnSource{Column: spec.ColumnValues, Freq: spec.Freq, IndexOf: spec.IndexOf}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSourceKind, spec.Kind)
	}
}

// DriverSpec is the full set of parameters needed to stand up one
// ablate.Driver over a freshly built grid block and in-memory surface
// store, for single-rank callers (cmd/ablatectl uses BuildCluster instead).
type DriverSpec struct {
	Grid   GridSpec
	Source SourceSpec
	Thresh float64
	Nevery int
	Logger *log.Logger
}

// BuildDriver constructs the grid block, source, and store DriverSpec
// describes and returns a ready ablate.Driver alongside them, so a caller
// can inspect the block and store between steps.
func BuildDriver(spec DriverSpec) (*ablate.Driver, *gridblock.Block, *surf.MemStore, error) {
	block, err := BuildGridBlock(spec.Grid)
	if err != nil {
		return nil, nil, nil, err
	}
	source, err := BuildSource(spec.Source)
	if err != nil {
		return nil, nil, nil, err
	}
	store := surf.NewMemStore()

	driver, err := ablate.NewDriver(ablate.Config{
		Block:  block,
		Store:  store,
		Source: source,
		Thresh: spec.Thresh,
		Scale:  1,
		Nevery: spec.Nevery,
		Logger: spec.Logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return driver, block, store, nil
}

// ClusterSpec configures a multi-rank ablate.Cluster: one GridSpec sharded
// along X into Ranks pieces, each shard running its own Source instance
// against a shared transport.Fabric.
type ClusterSpec struct {
	Grid   GridSpec
	Ranks  int
	Source SourceSpec
	Thresh float64
	Nevery int
	Logger *log.Logger
}

// BuildCluster shards spec.Grid across spec.Ranks ranks (ShardX), builds
// one Driver per shard, and wires them all to a common transport.Fabric via
// ablate.NewCluster, returning the ready Cluster alongside every rank's
// block and store for inspection between steps.
func BuildCluster(spec ClusterSpec) (*ablate.Cluster, []*gridblock.Block, []*surf.MemStore, error) {
	shardCfgs, err := ShardX(spec.Grid, spec.Ranks)
	if err != nil {
		return nil, nil, nil, err
	}

	blocks := make([]*gridblock.Block, spec.Ranks)
	stores := make([]*surf.MemStore, spec.Ranks)
	drivers := make([]*ablate.Driver, spec.Ranks)
	for r, cfg := range shardCfgs {
		source, err := BuildSource(spec.Source)
		if err != nil {
			return nil, nil, nil, err
		}
		block := gridblock.NewBlock(cfg)
		store := surf.NewMemStore()
		driver, err := ablate.NewDriver(ablate.Config{
			Block:  block,
			Store:  store,
			Source: source,
			Thresh: spec.Thresh,
			Scale:  1,
			Nevery: spec.Nevery,
			Logger: spec.Logger,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("ablatecfg: build cluster rank %d: %w", r, err)
		}
		blocks[r] = block
		stores[r] = store
		drivers[r] = driver
	}

	fabric := transport.NewFabric(spec.Ranks)
	cluster, err := ablate.NewCluster(fabric, drivers)
	if err != nil {
		return nil, nil, nil, err
	}
	return cluster, blocks, stores, nil
}
