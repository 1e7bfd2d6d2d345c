package transpiler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chip/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/adapters/metrics"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/adapters/registry"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/adapters/watcher"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/chip/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the transpiler Graft node.
	NodeID graft.ID = "engine.transpiler"
	// LoopNodeID is the unique identifier for the watch loop Graft node.
	LoopNodeID graft.ID = "engine.loop"
)

func init() {
	graft.Register(graft.Node[*Transpiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			shell.NodeID,
			fs.FingerprinterNodeID,
			fs.WalkerNodeID,
			registry.NodeID,
			progrock.NodeID,
			metrics.NodeID,
			logger.NodeID,
		},
		Run: runTranspilerNode,
	})

	graft.Register(graft.Node[*Loop]{
		ID:        LoopNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			NodeID,
			registry.NodeID,
			watcher.NodeID,
			metrics.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Loop, error) {
			t, err := graft.Dep[*Transpiler](ctx)
			if err != nil {
				return nil, err
			}
			reg, err := graft.Dep[ports.RepoRegistry](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoop(t, reg, w, m, log), nil
		},
	})
}

func runTranspilerNode(ctx context.Context) (*Transpiler, error) {
	store, err := graft.Dep[ports.CacheStore](ctx)
	if err != nil {
		return nil, err
	}

	transformer, err := graft.Dep[*shell.Transformer](ctx)
	if err != nil {
		return nil, err
	}

	fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[ports.FileWalker](ctx)
	if err != nil {
		return nil, err
	}

	reg, err := graft.Dep[ports.RepoRegistry](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	m, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(store, transformer, fingerprinter, walker, reg, telemetry, m, log), nil
}
