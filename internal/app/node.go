package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chip/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/adapters/registry"           //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/chip/internal/engine/transpiler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cas.NodeID,
			registry.NodeID,
			shell.NodeID,
			transpiler.NodeID,
			transpiler.LoopNodeID,
			watcher.NodeID,
			metrics.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.CacheStore](ctx)
	if err != nil {
		return nil, err
	}

	reg, err := graft.Dep[ports.RepoRegistry](ctx)
	if err != nil {
		return nil, err
	}

	transformer, err := graft.Dep[*shell.Transformer](ctx)
	if err != nil {
		return nil, err
	}

	tr, err := graft.Dep[*transpiler.Transpiler](ctx)
	if err != nil {
		return nil, err
	}

	loop, err := graft.Dep[*transpiler.Loop](ctx)
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

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, store, reg, transformer, tr, loop, w, m, telemetry, log), nil
}
