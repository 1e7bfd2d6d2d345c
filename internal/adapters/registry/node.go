package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chip/internal/adapters/logger"
	"go.trai.ch/chip/internal/core/ports"
)

// NodeID is the unique identifier for the repo registry Graft node.
const NodeID graft.ID = "adapter.repo_registry"

func init() {
	graft.Register(graft.Node[ports.RepoRegistry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.RepoRegistry, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
