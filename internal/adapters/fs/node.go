package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/resolvd/internal/core/ports"
)

// HostNodeID is the unique identifier for the file system Graft node.
const HostNodeID graft.ID = "adapter.fs.host"

func init() {
	graft.Register(graft.Node[ports.FileSystem]{
		ID:        HostNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSystem, error) {
			return NewOSHost(), nil
		},
	})
}
