package ports

import "github.com/aalvaropc/seqyank/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
