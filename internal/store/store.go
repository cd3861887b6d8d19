package store

import "github.com/yourorg/yulelog/pkg/types"

// Store archives certification workflow events for offline analysis.
type Store interface {
	CreateImport(source string) (*types.Import, error)
	GetImport(id string) (*types.Import, error)
	ListImports() ([]types.Import, error)
	DeleteImport(id string) error

	SaveEvents(importID string, events []types.Event) (int, error)
	SessionKeys() ([]string, error)
	SessionEvents(key string) ([]types.Event, error)

	Close() error
}
