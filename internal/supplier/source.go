package supplier

import (
	"context"

	"github.com/wyzinc/marketsync/internal/model"
)

// FileSource reads the supplier feed from a CSV export on disk
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(_ context.Context) ([]model.SupplierRecord, error) {
	return ReadFile(s.Path)
}

// PortalSource scrapes the supplier's web portal
type PortalSource struct {
	Client *PortalClient
}

func (s PortalSource) Fetch(ctx context.Context) ([]model.SupplierRecord, error) {
	return s.Client.FetchAll(ctx)
}

// StaticSource serves a fixed record set, for dry runs and tests
type StaticSource []model.SupplierRecord

func (s StaticSource) Fetch(context.Context) ([]model.SupplierRecord, error) {
	return s, nil
}
