package domain

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// PackageRegistry keeps the discovered packages of every folder. Lists are
// replaced wholesale on refresh, readers see the last completed refresh.
type PackageRegistry interface {
	// Get returns the packages of cfg.Folder, discovering them on first use.
	Get(ctx context.Context, cfg m.Config) ([]m.Package, error)

	// Cached returns the packages of folder without running discovery.
	Cached(folder m.Path) ([]m.Package, bool)

	// Refresh rediscovers the packages of cfg.Folder. Overlapping refreshes of
	// the same folder share one discovery run.
	Refresh(ctx context.Context, cfg m.Config) ([]m.Package, error)

	// RefreshAll refreshes every folder concurrently. A failing folder does not
	// stop the others; the returned error joins all failures.
	RefreshAll(ctx context.Context, cfgs []m.Config) error
}

type packageRegistry struct {
	discovery Discovery

	mu       sync.RWMutex
	packages map[m.Path][]m.Package

	group singleflight.Group
}

// NewPackageRegistry constructs an empty registry backed by discovery.
func NewPackageRegistry(discovery Discovery) PackageRegistry {
	return &packageRegistry{
		discovery: discovery,
		packages:  make(map[m.Path][]m.Package),
	}
}

func (r *packageRegistry) Get(ctx context.Context, cfg m.Config) ([]m.Package, error) {
	if packages, ok := r.Cached(cfg.Folder.Path); ok {
		return packages, nil
	}

	return r.Refresh(ctx, cfg)
}

func (r *packageRegistry) Cached(folder m.Path) ([]m.Package, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	packages, ok := r.packages[folder]

	return packages, ok
}

func (r *packageRegistry) Refresh(ctx context.Context, cfg m.Config) ([]m.Package, error) {
	value, err, _ := r.group.Do(string(cfg.Folder.Path), func() (any, error) {
		packages, err := r.discovery.List(ctx, cfg)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.packages[cfg.Folder.Path] = packages
		r.mu.Unlock()

		return packages, nil
	})
	if err != nil {
		return nil, err
	}

	packages, _ := value.([]m.Package)

	return packages, nil
}

func (r *packageRegistry) RefreshAll(ctx context.Context, cfgs []m.Config) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)

	for _, cfg := range cfgs {
		g.Go(func() error {
			if _, err := r.Refresh(ctx, cfg); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}

			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}
