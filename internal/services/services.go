// Package services wires the application's components together.
package services

import (
	"fmt"

	"mediamaestro/internal/api/spotify"
	"mediamaestro/internal/config"
	"mediamaestro/internal/core/downloader"
	"mediamaestro/internal/interfaces"
	"mediamaestro/internal/library"
	"mediamaestro/internal/storage"
)

// ServiceContainer holds all application services
type ServiceContainer struct {
	Config     *config.Config
	Library    *library.Manager
	Catalog    interfaces.CatalogService
	Downloader interfaces.DownloaderService
	Store      *storage.Store
}

// NewServiceContainer creates a new service container with all services
// initialized. The store is optional: withStore=false leaves it nil for
// commands that never touch the database.
func NewServiceContainer(cfg *config.Config, withStore bool) (*ServiceContainer, error) {
	container := &ServiceContainer{
		Config:     cfg,
		Library:    library.NewFromConfig(cfg),
		Catalog:    spotify.NewClient(cfg),
		Downloader: downloader.NewYouTubeDownloader(cfg),
	}

	if withStore {
		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		container.Store = store
	}

	return container, nil
}

// Close releases the container's resources.
func (c *ServiceContainer) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
