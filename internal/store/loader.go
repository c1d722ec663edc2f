// internal/store/loader.go
//
// Backend-REST loader.  Turns slug → *Config.  Steps:
//
//  1. Fetch the tenant record over the platform API.
//  2. Map wire fields into the typed Config with nested branding.
//
// A backend 404 becomes ErrNotFound here so the cache can classify it;
// everything else passes through as a transient failure.
package store

import (
	"context"
	"errors"

	"github.com/craftflow/storefront/internal/api"
)

type apiLoader struct {
	client *api.Client
}

// NewAPILoader adapts the platform API client to the Loader contract.
func NewAPILoader(client *api.Client) Loader {
	return &apiLoader{client: client}
}

func (l *apiLoader) Load(ctx context.Context, slug string) (*Config, error) {
	info, err := l.client.StoreInfo(ctx, slug)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &Config{
		Slug:        info.Slug,
		Name:        info.Name,
		Description: info.Description,
		LogoURL:     info.LogoURL,
		Branding: Branding{
			PrimaryColor:    info.PrimaryColor,
			SecondaryColor:  info.SecondaryColor,
			TextColor:       info.TextColor,
			BackgroundColor: info.BackgroundColor,
		},
		Published:   info.IsPublished,
		Maintenance: info.MaintenanceMode,
		OwnerID:     info.OwnerID,
	}, nil
}
