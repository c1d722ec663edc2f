// internal/api/storeinfo.go
//
// Store-configuration lookup.
//
// The wire shape mirrors the backend's tenant record; the store package
// converts it into its typed Config with nested branding.

package api

import (
	"context"
	"net/http"
)

// StoreInfo is the backend's tenant record for one store slug.
type StoreInfo struct {
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	LogoURL         string `json:"logo_url"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
	IsPublished     bool   `json:"is_published"`
	MaintenanceMode bool   `json:"maintenance_mode"`
	OwnerID         uint64 `json:"owner_id"`
}

// StoreInfo fetches the configuration record for slug.  A missing store
// surfaces as ErrNotFound.
func (c *Client) StoreInfo(ctx context.Context, slug string) (*StoreInfo, error) {
	var info StoreInfo
	if err := c.do(ctx, http.MethodGet, "/api/tenant/"+slug, nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
