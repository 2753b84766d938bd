package config

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/islaride/islaride-shared/database"
	"github.com/islaride/islaride-shared/zones"
)

// ZoneConfigLoader reads the zone configuration document from Blob Storage.
// Operations edit the document offline and upload a new version; services
// pick it up on their refresh interval.
type ZoneConfigLoader struct {
	client    *azblob.Client
	container string
	blob      string
}

// NewZoneConfigLoader creates a loader using DefaultAzureCredential.
func NewZoneConfigLoader(cfg *Config) (*ZoneConfigLoader, error) {
	if !cfg.HasZoneConfigBlob() {
		return nil, fmt.Errorf("zone config blob is not configured")
	}

	accountURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.ZoneConfigAccount)

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &ZoneConfigLoader{
		client:    client,
		container: cfg.ZoneConfigContainer,
		blob:      cfg.ZoneConfigBlob,
	}, nil
}

// Load downloads and parses the current zone configuration document.
func (l *ZoneConfigLoader) Load(ctx context.Context) (*zones.Config, error) {
	var data []byte

	err := database.RetryBlobOperation(ctx, func() error {
		resp, err := l.client.DownloadStream(ctx, l.container, l.blob, nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download zone config %s/%s: %w", l.container, l.blob, err)
	}

	cfg, err := zones.ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRegistry downloads the document and builds a validated registry.
func (l *ZoneConfigLoader) LoadRegistry(ctx context.Context) (*zones.Registry, *zones.Config, error) {
	cfg, err := l.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	registry, err := zones.FromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("zone config %s is invalid: %w", cfg.Version, err)
	}
	return registry, cfg, nil
}
