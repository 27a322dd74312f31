// Package app assembles the calculation environment from configuration.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"Timber/internal/cache"
	"Timber/internal/calc"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
	"Timber/internal/config"
	"Timber/internal/material"
)

// TableStore supplies reference tables kept in a database.
type TableStore interface {
	LoadCatalogEntries(ctx context.Context) ([]catalog.Entry, error)
	LoadMaterials(ctx context.Context) ([]material.Properties, error)
}

// Tables resolves the catalog and material tables. A configured file wins
// over the store; an empty store table falls back to the embedded default.
// The returned scope names the sources for cache keys.
func Tables(ctx context.Context, cfg config.Config, store TableStore) (sizing.Tables, string, error) {
	cat, catScope, err := loadCatalog(ctx, cfg, store)
	if err != nil {
		return sizing.Tables{}, "", err
	}
	mat, matScope, err := loadMaterials(ctx, cfg, store)
	if err != nil {
		return sizing.Tables{}, "", err
	}
	if cfg.DefaultGrade != "" && cfg.DefaultGrade != mat.DefaultGrade() {
		if mat, err = mat.WithDefault(cfg.DefaultGrade); err != nil {
			return sizing.Tables{}, "", err
		}
	}
	scope := fmt.Sprintf("%s|%s|%s", catScope, matScope, mat.DefaultGrade())
	log.Printf("catalog: %d sections from %s; materials: %v from %s", cat.Len(), catScope, mat.Grades(), matScope)
	return sizing.Tables{Catalog: cat, Materials: mat}, scope, nil
}

func loadCatalog(ctx context.Context, cfg config.Config, store TableStore) (*catalog.Catalog, string, error) {
	if cfg.CatalogFile != "" {
		c, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, "", fmt.Errorf("catalog file: %w", err)
		}
		return c, "file:" + cfg.CatalogFile, nil
	}
	if store != nil {
		entries, err := store.LoadCatalogEntries(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("catalog table: %w", err)
		}
		if len(entries) > 0 {
			c, err := catalog.New(entries)
			if err != nil {
				return nil, "", fmt.Errorf("catalog table: %w", err)
			}
			return c, "db", nil
		}
	}
	return catalog.Default(), "embedded", nil
}

func loadMaterials(ctx context.Context, cfg config.Config, store TableStore) (*material.Table, string, error) {
	if cfg.MaterialsFile != "" {
		t, err := material.LoadFile(cfg.MaterialsFile)
		if err != nil {
			return nil, "", fmt.Errorf("materials file: %w", err)
		}
		return t, "file:" + cfg.MaterialsFile, nil
	}
	if store != nil {
		props, err := store.LoadMaterials(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("materials table: %w", err)
		}
		if len(props) > 0 {
			t, err := material.NewTable(props, cfg.DefaultGrade)
			if err != nil {
				return nil, "", fmt.Errorf("materials table: %w", err)
			}
			return t, "db", nil
		}
	}
	return material.Default(), "embedded", nil
}

// Cache returns a Redis cache when an address is configured and reachable,
// otherwise an in-process one.
func Cache(ctx context.Context, cfg config.Config) cache.Cache {
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rc.Ping(pingCtx)
		if err == nil {
			log.Printf("cache: redis at %s", cfg.RedisAddr)
			return rc
		}
		log.Printf("warning: redis at %s unavailable, using memory cache: %v", cfg.RedisAddr, err)
		rc.Close()
	}
	return cache.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL)
}

func Env(tables sizing.Tables, scope string, cfg config.Config, c cache.Cache) *calc.Env {
	return &calc.Env{
		Tables: tables,
		Limits: loads.Limits{
			Commercial:  cfg.DeflectionLimitCommercial,
			Residential: cfg.DeflectionLimitResidential,
		},
		PricePerM3: cfg.PricePerM3,
		Cache:      c,
		CacheTTL:   cfg.CacheTTL,
		Scope:      scope,
	}
}
