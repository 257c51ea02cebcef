package custom

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"platform.GO/config"
	"platform.GO/core/cache"
	"platform.GO/core/registry"
	"platform.GO/model/repository/snapshot"
)

// ResourceDB and ResourceSnapshots are only available when DB_DRIVER is set.
const (
	ResourceDB        = "db"
	ResourceSnapshots = "snapshots"
)

// Resources builds the injection container. The caller adds ResourcePlatform once
// the platform exists. The cache is Redis when REDIS_ADDR is set and reachable,
// in-process memory otherwise.
func Resources(cfg *config.Config) *registry.Container {
	res := registry.NewContainer()
	res.SetValue(ResourceConfig, cfg)
	res.SetValue(ResourceResources, res)
	res.Set(ResourceCache, func() (interface{}, error) {
		return newCache(cfg), nil
	})
	if cfg.DBDriver != "" {
		res.Set(ResourceDB, func() (interface{}, error) {
			db, err := config.NewDB(cfg)
			if err != nil {
				return nil, err
			}
			log.Println("Database connection successful.")
			return db, nil
		})
		res.Set(ResourceSnapshots, func() (interface{}, error) {
			db, err := res.Resolve(ResourceDB)
			if err != nil {
				return nil, err
			}
			repo := snapshot.NewSnapshotRepository(db.(*gorm.DB))
			if err := repo.Migrate(); err != nil {
				return nil, fmt.Errorf("migrate snapshots: %w", err)
			}
			return repo, nil
		})
	}
	return res
}

func newCache(cfg *config.Config) cache.Store {
	client := config.NewRedis(cfg)
	if client == nil {
		log.Println("Redis not configured, using in-memory cache.")
		return cache.NewMemory()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis configured but not reachable (%v), using in-memory cache.", err)
		client.Close()
		return cache.NewMemory()
	}
	log.Println("Redis connection successful.")
	return cache.NewRedis(client, cfg.AppName+":")
}
