// Command broadbench runs the same random scene through every broadphase
// kind concurrently and reports timings and contact counts.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"collidex/internal/config"
	"collidex/internal/logging"
	"collidex/internal/spatial"
	"collidex/pkg/collidex"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	tagMover collidex.Tag = iota + 1
	tagStatic
)

type result struct {
	kind     spatial.Kind
	elapsed  time.Duration
	contacts int
	stats    collidex.Stats
}

func main() {
	configPath := flag.String("config", "", "YAML config file; defaults are used when empty")
	n := flag.Int("n", 2000, "number of entities")
	ticks := flag.Int("ticks", 100, "ticks to simulate")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	results, err := run(cfg, logger, *n, *ticks, *seed)
	if err != nil {
		logger.Fatal("benchmark failed", zap.Error(err))
	}
	for _, r := range results {
		logger.Info("broadphase finished",
			zap.String("kind", string(r.kind)),
			zap.Duration("elapsed", r.elapsed),
			zap.Duration("per_tick", r.elapsed/time.Duration(max(*ticks, 1))),
			zap.Int("contacts", r.contacts),
			zap.Int("candidates_last_tick", r.stats.Candidates),
			zap.String("engine", r.stats.ID.String()),
		)
	}
}

// run gives every kind its own engine over an identical scene, so the
// goroutines share nothing but the results slice
func run(base *config.Config, logger *zap.Logger, n, ticks int, seed int64) ([]result, error) {
	results := make([]result, len(spatial.Kinds))
	var mu sync.Mutex

	g := errgroup.Group{}
	for i, kind := range spatial.Kinds {
		i, kind := i, kind
		g.Go(func() error {
			cfg := *base
			cfg.Broadphase.Kind = string(kind)
			r, err := simulate(&cfg, logger, n, ticks, seed)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			r.kind = kind

			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func simulate(cfg *config.Config, logger *zap.Logger, n, ticks int, seed int64) (result, error) {
	engine, err := collidex.NewEngine(cfg, collidex.WithLogger(logger))
	if err != nil {
		return result{}, err
	}

	rng := rand.New(rand.NewSource(seed))
	world := cfg.Options2D().Bounds
	size := world.Size()
	velocities := make(map[collidex.EntityID]collidex.Vector2D, n)

	for i := 0; i < n; i++ {
		id := collidex.EntityID(i + 1)
		pos := collidex.NewVector2D(world.Min.X+rng.Float64()*size.X, world.Min.Y+rng.Float64()*size.Y)
		tag := tagStatic
		if i%4 == 0 {
			tag = tagMover
			velocities[id] = collidex.NewVector2D(rng.Float64()*2-1, rng.Float64()*2-1)
		}
		entity, err := collidex.NewRegularPolygonEntity(id, tag, pos, 2+rng.Float64()*6, 3+rng.Intn(5))
		if err != nil {
			return result{}, err
		}
		if err := engine.AddEntity(entity); err != nil {
			return result{}, err
		}
	}

	engine.Register(tagMover, tagStatic, func(_, _ *collidex.Entity, _ collidex.Response2D) {})
	engine.Register(tagMover, tagMover, func(_, _ *collidex.Entity, _ collidex.Response2D) {})

	movers := engine.GetEntitiesByTag(tagMover)
	contacts := 0
	start := time.Now()
	for t := 0; t < ticks; t++ {
		for _, m := range movers {
			m.Translate(velocities[m.ID()])
		}
		c, err := engine.Step()
		if err != nil {
			return result{}, err
		}
		contacts += c
	}
	return result{elapsed: time.Since(start), contacts: contacts, stats: engine.Stats()}, nil
}
