package shard

import (
	"context"
	"flag"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/concurrency"
	"github.com/grafana/dskit/multierror"
	"github.com/grafana/dskit/services"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the lifecycle tunables of the shard service.
type Config struct {
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	CloseConcurrency int           `yaml:"close_concurrency"`
}

// RegisterFlags registers the flags.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.DurationVar(&cfg.ShutdownTimeout, "cluster.shard.shutdown-timeout", 30*time.Second, "Maximum time to wait for all shards to close on shutdown.")
	f.IntVar(&cfg.CloseConcurrency, "cluster.shard.close-concurrency", 4, "Number of shards to close concurrently on shutdown.")
}

// Service owns the node's shard set and ties it into the process lifecycle:
// upstream assignment logic creates and removes shards through it while it
// runs, and stopping it closes every remaining shard against the engine.
type Service struct {
	services.Service

	cfg    Config
	set    *ShardSet
	engine TableEngine

	logger  log.Logger
	metrics *Metrics
}

// NewService creates the shard service around an empty shard set.
func NewService(cfg Config, engine TableEngine, logger log.Logger, reg prometheus.Registerer) *Service {
	s := &Service{
		cfg:     cfg,
		set:     NewShardSet(reg),
		engine:  engine,
		logger:  log.With(logger, "component", "cluster.shard.Service"),
		metrics: NewMetrics(reg),
	}
	s.Service = services.NewBasicService(nil, s.running, s.stopping)
	return s
}

// Shards returns the underlying shard set.
func (s *Service) Shards() *ShardSet {
	return s.set
}

// CreateShard creates a shard from an assignment descriptor and registers
// it, returning the previously registered shard for that id, or nil.
func (s *Service) CreateShard(tablesOfShard TablesOfShard) (*Shard, *Shard) {
	shard := NewShard(tablesOfShard, s.engine, s.logger, s.metrics)
	prev := s.set.Insert(tablesOfShard.ShardInfo.ID, shard)
	return shard, prev
}

func (s *Service) running(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *Service) stopping(_ error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	shards := s.set.All()
	level.Info(s.logger).Log("msg", "closing all shards", "shards", len(shards))

	errs := multierror.New()
	if err := concurrency.ForEachJob(ctx, len(shards), s.cfg.CloseConcurrency, func(ctx context.Context, i int) error {
		shard := shards[i]
		if err := shard.Close(ctx); err != nil {
			level.Warn(s.logger).Log("msg", "failed to close shard", "shard", shard.Info().ID, "err", err)
			errs.Add(err)
		}
		return nil
	}); err != nil {
		errs.Add(err)
	}
	return errs.Err()
}
