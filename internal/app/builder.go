package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rakshil17/SENG3011-OMEGA/internal/collect"
	"github.com/rakshil17/SENG3011-OMEGA/internal/collect/yahoo"
	"github.com/rakshil17/SENG3011-OMEGA/internal/config"
	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	redisx "github.com/rakshil17/SENG3011-OMEGA/internal/infra/cache/redis"
	"github.com/rakshil17/SENG3011-OMEGA/internal/infra/database/postgres"
	s3store "github.com/rakshil17/SENG3011-OMEGA/internal/infra/storage/s3"
	"github.com/rakshil17/SENG3011-OMEGA/internal/retrieval"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	repo   domain.UserRepo
	cache  domain.Cache
	jobs   *asynq.Client
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	engineLog := log.New(base.Writer(), base.Prefix()+"[retrieval] ", base.Flags())
	collectLog := log.New(base.Writer(), base.Prefix()+"[collect] ", base.Flags())
	yahooLog := log.New(base.Writer(), base.Prefix()+"[yahoo] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init S3 storage")
	store, err := s3store.New(s3store.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	}, s3Log)
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	engine := retrieval.NewEngine(engineLog, store, pgRepo, retrieval.Buckets{
		Finance: cfg.S3FinanceBucket,
		News:    cfg.S3NewsBucket,
	})

	yahooClient := yahoo.NewClient(yahooLog)
	collector := collect.New(collectLog, store, yahooClient, yahooClient, yahooClient,
		cfg.S3FinanceBucket, cfg.S3NewsBucket)

	jobsClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	})

	base.Println("init Server")
	server := web.New(serverLog, cfg, web.Deps{
		Engine:    engine,
		Refresher: collector,
		Stocks:    collector,
		Cache:     rc,
		DB:        pgRepo,
		Storage:   store,
		Jobs:      jobsClient,
	})
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		repo:   pgRepo,
		cache:  rc,
		jobs:   jobsClient,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()
	if err := a.jobs.Close(); err != nil {
		a.log.Printf("jobs client close: %v", err)
	}

	return nil
}
