package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rakshil17/SENG3011-OMEGA/internal/collect"
	"github.com/rakshil17/SENG3011-OMEGA/internal/collect/yahoo"
	"github.com/rakshil17/SENG3011-OMEGA/internal/config"
	s3store "github.com/rakshil17/SENG3011-OMEGA/internal/infra/storage/s3"
	"github.com/rakshil17/SENG3011-OMEGA/internal/jobs"
)

func main() {
	base := log.New(os.Stdout, "[worker] ", log.LstdFlags)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		base.Fatalf("failed load config: %v", err)
	}

	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	collectLog := log.New(base.Writer(), base.Prefix()+"[collect] ", base.Flags())
	yahooLog := log.New(base.Writer(), base.Prefix()+"[yahoo] ", base.Flags())

	store, err := s3store.New(s3store.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	}, s3Log)
	if err != nil {
		base.Fatalf("failed init s3: %v", err)
	}

	yahooClient := yahoo.NewClient(yahooLog)
	collector := collect.New(collectLog, store, yahooClient, yahooClient, yahooClient,
		cfg.S3FinanceBucket, cfg.S3NewsBucket)

	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			"default": 5,
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskRefreshNews, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.RefreshNewsPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			base.Printf("[asynq] bad payload: %v", err)
			return err
		}
		base.Printf("[refresh] start user=%s", p.Username)
		start := time.Now()
		added, err := collector.RefreshNews(ctx, p.Username)
		if err != nil {
			// пер-сущностные ошибки уже проглочены внутри; сюда доходит
			// только слом перечисления — его можно повторить
			base.Printf("[refresh] failed user=%s duration=%v: %v", p.Username, time.Since(start), err)
			return err
		}
		base.Printf("[refresh] done user=%s added=%d duration=%v", p.Username, added, time.Since(start))
		return nil
	})

	base.Println("worker running...")
	if err := srv.Run(mux); err != nil {
		base.Fatalf("worker stopped: %v", err)
	}
}
