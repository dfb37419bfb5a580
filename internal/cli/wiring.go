package cli

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"mahjong-quiz-service/internal/app"
	"mahjong-quiz-service/internal/config"
	"mahjong-quiz-service/internal/infra/memory"
	"mahjong-quiz-service/internal/infra/postgres"
	infraredis "mahjong-quiz-service/internal/infra/redis"
	"mahjong-quiz-service/internal/oracle"
	"mahjong-quiz-service/internal/quiz"
	"mahjong-quiz-service/internal/scoring"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backends holds the optional external clients a service is built on.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func connectBackends(ctx context.Context, cfg config.Config) (backends, error) {
	var b backends
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return backends{}, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// newVerifier picks the answer validator named by quiz.validator. Remote
// verdicts are cached in Redis when it is configured, in process otherwise.
func newVerifier(cfg config.Config, b backends, logger *zap.Logger) app.Verifier {
	switch cfg.Quiz.Validator {
	case config.ValidatorTable:
		return scoring.TableVerifier{}
	case config.ValidatorRemote:
		client := oracle.NewClient(cfg.Oracle.APIRoot, config.TTLDuration(cfg.Oracle.Timeout, 5*time.Second))
		cacheTTL := config.TTLDuration(cfg.Oracle.CacheTTL, 10*time.Minute)
		logger.Info("using remote answer oracle", zap.String("apiRoot", cfg.Oracle.APIRoot))
		if b.redis != nil {
			return infraredis.NewVerdictCache(b.redis, client, cacheTTL)
		}
		return memory.NewVerdictCache(client, cacheTTL)
	default:
		return scoring.ChartVerifier{}
	}
}

func newQuizService(cfg config.Config, b backends, logger *zap.Logger) (*app.QuizService, error) {
	strategy, err := quiz.StrategyByName(cfg.Quiz.HanStrategy)
	if err != nil {
		return nil, err
	}
	generator := quiz.NewGenerator(strategy, rand.NewSource(time.Now().UnixNano()))

	var store app.SessionRepository = memory.NewSessionStore()
	if b.redis != nil {
		store = infraredis.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}

	var attempts app.AttemptRecorder = memory.NewAttemptLog()
	if b.pool != nil {
		attempts = postgres.NewAttemptStore(b.pool)
	}

	return app.NewQuizService(store, generator, newVerifier(cfg, b, logger), attempts, app.Options{
		ResetDelay:    config.TTLDuration(cfg.Quiz.ResetDelay, app.DefaultResetDelay),
		VerifyTimeout: config.TTLDuration(cfg.Quiz.VerifyTimeout, app.DefaultVerifyTimeout),
		Logger:        logger,
	}), nil
}
