package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink-service/internal/analytics"
	"github.com/serroba/shortlink-service/internal/auth"
	"github.com/serroba/shortlink-service/internal/cache"
	"github.com/serroba/shortlink-service/internal/cleanup"
	"github.com/serroba/shortlink-service/internal/links"
	"github.com/serroba/shortlink-service/internal/messaging"
	"github.com/serroba/shortlink-service/internal/store"
	"go.uber.org/zap"
)

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the connection pool and applies the schema.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := store.Migrate(context.Background(), pool); err != nil {
			pool.Close()

			return nil, err
		}

		return pool, nil
	})
}

// RepositoryPackage provides the durable stores and the cache layer.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (links.Store, error) {
		return store.NewPostgresLinkStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (auth.UserStore, error) {
		return store.NewPostgresUserStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (cache.Cache, error) {
		return cache.NewRedisCache(
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// AuthPackage provides the identity services.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.TokenManager, error) {
		options := do.MustInvoke[*Options](i)

		return auth.NewTokenManager(options.SecretKey, auth.DefaultTokenLifetime), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.Service, error) {
		return auth.NewService(
			do.MustInvoke[auth.UserStore](i),
			auth.NewPasswordHasher(),
			do.MustInvoke[*auth.TokenManager](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherGroupPackage provides the event publishers over Redis streams.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (analytics.Publishers, error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return analytics.NewPublishers(group.Publisher()), nil
	})
}

// LinksPackage provides the link lifecycle service.
func LinksPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*links.Service, error) {
		options := do.MustInvoke[*Options](i)

		return links.NewService(
			do.MustInvoke[links.Store](i),
			do.MustInvoke[cache.Cache](i),
			do.MustInvoke[analytics.Publishers](i),
			options.CodeLength,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// SweeperPackage provides the cleanup jobs and their scheduler.
func SweeperPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cleanup.Sweeper, error) {
		options := do.MustInvoke[*Options](i)
		publishers := do.MustInvoke[analytics.Publishers](i)

		return cleanup.NewSweeper(
			do.MustInvoke[links.Store](i),
			time.Duration(options.LinkLifetimeDays)*24*time.Hour,
			publishers.LinkDeleted,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*cleanup.Scheduler, error) {
		sweeper := do.MustInvoke[*cleanup.Sweeper](i)

		return cleanup.NewScheduler(
			do.MustInvoke[*zap.Logger](i),
			cleanup.Job{Name: "expired", Interval: cleanup.ExpiredInterval, Run: sweeper.DeleteExpired},
			cleanup.Job{Name: "unused", Interval: cleanup.UnusedInterval, Run: sweeper.DeleteUnused},
		), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group for the
// consumer binary.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "analytics",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		eventStore := analytics.NewLogStore(logger)
		group := messaging.NewConsumerGroup(subscriber, logger)

		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated,
			func(ctx context.Context, event *analytics.LinkCreatedEvent) error {
				return eventStore.RecordCreated(ctx, event)
			}, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkAccessed,
			func(ctx context.Context, event *analytics.LinkAccessedEvent) error {
				return eventStore.RecordAccessed(ctx, event)
			}, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkDeleted,
			func(ctx context.Context, event *analytics.LinkDeletedEvent) error {
				return eventStore.RecordDeleted(ctx, event)
			}, logger))

		return group, nil
	})
}
