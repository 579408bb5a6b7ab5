// Package container wires the application together with samber/do. Each
// concern registers its providers through a XxxPackage function so the
// binaries compose only what they need.
package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/paygate-demo-go/internal/analytics"
	analyticsstore "github.com/serroba/paygate-demo-go/internal/analytics/store"
	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/chat"
	"github.com/serroba/paygate-demo-go/internal/handlers"
	"github.com/serroba/paygate-demo-go/internal/health"
	"github.com/serroba/paygate-demo-go/internal/messaging"
	appmiddleware "github.com/serroba/paygate-demo-go/internal/middleware"
	"github.com/serroba/paygate-demo-go/internal/payment"
	"github.com/serroba/paygate-demo-go/internal/ratelimit"
	"github.com/serroba/paygate-demo-go/internal/shortlink"
	"github.com/serroba/paygate-demo-go/internal/store"
	"go.uber.org/zap"
)

// Options holds all process configuration, populated by humacli from flags
// and environment.
type Options struct {
	Port           int    `default:"8888"                    help:"Port to listen on"                                short:"p"`
	RedisAddr      string `default:"localhost:6379"          help:"Redis server address"                             short:"r"`
	LinkStore      string `default:"memory"                  enum:"memory,redis,postgres"                            help:"Link store backend"`
	PostgresDSN    string `help:"PostgreSQL connection string (required for the postgres link store)"                name:"postgres-dsn"`
	FacilitatorURL string `default:"https://x402.org/facilitator" help:"Payment facilitator base URL"                name:"facilitator-url"`
	PayTo          string `help:"Recipient wallet address"                                                           name:"pay-to"`
	Network        string `default:"base-sepolia"            help:"Payment network identifier"`
	PublicAppURL   string `help:"Externally reachable base URL override (for tunnels/proxies)"                       name:"public-app-url"`
	GeminiAPIKey   string `help:"Generative Language API key (empty = canned replies)"                               name:"gemini-api-key"`
	GeminiModel    string `default:"gemini-2.5-flash-lite"   help:"Completion model"                                 name:"gemini-model"`
	LogFormat      string `default:"console"                 enum:"console,json"                                     help:"Log output format"`
}

// LoggerPackage provides the zap logger.
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

// PostgresPackage provides the pgx pool. The provider is lazy: the pool is
// only opened when the postgres link store is selected.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres link store selected but no DSN configured")
		}

		return pgxpool.New(context.Background(), options.PostgresDSN)
	})
}

// LinkStorePackage provides the link repository and the short-link service.
func LinkStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortlink.Repository, error) {
		options := do.MustInvoke[*Options](i)

		switch options.LinkStore {
		case "redis":
			return store.NewRedisStore(do.MustInvoke[*redis.Client](i)), nil
		case "postgres":
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}

			return store.NewPostgresStore(pool), nil
		default:
			return store.NewMemoryStore(), nil
		}
	})

	do.Provide(injector, func(i *do.Injector) (*shortlink.Service, error) {
		repo := do.MustInvoke[shortlink.Repository](i)

		gen, err := shortlink.NewGenerator(shortlink.DefaultCodeLength)
		if err != nil {
			return nil, err
		}

		fallback, err := shortlink.NewGenerator(shortlink.FallbackCodeLength)
		if err != nil {
			return nil, err
		}

		return shortlink.NewService(repo, gen, fallback), nil
	})
}

// PaymentPackage provides the app-URL resolver, the facilitator verifier,
// and the payment gate.
func PaymentPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*appurl.Resolver, error) {
		options := do.MustInvoke[*Options](i)

		return appurl.NewResolver(options.PublicAppURL), nil
	})

	do.Provide(injector, func(i *do.Injector) (payment.Verifier, error) {
		options := do.MustInvoke[*Options](i)

		return payment.NewFacilitatorVerifier(options.FacilitatorURL, options.PayTo, options.Network), nil
	})

	do.Provide(injector, func(i *do.Injector) (*payment.Gate, error) {
		verifier := do.MustInvoke[payment.Verifier](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return payment.NewGate(verifier, handlers.DefaultRoutes(), logger), nil
	})
}

// CompleterPackage provides the text-completion backend.
func CompleterPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (chat.Completer, error) {
		options := do.MustInvoke[*Options](i)

		if options.GeminiAPIKey == "" {
			return &chat.StaticCompleter{Reply: "This is a canned reply; configure an API key for real completions."}, nil
		}

		return chat.NewGeminiCompleter("", options.GeminiAPIKey, options.GeminiModel), nil
	})
}

// RateLimitPackage provides the rate limit store.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})
}

// PublisherGroupPackage provides the analytics event publisher.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group used by the
// consumer binary.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		return analyticsstore.NewZapLog(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		eventStore := do.MustInvoke[analytics.Store](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)

		group.Add(messaging.NewConsumer(subscriber, analytics.TopicChatMessage,
			eventStore.SaveChatMessage, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicCreditsGranted,
			eventStore.SaveCreditsGranted, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated,
			eventStore.SaveLinkCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkAccessed,
			eventStore.SaveLinkAccessed, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with all middleware and
// routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		gate := do.MustInvoke[*payment.Gate](i)
		resolver := do.MustInvoke[*appurl.Resolver](i)
		limitStore := do.MustInvoke[ratelimit.Store](i)
		linkService := do.MustInvoke[*shortlink.Service](i)
		completer := do.MustInvoke[chat.Completer](i)
		redisClient := do.MustInvoke[*redis.Client](i)
		publisherGroup := do.MustInvoke[*messaging.PublisherGroup](i)
		options := do.MustInvoke[*Options](i)

		api := humachi.New(router, huma.DefaultConfig("Paygate Demo", "1.0.0"))

		api.UseMiddleware(
			appmiddleware.RequestMeta(api),
			appmiddleware.RateLimiter(api, limitStore, logger),
			appmiddleware.Paywall(api, gate, resolver, logger),
		)

		publisher := publisherGroup.Publisher()

		chatHandler := handlers.NewChatHandler(
			gate,
			completer,
			resolver,
			messaging.NewPublishFunc[analytics.ChatMessageEvent](publisher, analytics.TopicChatMessage),
			messaging.NewPublishFunc[analytics.CreditsGrantedEvent](publisher, analytics.TopicCreditsGranted),
			logger,
		)

		creditsHandler := handlers.NewCreditsHandler(
			gate,
			resolver,
			messaging.NewPublishFunc[analytics.CreditsGrantedEvent](publisher, analytics.TopicCreditsGranted),
			logger,
		)

		linkHandler := handlers.NewLinkHandler(
			linkService,
			resolver,
			messaging.NewPublishFunc[analytics.LinkCreatedEvent](publisher, analytics.TopicLinkCreated),
			messaging.NewPublishFunc[analytics.LinkAccessedEvent](publisher, analytics.TopicLinkAccessed),
			logger,
		)

		handlers.RegisterRoutes(api, chatHandler, creditsHandler, linkHandler)

		checkers := map[string]health.Checker{
			"redis": health.NewRedisChecker(redisClient),
		}

		if options.LinkStore == "postgres" {
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}

			checkers["postgres"] = health.NewPostgresChecker(pool)
		}

		health.RegisterRoutes(api, health.NewHandler(checkers))

		return api, nil
	})
}
