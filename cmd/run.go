package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/luckystake/pool-engine/application"
	"github.com/luckystake/pool-engine/cmd/httpserver"
	"github.com/luckystake/pool-engine/config"
	"github.com/luckystake/pool-engine/database"
	domain "github.com/luckystake/pool-engine/domain"
	"github.com/luckystake/pool-engine/events"
	"github.com/luckystake/pool-engine/infrastructure"
	"github.com/luckystake/pool-engine/infrastructure/lenderadapter"
	"github.com/luckystake/pool-engine/infrastructure/tokengateway"
	"github.com/luckystake/pool-engine/infrastructure/vrf"
	"github.com/luckystake/pool-engine/infrastructure/wshub"
)

// Run initializes and starts the pool engine.
func Run(ctx context.Context) error {
	log.Info("starting pool engine...")

	cfg := config.Get()

	log.Info("connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsClient.Close()

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	eventSubscriber := infrastructure.NewNATSEventSubscriber(natsClient, subjectMapper)
	if err := application.RegisterApplicationSubscriptions(eventSubscriber); err != nil {
		return fmt.Errorf("failed to register application subscriptions: %w", err)
	}

	wsHub := wshub.NewHub()
	go wsHub.Run()
	if err := registerWSMirror(eventSubscriber, wsHub); err != nil {
		return fmt.Errorf("failed to register websocket mirror: %w", err)
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	tokenGateway := tokengateway.NewClient(cfg.TokenGatewayURL)
	lenderPool := lenderadapter.NewClient(cfg.LenderPoolURL)
	randomSource := vrf.NewRedisSequenceSource(rdb)

	appService := application.NewPoolAppService(uowFactory, tokenGateway, lenderPool, randomSource)

	server := httpserver.NewServer(appService, wsHub)
	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server error")
		}
	}()

	log.Infof("pool engine running in %s mode", cfg.Environment)
	<-ctx.Done()

	log.Info("shutting down pool engine...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down HTTP server")
	}

	log.Info("shutdown complete")
	return nil
}

// registerWSMirror subscribes the WebSocket hub to every event type the
// engine emits, so connected clients see deposits, withdrawals, and draws
// as they commit, independently of the application-level log subscriber.
func registerWSMirror(subscriber domain.EventSubscriber, hub *wshub.Hub) error {
	for _, eventType := range events.AllEventTypes() {
		if err := subscriber.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			hub.Broadcast(event)
			return nil
		}); err != nil {
			return fmt.Errorf("failed to subscribe websocket mirror to %s: %w", eventType, err)
		}
	}
	return nil
}
