package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/custom-tee/config"
	"github.com/niksmo/custom-tee/internal/adapter"
	"github.com/niksmo/custom-tee/internal/adapter/catalog"
	"github.com/niksmo/custom-tee/internal/adapter/httphandler"
	"github.com/niksmo/custom-tee/internal/adapter/imageproc"
	"github.com/niksmo/custom-tee/internal/adapter/kafka"
	"github.com/niksmo/custom-tee/internal/adapter/payment"
	"github.com/niksmo/custom-tee/internal/adapter/storage"
	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/niksmo/custom-tee/internal/core/service"
	"github.com/niksmo/custom-tee/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type serdes struct {
	order      schema.Serde
	subscriber schema.Serde
}

type producers struct {
	orders      *kafka.OrdersProducer
	subscribers *kafka.SubscribersEmitter
}

type stores struct {
	kv             port.KVStorage
	persister      port.Persister
	cart           *service.CartStore
	preferences    *service.PreferenceStore
	recentlyViewed *service.RecentlyViewed
	customizations *service.Log[domain.SavedCustomization]
	orders         *service.Log[domain.Order]
	subscribers    *service.Log[domain.Subscriber]
	messages       *service.Log[domain.ContactMessage]
}

type coreService struct {
	catalog    service.CatalogService
	customizer *service.CustomizationSession
	checkout   *service.Checkout
	newsletter *service.Newsletter
	contact    *service.ContactDesk
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsConfig  *tls.Config
	serdes     serdes
	producers  producers
	stores     stores
	images     imageproc.Processor
	service    coreService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initStores()
	if cfg.Broker.Enabled {
		app.initTLS()
		app.initSerdes()
		app.initProducers()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	cfg := app.cfg.Storage
	switch cfg.Driver {
	case config.DriverMemory:
		app.stores.kv = storage.NewMemoryStorage()
	case config.DriverLevelDB:
		kv, err := storage.NewLevelDBStorage(cfg.Path)
		if err != nil {
			app.fallDown(op, err)
		}
		app.stores.kv = kv
	case config.DriverPostgres:
		db, err := storage.NewSQLDB(app.ctx, cfg.DSN)
		if err != nil {
			app.fallDown(op, err)
		}
		app.stores.kv = storage.NewSQLStorage(db)
	default:
		app.fallDown(op, fmt.Errorf("unknown storage driver %q", cfg.Driver))
	}

	persister, err := storage.NewPersister(
		app.stores.kv,
		storage.NamespaceOpt(cfg.Namespace),
		storage.SaveAttemptsOpt(cfg.SaveAttempts),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.stores.persister = persister
}

func (app *App) initStores() {
	ctx := app.ctx
	p := app.stores.persister
	h := app.cfg.History

	app.stores.cart = service.NewCartStore(ctx, p)
	app.stores.preferences = service.NewPreferenceStore(ctx, p)
	app.stores.recentlyViewed = service.NewRecentlyViewed(ctx, p)
	app.stores.customizations = service.NewLog[domain.SavedCustomization](
		ctx, p, port.SavedCustomizationsRecord, h.CustomizationsCap,
	)
	app.stores.orders = service.NewLog[domain.Order](
		ctx, p, port.OrdersRecord, h.OrdersCap,
	)
	app.stores.subscribers = service.NewLog[domain.Subscriber](
		ctx, p, port.SubscribersRecord, h.SubscribersCap,
	)
	app.stores.messages = service.NewLog[domain.ContactMessage](
		ctx, p, port.ContactMessagesRecord, h.MessagesCap,
	)
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	files := app.cfg.Broker.TLS
	if !files.Enabled() {
		return
	}

	tlsConfig, err := adapter.MakeTLSConfig(files.CA, files.Cert, files.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tlsConfig = tlsConfig
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx
	topics := app.cfg.Broker.Topics

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	identifier := schema.NewRegistryIdentifier(srClient)

	orderSerde, err := schema.NewSerdeOrderV1(
		ctx,
		schema.SubjectOpt(schema.ValueSubject(topics.Orders)),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	subscriberSerde, err := schema.NewSerdeSubscriberV1(
		ctx,
		schema.SubjectOpt(schema.ValueSubject(topics.Subscribers)),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.order = orderSerde
	app.serdes.subscriber = subscriberSerde
}

func (app *App) initProducers() {
	const op = "App.initProducers"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.Orders, app.tlsConfig),
		kafka.ProducerEncoderOpt(app.serdes.order),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	subscribersEmitter, err := kafka.NewSubscribersEmitter(
		kafka.SubscribersEmitterConfig{
			SeedBrokers: seedBrokers,
			Topic:       topics.Subscribers,
			Serde:       app.serdes.subscriber,
			TLSConfig:   app.tlsConfig,
		},
	)
	if err != nil {
		ordersProducer.Close()
		app.fallDown(op, err)
	}

	app.producers.orders = &ordersProducer
	app.producers.subscribers = &subscribersEmitter
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	products, err := catalog.NewStatic()
	if err != nil {
		app.fallDown(op, err)
	}

	var (
		orderPublisher    port.OrderPublisher
		subscriberEmitter port.SubscriberEmitter
	)
	if app.producers.orders != nil {
		orderPublisher = app.producers.orders
	}
	if app.producers.subscribers != nil {
		subscriberEmitter = app.producers.subscribers
	}

	gateway := payment.NewSimulated(
		app.cfg.Checkout.Latency, app.cfg.Checkout.FailEvery,
	)

	app.service.catalog = service.NewCatalogService(
		products, app.stores.recentlyViewed,
	)
	app.service.customizer = service.NewCustomizationSession(
		app.stores.cart,
		service.SessionPreferencesOpt(app.stores.preferences),
		service.SessionHistoryOpt(app.stores.customizations),
		service.SessionAddDelayOpt(app.cfg.Customizer.AddDelay),
	)
	app.service.checkout = service.NewCheckout(
		app.stores.cart, app.stores.orders, gateway, orderPublisher,
	)
	app.service.newsletter = service.NewNewsletter(
		app.stores.subscribers, subscriberEmitter,
	)
	app.service.contact = service.NewContactDesk(
		app.stores.messages, app.cfg.Contact.SendDelay,
	)

	imgs := app.cfg.Images
	app.images = imageproc.New(
		imgs.MaxWidth, imgs.MaxHeight, imgs.Quality, imgs.MaxBytes,
		imgs.MaxPixels,
	)
}

func (app *App) initInboundAdapters() {
	api := http.NewServeMux()
	httphandler.RegisterCart(api, app.stores.cart)
	httphandler.RegisterPreferences(api, app.stores.preferences)
	httphandler.RegisterShop(api, app.service.catalog)
	httphandler.RegisterCustomizer(
		api, app.service.customizer, app.stores.customizations,
	)
	httphandler.RegisterCheckout(api, app.service.checkout, app.stores.orders)
	httphandler.RegisterNewsletter(api, app.service.newsletter)
	httphandler.RegisterContact(api, app.service.contact)

	uploads := http.NewServeMux()
	httphandler.RegisterDesigns(
		uploads, app.images, int64(app.cfg.Images.MaxBytes),
	)

	mux := http.NewServeMux()
	mux.Handle("/v1/designs", httphandler.AllowMediaTypes(
		uploads, "multipart/form-data",
	))
	mux.Handle("/", httphandler.AllowJSON(api))

	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, mux, app.cfg.HTTPHandlerTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.checkout.Close()
	if app.producers.orders != nil {
		app.producers.orders.Close()
	}
	if app.producers.subscribers != nil {
		app.producers.subscribers.Close()
	}
	app.stores.kv.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
