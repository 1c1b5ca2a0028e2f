package bootstrap

import (
	"context"
	"time"

	"matchtrip-be/internal/config"
	"matchtrip-be/internal/controller"
	"matchtrip-be/internal/handler"
	"matchtrip-be/internal/pkg/fieldcrypt"
	"matchtrip-be/internal/pkg/idempotency"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/mailer"
	"matchtrip-be/internal/pkg/storage"
	"matchtrip-be/internal/repository/implementation"
	"matchtrip-be/internal/repository/unitofwork"
	"matchtrip-be/internal/service"
	"matchtrip-be/internal/websocket"
	"matchtrip-be/pkg/admin/cancellation"
	"matchtrip-be/pkg/admin/dashboard"
	"matchtrip-be/pkg/admin/user"
	"matchtrip-be/pkg/events"
	pktNats "matchtrip-be/pkg/nats"
	"matchtrip-be/pkg/notify"
	"matchtrip-be/pkg/paymentgateway"
	"matchtrip-be/pkg/refund"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger     logger.ILogger
	Middleware controller.Middleware

	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	TripController         controller.ITripController
	OfferController        controller.IOfferController
	PaymentController      controller.IPaymentController
	CancellationController controller.ICancellationController
	RefundPolicyController controller.IRefundPolicyController
	MessageController      controller.IMessageController
	ReviewController       controller.IReviewController
	AdminController        controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService service.INotificationService
	PolicyInvalidator   refund.Invalidator
	IdempotencyStore    *idempotency.Store

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	closers []func()
}

// NewContainer wires every dependency. Optional infrastructure (NATS, Redis,
// Kafka) degrades to a logged warning so the API still serves requests.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)

	cipher, err := fieldcrypt.New(cfg.Crypto.FieldKey)
	if err != nil {
		return nil, err
	}
	if cfg.Crypto.FieldKey == "" {
		sysLogger.Warn("BOOTSTRAP", "FIELD_ENCRYPTION_KEY not set, sensitive fields are stored in plaintext", nil)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db, cipher)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		return nil, err
	}
	maxUpload := int64(cfg.Storage.MaxUploadSizeMB) * 1024 * 1024

	c := &Container{Logger: sysLogger}

	// 2. Infrastructure
	// NATS
	var bus events.Bus
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, events will be dropped", map[string]interface{}{"error": err.Error()})
	} else {
		bus = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable, notification worker disabled", map[string]interface{}{"error": err.Error()})
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}
	publisher := events.NewPublisher(bus, sysLogger)

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	// nil keeps refund policy invalidation in process
	policyRdb := rdb
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Redis unreachable, realtime fan-out and policy invalidation are local only", map[string]interface{}{"error": err.Error()})
		policyRdb = nil
	}
	cancel()
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	// Kafka (alimtalk)
	var dispatcher notify.Dispatcher = notify.LogDispatcher{Logger: sysLogger}
	if cfg.Kafka.Enabled {
		kd, err := notify.NewKafkaDispatcher(notify.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.AlimtalkTopic,
		}, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Kafka unavailable, alimtalk messages are only logged", map[string]interface{}{"error": err.Error()})
		} else {
			dispatcher = kd
		}
	}
	c.closers = append(c.closers, func() { _ = dispatcher.Close() })

	// Idempotency
	var idemHandler = idempotency.Middleware(nil, sysLogger)
	idemStore, err := idempotency.Open(cfg.Idempotency.Path, cfg.Idempotency.TTL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Idempotency store unavailable, Idempotency-Key is ignored", map[string]interface{}{"error": err.Error()})
	} else {
		idemHandler = idempotency.Middleware(idemStore, sysLogger)
		c.IdempotencyStore = idemStore
		c.closers = append(c.closers, func() { _ = idemStore.Close() })
	}
	c.Middleware = controller.NewMiddleware(cfg.JWT.Secret, idemHandler)

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, wsLogger)
	c.WebSocketHub = wsHub

	// 3. Refund policy
	policyLoader := implementation.NewPolicyBandLoader(implementation.NewRefundPolicyRepository(db))
	policyProvider := refund.NewProvider(policyLoader, cfg.Refund.PolicyCacheTTL, sysLogger)
	c.PolicyInvalidator = refund.NewInvalidator(policyRdb, policyProvider, sysLogger)
	calculator := refund.NewCalculator(refund.WithExceptionReasons(cfg.Refund.ExceptionReasons...))

	// 4. Services
	gateway := paymentgateway.NewMidtrans(cfg.Midtrans.ServerKey, cfg.Midtrans.IsProduction, sysLogger)

	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermillLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	consumerService := service.NewConsumerService(pubSub, service.RefundTopic, uowFactory, gateway, publisher, sysLogger)
	c.ConsumerService = consumerService

	tokens := service.TokenConfig{Secret: cfg.JWT.Secret, TTL: cfg.JWT.TTL}
	authService := service.NewAuthService(uowFactory, emailService, tokens, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, cfg.OAuth, tokens, sysLogger)
	userService := service.NewUserService(uowFactory, store, maxUpload, sysLogger)
	tripService := service.NewTripService(uowFactory, store, maxUpload, sysLogger)
	offerService := service.NewOfferService(uowFactory, publisher, cfg.App.Currency, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, gateway, publisher, cfg.App.Currency, cfg.App.ClientURL, sysLogger)
	cancellationService := service.NewCancellationService(uowFactory, policyProvider, calculator, publisher, emailService, sysLogger)
	refundPolicyService := service.NewRefundPolicyService(uowFactory, policyProvider, c.PolicyInvalidator, calculator, publisher, sysLogger)
	messageService := service.NewMessageService(uowFactory, wsHub, publisher, sysLogger)
	reviewService := service.NewReviewService(uowFactory, sysLogger)

	// Admin Domain Components
	userManager := user.NewManager(sysLogger)
	cancellationProcessor := cancellation.NewProcessor(sysLogger, publisher, consumerService, cfg.App.Currency)
	dashboardAggregator := dashboard.NewAggregator(sysLogger)
	adminService := service.NewAdminService(uowFactory, sysLogger, userManager, cancellationProcessor, dashboardAggregator)

	// 5. Notification System
	var subscriber service.EventSubscriber
	if natsSub != nil {
		subscriber = natsSub
	}
	notifService := service.NewNotificationService(uowFactory, subscriber, wsHub, emailService, dispatcher, wsLogger)
	if subscriber != nil {
		c.NotificationService = notifService
	}
	c.NotificationHandler = handler.NewNotificationHandler(notifService, wsHub, cfg.JWT.Secret, wsLogger)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.OAuthController = controller.NewOAuthController(oauthService, cfg.App.ClientURL, sysLogger)
	c.UserController = controller.NewUserController(userService)
	c.TripController = controller.NewTripController(tripService)
	c.OfferController = controller.NewOfferController(offerService)
	c.PaymentController = controller.NewPaymentController(paymentService, sysLogger)
	c.CancellationController = controller.NewCancellationController(cancellationService)
	c.RefundPolicyController = controller.NewRefundPolicyController(refundPolicyService)
	c.MessageController = controller.NewMessageController(messageService)
	c.ReviewController = controller.NewReviewController(reviewService)
	c.AdminController = controller.NewAdminController(adminService, authService)

	return c, nil
}

// StartBackground runs the refund consumer, websocket hub, cache invalidation
// listener, idempotency purger and notification worker until ctx is done.
func (c *Container) StartBackground(ctx context.Context) {
	go c.WebSocketHub.Run(ctx)
	if l, ok := c.PolicyInvalidator.(*refund.RedisInvalidator); ok {
		go l.Listen(ctx)
	}
	if c.IdempotencyStore != nil {
		go c.IdempotencyStore.RunPurger(ctx, 0, c.Logger)
	}

	go func() {
		c.Logger.Info("BOOTSTRAP", "Starting refund consumer", nil)
		if err := c.ConsumerService.Consume(ctx); err != nil {
			c.Logger.Error("BOOTSTRAP", "Refund consumer stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	if c.NotificationService != nil {
		if err := c.NotificationService.Start(ctx); err != nil {
			c.Logger.Error("BOOTSTRAP", "Notification worker failed to start", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
