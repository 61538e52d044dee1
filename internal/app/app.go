package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/database"
	"github.com/jeffleon2/draftea-topup/internal/handlers"
	"github.com/jeffleon2/draftea-topup/internal/metrics"
	"github.com/jeffleon2/draftea-topup/internal/publisher"
	"github.com/jeffleon2/draftea-topup/internal/repository/memory"
	"github.com/jeffleon2/draftea-topup/internal/repository/posgrest"
	"github.com/jeffleon2/draftea-topup/internal/service"
	"github.com/sirupsen/logrus"
)

// App is the reference ledger: the HTTP side of the check/book protocol.
type App struct {
	config *config.Config
	Router *gin.Engine
}

func (a *App) Initialize(cfg *config.Config) {
	a.config = cfg
	ConfigureLogging(cfg.APP.LogLevel)

	store := a.initStore()

	var pub service.Publisher = publisher.LogPublisher{}
	if cfg.Kafka.Enabled {
		publishTopics := strings.Split(cfg.Kafka.PublishTopics, ",")
		pub = publisher.NewKafkaPublisher(strings.Split(cfg.Kafka.Brokers, ","), publishTopics, cfg.GetRetryConfig())
	}

	ledgerService := service.NewLedgerService(store, pub, cfg.Ledger)
	topUpHandler := handlers.NewTopUpHandler(ledgerService)

	metrics.RegisterLedgerMetrics()
	a.Router = gin.Default()
	a.Router.Use(gin.Recovery())
	a.RegisterRoutes(topUpHandler)
}

func (a *App) initStore() service.TopUpStore {
	switch a.config.Ledger.Store {
	case "memory":
		store := memory.New()
		database.SeedMemory(store)
		logrus.Warn("using in-memory ledger store, bookings are lost on restart")
		return store
	case "postgres":
		db, err := a.config.DB.GormConnect()
		if err != nil {
			logrus.Fatalf("failed to connect to database: %v", err)
		}
		store := posgrest.NewTopUpStore(db)
		if err := store.Migrate(); err != nil {
			logrus.Fatalf("failed to auto migrate: %v", err)
		}
		if os.Getenv("GO_ENV") == "local" {
			if err := database.SeedLedger(db); err != nil {
				logrus.Fatalf("failed to seed ledger: %v", err)
			}
		}
		return store
	default:
		logrus.Fatalf("unknown ledger store %q", a.config.Ledger.Store)
		return nil
	}
}

func (a *App) Run() {
	err := a.Router.Run(fmt.Sprintf(":%s", a.config.APP.PORT))
	if err != nil {
		panic(err)
	}
}

// ConfigureLogging sets the logrus level, falling back to info.
func ConfigureLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
