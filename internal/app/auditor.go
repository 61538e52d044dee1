package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/handlers"
	"github.com/jeffleon2/draftea-topup/internal/metrics"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/publisher"
	"github.com/jeffleon2/draftea-topup/internal/subscriber"
	"github.com/sirupsen/logrus"
)

// AuditorApp consumes booked top-up events and exposes them as metrics.
type AuditorApp struct {
	config *config.Config
	Router *gin.Engine
	cancel context.CancelFunc
}

func (a *AuditorApp) Initialize(cfg *config.Config) {
	a.config = cfg
	ConfigureLogging(cfg.APP.LogLevel)

	metrics.RegisterAuditorMetrics()
	auditHandler := handlers.NewAuditHandler()
	a.Router = gin.Default()
	a.Router.Use(gin.Recovery())
	registerOps(a.Router)
	a.initSubscribers(auditHandler)
}

func (a *AuditorApp) initSubscribers(auditHandler *handlers.AuditHandler) {
	brokers := strings.Split(a.config.Kafka.Brokers, ",")
	topics := strings.Split(a.config.Kafka.SubscriberTopics, ",")
	groupID := a.config.Kafka.AuditorConsumerGroup

	dlq := publisher.NewKafkaPublisher(brokers, []string{models.TopUpDLQTopic}, a.config.GetRetryConfig())
	consumer := subscriber.NewMultiTopicConsumer(brokers, topics, groupID, dlq, a.config.GetRetryConfig())

	var ctx context.Context
	ctx, a.cancel = context.WithCancel(context.Background())
	go consumer.Listen(ctx, func(ctx context.Context, topic string, value []byte) error {
		logrus.Debugf("Received message topic=%s value=%s", topic, string(value))
		return auditHandler.HandleEvents(ctx, topic, value)
	})
}

func (a *AuditorApp) Run() {
	defer a.cancel()
	err := a.Router.Run(fmt.Sprintf(":%s", a.config.APP.PORT))
	if err != nil {
		panic(err)
	}
}
