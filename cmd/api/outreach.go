package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/catalog"
	"github.com/xavierca1/lead-insights/internal/config"
	"github.com/xavierca1/lead-insights/internal/entity"
	"github.com/xavierca1/lead-insights/internal/infra/database"
	"github.com/xavierca1/lead-insights/internal/infra/http/handlers"
	"github.com/xavierca1/lead-insights/internal/infra/integration/kommo"
	"github.com/xavierca1/lead-insights/internal/infra/integration/whatsapp"
	"github.com/xavierca1/lead-insights/internal/infra/mail"
	"github.com/xavierca1/lead-insights/internal/infra/queue"
	"github.com/xavierca1/lead-insights/internal/infra/worker"
	"github.com/xavierca1/lead-insights/internal/usecase"
)

// outreachPipeline holds the Postgres and RabbitMQ resources behind
// POST /leads/{id}/outreach. Both stay nil when not configured.
type outreachPipeline struct {
	db       *sql.DB
	mq       *queue.RabbitMQ
	repo     *database.OutreachRepository
	producer *queue.RabbitMQProducer
}

func startOutreach(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*outreachPipeline, error) {
	p := &outreachPipeline{}
	if !cfg.OutreachEnabled() {
		log.Warn("DATABASE_URL or RABBITMQ_URL not set, outreach delivery disabled")
		return p, nil
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	p.db = db
	if err := database.EnsureSchema(ctx, db); err != nil {
		p.Close()
		return nil, err
	}
	log.WithField("database", config.MaskURL(cfg.DatabaseURL)).Info("database ready")

	mq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.mq = mq
	log.WithField("rabbitmq", config.MaskURL(cfg.RabbitMQURL)).Info("rabbitmq ready")

	p.repo = database.NewOutreachRepository(db)
	p.producer = queue.NewProducer(mq.Ch)

	kommoClient := kommo.NewClient(cfg.KommoAPIToken, cfg.KommoBaseURL, log.WithField("integration", "kommo"))
	dispatchers := map[entity.Channel]queue.Dispatcher{
		entity.ChannelEmail:    mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom),
		entity.ChannelWhatsApp: whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, "", log.WithField("integration", "whatsapp")),
		entity.ChannelPhone:    kommoClient,
		entity.ChannelSMS:      kommoClient,
	}

	w := queue.NewWorker(mq.Ch, dispatchers, p.repo, log.WithField("component", "outreach_worker"))
	go func() {
		if err := w.Start(ctx, queue.QueueName); err != nil {
			log.WithError(err).Error("outreach worker stopped")
		}
	}()

	stale := worker.NewStaleOutreachWorker(p.repo, cfg.OutreachStaleAfter, log.WithField("component", "stale_outreach_worker"))
	go stale.Start(ctx)

	return p, nil
}

// UseCases returns the outreach use cases. They answer OUTREACH_UNAVAILABLE
// when the pipeline is disabled.
func (p *outreachPipeline) UseCases(store *catalog.Store, log logrus.FieldLogger) (*usecase.SendOutreachUseCase, *usecase.OutreachHistoryUseCase) {
	if p.repo == nil || p.producer == nil {
		return usecase.NewSendOutreachUseCase(store, nil, nil, log), usecase.NewOutreachHistoryUseCase(store, nil)
	}
	return usecase.NewSendOutreachUseCase(store, p.repo, p.producer, log), usecase.NewOutreachHistoryUseCase(store, p.repo)
}

func (p *outreachPipeline) Pinger() handlers.Pinger {
	if p.db == nil {
		return nil
	}
	return p.db
}

func (p *outreachPipeline) Connection() handlers.ConnectionState {
	if p.mq == nil {
		return nil
	}
	return p.mq.Conn
}

func (p *outreachPipeline) Close() error {
	var errs []error
	if p.mq != nil {
		errs = append(errs, p.mq.Close())
	}
	if p.db != nil {
		errs = append(errs, p.db.Close())
	}
	return errors.Join(errs...)
}
