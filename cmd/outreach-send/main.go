// Command outreach-send delivers one lead's draft directly through a channel
// dispatcher, bypassing the queue. Useful to check SMTP, WhatsApp or Kommo
// credentials.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/catalog"
	"github.com/xavierca1/lead-insights/internal/config"
	"github.com/xavierca1/lead-insights/internal/entity"
	"github.com/xavierca1/lead-insights/internal/infra/integration/kommo"
	"github.com/xavierca1/lead-insights/internal/infra/integration/whatsapp"
	"github.com/xavierca1/lead-insights/internal/infra/logging"
	"github.com/xavierca1/lead-insights/internal/infra/mail"
	"github.com/xavierca1/lead-insights/internal/infra/queue"
	"github.com/xavierca1/lead-insights/internal/usecase"
)

func main() {
	leadID := flag.String("lead", "", "lead id from the catalog")
	channel := flag.String("channel", "", "email, phone, whatsapp or sms (default: lead's preferred channel)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}

	if *leadID == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := send(cfg, log, *leadID, *channel); err != nil {
		log.WithError(err).Fatal("outreach not sent")
	}
}

// send delivers the lead's draft once.
func send(cfg *config.Config, log *logrus.Logger, leadID, requested string) error {
	cat, err := catalog.Default()
	if cfg.SeedFile != "" {
		cat, err = catalog.LoadFile(cfg.SeedFile)
	}
	if err != nil {
		return err
	}

	lead, ok := entity.FindLead(cat.Leads, leadID)
	if !ok {
		return fmt.Errorf("lead %s not found", leadID)
	}

	d, channel, err := dispatcherFor(cfg, log, lead, requested)
	if err != nil {
		return err
	}

	subject := ""
	if channel == entity.ChannelEmail {
		subject = fmt.Sprintf("Your %s enrollment", lead.CourseInterestedIn)
	}
	o, err := entity.NewOutreach(lead, channel, subject, lead.DraftContent)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := d.Dispatch(ctx, entity.NewOutreachPayload(o, lead)); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"lead_id":   lead.ID,
		"channel":   channel,
		"recipient": o.Recipient,
	}).Info("outreach sent")
	return nil
}

// dispatcherFor resolves the channel the same way the API does and picks
// its dispatcher. An explicit unknown channel is an error.
func dispatcherFor(cfg *config.Config, log logrus.FieldLogger, lead entity.Lead, requested string) (queue.Dispatcher, entity.Channel, error) {
	if requested != "" && !entity.Channel(requested).Valid() {
		return nil, "", fmt.Errorf("unknown channel %q", requested)
	}

	channel := usecase.ResolveChannel(requested, lead)
	switch channel {
	case entity.ChannelWhatsApp:
		return whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, "", log), channel, nil
	case entity.ChannelPhone, entity.ChannelSMS:
		return kommo.NewClient(cfg.KommoAPIToken, cfg.KommoBaseURL, log), channel, nil
	default:
		return mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom), channel, nil
	}
}
