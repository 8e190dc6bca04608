// services/closing_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/models"
	"stylemanager-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"

	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Notifier delivers a text message on a channel.
type Notifier interface {
	Send(channel, to, body string) error
}

type TwilioNotifier struct {
	client       *twilio.RestClient
	phoneFrom    string
	whatsappFrom string
}

// NewNotifier returns a Twilio notifier, or nil when Twilio is not configured.
func NewNotifier(cfg config.TwilioConfig) Notifier {
	if !cfg.Enabled() {
		return nil
	}
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		phoneFrom:    cfg.PhoneNumber,
		whatsappFrom: cfg.WhatsAppNumber,
	}
}

func (n *TwilioNotifier) Send(channel, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if channel == ChannelWhatsApp {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + n.whatsappFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(n.phoneFrom)
	}

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", to, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", to)
	}
	return nil
}

// channelFor picks WhatsApp for E.164 numbers and SMS otherwise.
func channelFor(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return ChannelWhatsApp
	}
	return ChannelSMS
}

// ClosingService records the end-of-day totals and tells the owner.
type ClosingService struct {
	db         *gorm.DB
	reports    *ReportService
	notifier   Notifier
	ownerPhone string
	loc        *time.Location
}

func NewClosingService(db *gorm.DB, notifier Notifier, ownerPhone string, loc *time.Location) *ClosingService {
	if loc == nil {
		loc = time.UTC
	}
	phone := utils.NormalizePhone(ownerPhone)
	if phone != "" && !utils.ValidatePhone(phone) {
		log.Printf("OWNER_PHONE %q is not a valid international number, closing notifications disabled", ownerPhone)
		phone = ""
	}
	return &ClosingService{
		db:         db,
		reports:    NewReportService(db),
		notifier:   notifier,
		ownerPhone: phone,
		loc:        loc,
	}
}

// StartScheduler closes the current day on spec, in the salon time zone.
func (s *ClosingService) StartScheduler(spec string) (*cron.Cron, error) {
	c, err := utils.StartScheduler(spec, s.loc, func() {
		if _, err := s.CloseDay(context.Background(), time.Now()); err != nil {
			log.Printf("Daily closing failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Closing scheduler started (%s, %s)", spec, s.loc)
	return c, nil
}

// CloseDay aggregates the transactions of day and stores the snapshot,
// replacing an earlier closing of the same day.
func (s *ClosingService) CloseDay(ctx context.Context, day time.Time) (*models.DailyClosing, error) {
	day = day.In(s.loc)
	key := utils.DayKey(day, s.loc)
	log.Printf("Closing day %s...", key)

	txs, err := s.reports.List(ctx, DayFilter(day))
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	totals := Totals(txs)

	var closing models.DailyClosing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("day = ?", key).First(&closing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		closing.Day = key
		closing.Count = totals.Count
		closing.Revenue = totals.Revenue
		closing.Payout = totals.Payout
		closing.Company = totals.Company
		closing.ClosedAt = time.Now().UTC()
		return tx.Save(&closing).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save closing: %w", err)
	}

	s.notify(ctx, &closing)
	log.Printf("Day %s closed: %d transactions", key, closing.Count)
	return &closing, nil
}

func closingMessage(c *models.DailyClosing) string {
	day, err := time.Parse(utils.DayLayout, c.Day)
	label := c.Day
	if err == nil {
		label = day.Format(utils.BRDateLayout)
	}
	return fmt.Sprintf("Fechamento %s: %d atendimentos. Receita %s, comissões %s, salão %s.",
		label, c.Count,
		utils.FormatCurrency(c.Revenue),
		utils.FormatCurrency(c.Payout),
		utils.FormatCurrency(c.Company))
}

func (s *ClosingService) notify(ctx context.Context, c *models.DailyClosing) {
	if s.notifier == nil || s.ownerPhone == "" {
		return
	}

	channel := channelFor(s.ownerPhone)
	message := closingMessage(c)
	status := StatusSent
	errorMsg := ""
	if err := s.notifier.Send(channel, s.ownerPhone, message); err != nil {
		log.Printf("Failed to send closing of %s to %s: %v", c.Day, s.ownerPhone, err)
		status = StatusFailed
		errorMsg = err.Error()
	}

	entry := models.NotificationLog{
		ClosingID:    c.ID,
		Channel:      channel,
		To:           s.ownerPhone,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("Failed to log notification for closing %s: %v", c.ID, err)
	}
}

// List returns the most recent closings first.
func (s *ClosingService) List(ctx context.Context, limit int) ([]models.DailyClosing, error) {
	if limit <= 0 {
		limit = 30
	}
	var closings []models.DailyClosing
	err := s.db.WithContext(ctx).Order("day DESC").Limit(limit).Find(&closings).Error
	return closings, err
}
