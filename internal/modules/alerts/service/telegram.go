package service

import (
	"context"
	"fmt"
	"strings"

	"status_engine/internal/models"
	"status_engine/internal/modules/config"
	"status_engine/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StatusReader answers the /status command from the cached state.
type StatusReader interface {
	InstanceByID(ctx context.Context, id string) (*models.Instance, error)
}

// Telegram delivers transition alerts to the owner's chat and serves a
// single /status command.
type Telegram struct {
	bot    *tgbot.BotAPI
	cfg    *config.Config
	status StatusReader
}

func NewTelegram(cfg *config.Config, status StatusReader) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:    b,
		cfg:    cfg,
		status: status,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, a *models.Alert) error {
	msg := fmt.Sprintf("⚠️ %s\n%s\ninstance: %s", a.Type, a.Message, a.InstanceID)
	for _, chatID := range recipients(a, t.cfg.Telegram.AdminChatID) {
		if _, err := t.bot.Send(tgbot.NewMessage(chatID, msg)); err != nil {
			return err
		}
	}
	return nil
}

// recipients: the owner's chat, plus the admin chat when one is
// configured and it is not the owner already.
func recipients(a *models.Alert, adminChatID int64) []int64 {
	ids := []int64{a.UserID}
	if adminChatID != 0 && adminChatID != a.UserID {
		ids = append(ids, adminChatID)
	}
	return ids
}

// Start: long-polling for the /status command.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "status":
					go t.handleStatus(ctx, upd.Message.Chat.ID, upd.Message.CommandArguments())
				}
			}
		}
	}()
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}

func (t *Telegram) handleStatus(ctx context.Context, chatID int64, args string) {
	id := strings.TrimSpace(args)
	if id == "" {
		t.reply(chatID, "usage: /status <instance-id>")
		return
	}

	inst, err := t.status.InstanceByID(ctx, id)
	if err != nil {
		t.reply(chatID, fmt.Sprintf("❗️ %v", err))
		return
	}
	if inst.UserID != chatID {
		// only the owner gets to see the status
		t.reply(chatID, "unknown instance")
		return
	}

	updated := "never"
	if inst.StrategyStatusUpdatedAt != nil {
		updated = inst.StrategyStatusUpdatedAt.Format("2006-01-02 15:04:05 MST")
	}
	t.reply(chatID, fmt.Sprintf("📊 %s\nstatus: %s\nupdated: %s",
		inst.EAName, inst.StrategyStatus, updated))
}

func (t *Telegram) reply(chatID int64, msg string) {
	if _, err := t.bot.Send(tgbot.NewMessage(chatID, msg)); err != nil {
		logger.Error("telegram reply failed: %v", err)
	}
}
