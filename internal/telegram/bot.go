package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"recipebox/internal/app"
	"recipebox/internal/config"
	"recipebox/internal/metrics"
	"recipebox/internal/planner"
	"recipebox/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the application operations.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, metricsStore *metrics.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		app:          application,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch {
	case msg.Text == "/metrics":
		b.handleMetricsRequest(msg)
	case msg.Text == "/plan":
		b.handlePlanRequest(msg)
	case msg.Text == "/shopping":
		b.handleShoppingRequest(msg)
	case strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://"):
		b.handleClipperRequest(msg)
	default:
		help := "Send /plan for this week's meals, /shopping for the shopping list, or paste a recipe URL to save it."
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, help))
	}
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	plan := b.app.EnsureWeeklyPlan(ctx, userID)
	if plan == nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ No meal plan available right now."))
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, formatPlanMarkdown(plan))
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func (b *Bot) handleShoppingRequest(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	entries := b.app.ShoppingList(ctx, userID)
	if len(entries) == 0 {
		entries = b.app.BuildShoppingList(ctx, userID)
	}
	if len(entries) == 0 {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "🛒 Your shopping list is empty."))
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, formatShoppingMarkdown(entries))
	reply.ParseMode = "Markdown"
	keyboard := shoppingKeyboard(entries)
	reply.ReplyMarkup = &keyboard
	b.api.Send(reply)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", query.From.ID)

	parts := strings.SplitN(query.Data, "|", 2)
	if len(parts) != 2 || parts[0] != "toggle" {
		return
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	// The keyboard indexes into the persisted list, which keeps a stable
	// name-sorted order.
	stored := b.app.ShoppingList(ctx, userID)
	if idx < 0 || idx >= len(stored) {
		return
	}
	b.app.ToggleEntryPurchased(ctx, userID, stored[idx].Name, !stored[idx].Purchased)

	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	entries := b.app.ShoppingList(ctx, userID)
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, formatShoppingMarkdown(entries))
	edit.ParseMode = "Markdown"
	keyboard := shoppingKeyboard(entries)
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Clipping recipe...*"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	rec := b.app.ClipRecipe(ctx, userID, msg.Text)
	var finalText string
	if rec == nil {
		finalText = "❌ *Could not extract a recipe from that page.*"
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Ingredients:* %d", rec.Title, len(rec.Ingredients))
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}

	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func formatPlanMarkdown(plan *planner.WeeklyPlan) string {
	var sb strings.Builder
	sb.WriteString("📅 *Weekly Meal Plan*\n\n")

	for i, dayName := range planner.Weekdays {
		day := plan.Days[i]
		sb.WriteString(fmt.Sprintf("*%s*\n", dayName))
		sb.WriteString(fmt.Sprintf("  🌅 %s\n", day.Breakfast.Title))
		sb.WriteString(fmt.Sprintf("  🌞 %s\n", day.Lunch.Title))
		sb.WriteString(fmt.Sprintf("  🌙 %s\n\n", day.Dinner.Title))
	}

	return sb.String()
}

func formatShoppingMarkdown(entries []shopping.Entry) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	for _, e := range entries {
		mark := "◻️"
		if e.Purchased {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s", mark, e.Name))
		if len(e.Measures) > 0 {
			var measures []string
			for _, m := range e.Measures {
				measures = append(measures, fmt.Sprintf("%g %s", m.Quantity, m.Unit))
			}
			sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(measures, " + ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// shoppingKeyboard builds one toggle button per entry. Callback data is
// limited to 64 bytes, so buttons carry the entry's index in the persisted
// list rather than its name.
func shoppingKeyboard(entries []shopping.Entry) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, e := range entries {
		data := fmt.Sprintf("toggle|%d", i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(e.Name, data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
