package handler

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/middleware"
	tg "github.com/rinkl-labs/rinkl-ai/internal/telegram"
)

func (h *Handler) handleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	if !middleware.Authenticated(ctx) {
		return
	}

	chatID := update.Message.Chat.ID
	h.sendSettingsMenu(ctx, b, chatID, false, 0)
}

func (h *Handler) sendSettingsMenu(ctx context.Context, b *bot.Bot, chatID int64, edit bool, messageID int) {
	settings := h.settings.Get(ctx, chatID)

	check := func(on bool) string {
		if on {
			return " ✅"
		}
		return ""
	}

	themeRow := tg.ButtonRow(
		tg.InlineButton(h.tr(ctx, chatID, keyThemeLight)+check(settings.Theme == domain.ThemeLight), "set_theme_light"),
		tg.InlineButton(h.tr(ctx, chatID, keyThemeDark)+check(settings.Theme == domain.ThemeDark), "set_theme_dark"),
		tg.InlineButton(h.tr(ctx, chatID, keyThemeAuto)+check(settings.Theme == domain.ThemeAuto), "set_theme_auto"),
	)

	// Stable button order regardless of map iteration
	langs := make([]domain.Language, 0, len(domain.SupportedLanguages))
	for lang := range domain.SupportedLanguages {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })

	var langRow []models.InlineKeyboardButton
	for _, lang := range langs {
		langRow = append(langRow, tg.InlineButton(
			domain.SupportedLanguages[lang]+check(settings.Language == lang),
			"set_lang_"+string(lang),
		))
	}

	text := h.tr(ctx, chatID, keySettings)
	keyboard := tg.InlineKeyboard(themeRow, langRow)

	if edit && messageID != 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
	} else {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
	}
}

func (h *Handler) handleSetTheme(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := answerCallback(ctx, b, update)
	if !ok {
		return
	}

	theme := domain.ThemeMode(strings.TrimPrefix(update.CallbackQuery.Data, "set_theme_"))
	if err := h.settings.SetTheme(ctx, chatID, theme); err != nil {
		slog.Error("set theme", "theme", theme, "error", err)
		return
	}

	h.sendSettingsMenu(ctx, b, chatID, true, messageID)
}

func (h *Handler) handleSetLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := answerCallback(ctx, b, update)
	if !ok {
		return
	}

	lang := domain.Language(strings.TrimPrefix(update.CallbackQuery.Data, "set_lang_"))
	if err := h.settings.SetLanguage(ctx, chatID, lang); err != nil {
		slog.Error("set language", "language", lang, "error", err)
		return
	}

	h.sendSettingsMenu(ctx, b, chatID, true, messageID)
}
