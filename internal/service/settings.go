package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/repository"
)

// SettingsService persists per-chat settings through the KV port.
// Unparsable or missing payloads fall back to the defaults.
type SettingsService struct {
	kv repository.KV
}

func NewSettingsService(kv repository.KV) *SettingsService {
	return &SettingsService{kv: kv}
}

func settingsKey(chatID int64) string {
	return fmt.Sprintf("settings:%d", chatID)
}

func (s *SettingsService) Get(ctx context.Context, chatID int64) domain.Settings {
	settings := domain.DefaultSettings()

	data, found, err := s.kv.Get(ctx, settingsKey(chatID))
	if err != nil || !found {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		slog.Warn("corrupt settings, using defaults", "chat_id", chatID, "error", err)
		return domain.DefaultSettings()
	}
	if !settings.Theme.Valid() {
		settings.Theme = domain.ThemeAuto
	}
	if !settings.Language.Valid() {
		settings.Language = domain.DefaultSettings().Language
	}
	return settings
}

func (s *SettingsService) SetTheme(ctx context.Context, chatID int64, theme domain.ThemeMode) error {
	if !theme.Valid() {
		return domain.ErrInvalidTheme
	}
	settings := s.Get(ctx, chatID)
	settings.Theme = theme
	return s.save(ctx, chatID, settings)
}

func (s *SettingsService) SetLanguage(ctx context.Context, chatID int64, lang domain.Language) error {
	if !lang.Valid() {
		return domain.ErrInvalidLanguage
	}
	settings := s.Get(ctx, chatID)
	settings.Language = lang
	return s.save(ctx, chatID, settings)
}

func (s *SettingsService) save(ctx context.Context, chatID int64, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.kv.Set(ctx, settingsKey(chatID), data); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}
