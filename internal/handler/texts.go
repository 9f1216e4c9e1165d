package handler

import (
	"context"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
)

type textKey string

const (
	keyWelcome      textKey = "welcome"
	keyGatePrompt   textKey = "gate_prompt"
	keyGateDenied   textKey = "gate_denied"
	keyGateCooldown textKey = "gate_cooldown"
	keyGateGranted  textKey = "gate_granted"
	keyBusy         textKey = "busy"
	keySessions     textKey = "sessions"
	keySessionNew   textKey = "session_new"
	keySessionDel   textKey = "session_del"
	keyLastSession  textKey = "last_session"
	keySettings     textKey = "settings"
	keyThemeLight   textKey = "theme_light"
	keyThemeDark    textKey = "theme_dark"
	keyThemeAuto    textKey = "theme_auto"
)

// texts holds all user-facing interface strings per language. Assistant
// replies come from the model and are not translated.
var texts = map[domain.Language]map[textKey]string{
	domain.LanguageRU: {
		keyWelcome:      "👋 Привет! Я *Rinkl AI*.\n\n📋 *Команды:*\n/sessions — Диалоги\n/settings — Настройки\n\nПросто отправьте сообщение, чтобы начать диалог!",
		keyGatePrompt:   "🔑 Доступ по приглашениям. Отправьте код из 6 символов.",
		keyGateDenied:   "❌ Неверный код приглашения.",
		keyGateCooldown: "⏳ Подождите пару секунд и попробуйте снова.",
		keyGateGranted:  "✅ Код принят. Добро пожаловать!",
		keyBusy:         "⏳ Дождитесь ответа на предыдущий запрос.",
		keySessions:     "📂 *Диалоги* (%d шт.)",
		keySessionNew:   "➕ Новый",
		keySessionDel:   "🗑 Удалить текущий",
		keyLastSession:  "Нельзя удалить последний диалог",
		keySettings:     "⚙️ *Настройки*",
		keyThemeLight:   "☀️ Светлая",
		keyThemeDark:    "🌙 Тёмная",
		keyThemeAuto:    "🌓 Авто",
	},
	domain.LanguageEN: {
		keyWelcome:      "👋 Hi! I am *Rinkl AI*.\n\n📋 *Commands:*\n/sessions — Conversations\n/settings — Settings\n\nJust send a message to start chatting!",
		keyGatePrompt:   "🔑 Access is invite-only. Send your 6-character code.",
		keyGateDenied:   "❌ Invalid invitation code.",
		keyGateCooldown: "⏳ Please wait a couple of seconds and try again.",
		keyGateGranted:  "✅ Code accepted. Welcome!",
		keyBusy:         "⏳ Please wait for the previous reply.",
		keySessions:     "📂 *Conversations* (%d)",
		keySessionNew:   "➕ New",
		keySessionDel:   "🗑 Delete current",
		keyLastSession:  "Cannot delete the last conversation",
		keySettings:     "⚙️ *Settings*",
		keyThemeLight:   "☀️ Light",
		keyThemeDark:    "🌙 Dark",
		keyThemeAuto:    "🌓 Auto",
	},
	domain.LanguageES: {
		keyWelcome:      "👋 ¡Hola! Soy *Rinkl AI*.\n\n📋 *Comandos:*\n/sessions — Conversaciones\n/settings — Ajustes\n\n¡Envía un mensaje para empezar!",
		keyGatePrompt:   "🔑 Acceso solo por invitación. Envía tu código de 6 caracteres.",
		keyGateDenied:   "❌ Código de invitación no válido.",
		keyGateCooldown: "⏳ Espera un par de segundos e inténtalo de nuevo.",
		keyGateGranted:  "✅ Código aceptado. ¡Bienvenido!",
		keyBusy:         "⏳ Espera la respuesta anterior.",
		keySessions:     "📂 *Conversaciones* (%d)",
		keySessionNew:   "➕ Nueva",
		keySessionDel:   "🗑 Eliminar actual",
		keyLastSession:  "No se puede eliminar la última conversación",
		keySettings:     "⚙️ *Ajustes*",
		keyThemeLight:   "☀️ Claro",
		keyThemeDark:    "🌙 Oscuro",
		keyThemeAuto:    "🌓 Auto",
	},
	domain.LanguageCN: {
		keyWelcome:      "👋 你好！我是 *Rinkl AI*。\n\n📋 *命令:*\n/sessions — 对话\n/settings — 设置\n\n发送消息即可开始对话！",
		keyGatePrompt:   "🔑 仅限邀请使用。请发送 6 位邀请码。",
		keyGateDenied:   "❌ 邀请码无效。",
		keyGateCooldown: "⏳ 请稍等几秒后再试。",
		keyGateGranted:  "✅ 邀请码已接受。欢迎！",
		keyBusy:         "⏳ 请等待上一条回复。",
		keySessions:     "📂 *对话* (%d)",
		keySessionNew:   "➕ 新建",
		keySessionDel:   "🗑 删除当前",
		keyLastSession:  "无法删除最后一个对话",
		keySettings:     "⚙️ *设置*",
		keyThemeLight:   "☀️ 浅色",
		keyThemeDark:    "🌙 深色",
		keyThemeAuto:    "🌓 自动",
	},
	domain.LanguageDE: {
		keyWelcome:      "👋 Hallo! Ich bin *Rinkl AI*.\n\n📋 *Befehle:*\n/sessions — Unterhaltungen\n/settings — Einstellungen\n\nSchick einfach eine Nachricht, um loszulegen!",
		keyGatePrompt:   "🔑 Zugang nur auf Einladung. Schick deinen 6-stelligen Code.",
		keyGateDenied:   "❌ Ungültiger Einladungscode.",
		keyGateCooldown: "⏳ Bitte warte ein paar Sekunden und versuch es erneut.",
		keyGateGranted:  "✅ Code akzeptiert. Willkommen!",
		keyBusy:         "⏳ Bitte warte auf die vorherige Antwort.",
		keySessions:     "📂 *Unterhaltungen* (%d)",
		keySessionNew:   "➕ Neu",
		keySessionDel:   "🗑 Aktuelle löschen",
		keyLastSession:  "Die letzte Unterhaltung kann nicht gelöscht werden",
		keySettings:     "⚙️ *Einstellungen*",
		keyThemeLight:   "☀️ Hell",
		keyThemeDark:    "🌙 Dunkel",
		keyThemeAuto:    "🌓 Auto",
	},
}

// tr resolves an interface string for the chat's language, falling back to
// the default language when a translation is missing.
func (h *Handler) tr(ctx context.Context, chatID int64, key textKey) string {
	lang := h.settings.Get(ctx, chatID).Language
	if s, ok := texts[lang][key]; ok {
		return s
	}
	return texts[domain.DefaultSettings().Language][key]
}
