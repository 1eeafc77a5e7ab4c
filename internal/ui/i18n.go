package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-kalendar/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *GoKalendarApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// Language returns the UI language preference.
func (app *GoKalendarApp) Language() string {
	return app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *GoKalendarApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, app.Language())
}

// GetMsg is a helper to translate a key safely. Missing keys return the key.
func (app *GoKalendarApp) GetMsg(key string) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key})
}

// GetMsgData translates a templated key.
func (app *GoKalendarApp) GetMsgData(key string, data map[string]any) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

func (app *GoKalendarApp) localize(lc *i18n.LocalizeConfig) string {
	if app.Localizer == nil {
		return lc.MessageID
	}
	msg, err := app.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}

// Names returns the calendar names of the current language.
func (app *GoKalendarApp) Names() Names {
	return Names{
		Month: func(m time.Month) string {
			return app.nameOr(config.TKeyMonthPrefix+strconv.Itoa(int(m)), m.String())
		},
		MonthShort: func(m time.Month) string {
			return app.nameOr(config.TKeyMonthShortPrefix+strconv.Itoa(int(m)), m.String()[:3])
		},
		WeekdayShort: func(d time.Weekday) string {
			return app.nameOr(config.TKeyWeekdayShortPrefix+strconv.Itoa(int(d)), d.String()[:2])
		},
		Weekday: func(d time.Weekday) string {
			return app.nameOr(config.TKeyWeekdayPrefix+strconv.Itoa(int(d)), d.String())
		},
	}
}

func (app *GoKalendarApp) nameOr(key, fallback string) string {
	if msg := app.GetMsg(key); msg != key {
		return msg
	}
	return fallback
}
