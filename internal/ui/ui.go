package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
	"github.com/tartampluch/go-kalendar/internal/server"
	"github.com/zalando/go-keyring"
)

//go:embed Icon.png
var appIconData []byte

// GoKalendarApp is the demo host of the calendar widget. It owns the main
// window, the tray menu, the event source reload worker and the feed server.
type GoKalendarApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server *server.FeedServer
	Loader *engine.Loader
	Clock  engine.Clock // Injected clock for testability

	// BaseAttrs come from the attributes file; preferences override them.
	BaseAttrs config.Attrs

	Engine   *engine.Engine
	Calendar *KalendarView
	Status   *widget.Label

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayShowItem     *fyne.MenuItem
	TrayEventsItem   *fyne.MenuItem
	TrayReloadItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	settingsWindow fyne.Window
	eventsWindow   fyne.Window
}

// NewGoKalendarApp constructs the application and wires dependencies.
func NewGoKalendarApp(a fyne.App, ctx context.Context, srv *server.FeedServer, fetcher engine.Fetcher, attrs config.Attrs) *GoKalendarApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	return &GoKalendarApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Loader:             &engine.Loader{Fetcher: fetcher},
		Clock:              engine.RealClock{},
		BaseAttrs:          attrs,
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
}

// Run launches the application services and the main UI loop.
func (app *GoKalendarApp) Run() {
	app.SetupI18n()
	app.watchPreferences()
	w := app.BuildMainWindow()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
		w.SetCloseIntercept(w.Hide)
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	go app.backgroundWorker()
	w.Show()
	app.App.Run()
}

// BuildMainWindow creates the calendar widget and the window holding it.
func (app *GoKalendarApp) BuildMainWindow() fyne.Window {
	app.Engine = engine.New(app.Clock, time.Sunday)
	// Imported days are truncated in the zone of the anchor day.
	app.Loader.Location = app.Engine.Today().Location()
	app.Calendar = NewKalendarView(app.Engine, app.effectiveAttrs())
	app.Calendar.SetLocale(app.Language(), app.Names())
	app.Calendar.SetOnDayEvent(app.handleDayEvent)
	app.Calendar.OnEventsChanged = app.publishEvents

	app.Status = widget.NewLabel(app.GetMsg(config.TKeyStatusIdle))
	app.Status.Alignment = fyne.TextAlignCenter
	app.Status.Wrapping = fyne.TextWrapWord

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	w.SetContent(container.NewBorder(nil, app.Status, nil, nil, app.Calendar))
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	app.Window = w
	return w
}

// effectiveAttrs layers the preferences over the attributes file.
func (app *GoKalendarApp) effectiveAttrs() config.Attrs {
	base := app.BaseAttrs
	p := app.Preferences
	return config.Attrs{
		DateFormat:     p.StringWithFallback(config.PrefDateFormat, base.DateFormat),
		AllowHighlight: p.BoolWithFallback(config.PrefAllowHighlight, base.AllowHighlight),
		HighlightStyle: p.StringWithFallback(config.PrefHighlightStyle, base.HighlightStyle),
		WeekStart:      p.StringWithFallback(config.PrefWeekStart, base.WeekStart),
	}
}

// ApplyPreferences pushes changed preferences to the open UI.
func (app *GoKalendarApp) ApplyPreferences() {
	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	if app.Calendar != nil {
		app.Calendar.SetLocale(app.Language(), app.Names())
		app.Calendar.SetAttrs(app.effectiveAttrs())
	}
	if app.Window != nil {
		app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}
}

// handleDayEvent shows the last interaction in the status line.
func (app *GoKalendarApp) handleDayEvent(ev engine.DayEvent) {
	key := config.TKeyStatusClicked
	if ev.Kind == engine.DayLongPressed {
		key = config.TKeyStatusLong
	}
	app.Status.SetText(app.GetMsgData(key, map[string]any{"Date": app.formatDay(ev.Date)}))
}

// publishEvents serves the marked days and updates the tray count.
func (app *GoKalendarApp) publishEvents(events engine.EventSet) {
	if err := app.Server.Publish(events); err != nil {
		slog.Error(config.ErrFeedExport,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		app.updateTrayStatus(-1)
		return
	}
	app.updateTrayStatus(events.Len())
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *GoKalendarApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *GoKalendarApp) setupTrayMenu() {
	// The status item opens the list of marked days.
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowEventsWindow()
	})

	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), func() {
		if app.Window != nil {
			app.Window.Show()
			app.Window.RequestFocus()
		}
	})

	app.TrayEventsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuEvents), func() {
		app.ShowEventsWindow()
	})

	app.TrayReloadItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuReload), func() {
		go app.performReload(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayShowItem,
		app.TrayEventsItem,
		app.TrayReloadItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *GoKalendarApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayShowItem.Label = app.GetMsg(config.TKeyMenuShow)
	app.TrayEventsItem.Label = app.GetMsg(config.TKeyMenuEvents)
	app.TrayReloadItem.Label = app.GetMsg(config.TKeyMenuReload)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// reloadInterval returns the configured period, 0 when reloading is disabled.
func (app *GoKalendarApp) reloadInterval() time.Duration {
	val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
	if val <= config.DisabledInterval {
		return 0
	}
	return time.Duration(val) * time.Minute
}

// backgroundWorker reloads the event source on the configured schedule.
func (app *GoKalendarApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performReload(false)

	// A disabled schedule keeps a ticker running so a later change of the
	// preference only needs a Reset.
	period := func(d time.Duration) time.Duration {
		if d == 0 {
			return time.Duration(config.DefaultRefreshMin) * time.Minute
		}
		return d
	}

	current := app.reloadInterval()
	ticker := time.NewTicker(period(current))
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, current)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			next := app.reloadInterval()
			if next != current {
				log.Info(config.MsgUpdateInterval, config.LogKeyOld, current, config.LogKeyNew, next)
				current = next
				ticker.Reset(period(current))
			}

		case <-ticker.C:
			if current > 0 {
				app.performReload(false)
			}
		}
	}
}

// performReload loads the configured event source off the UI goroutine and
// applies the result on it. Without a source the current days are served.
func (app *GoKalendarApp) performReload(manual bool) {
	slog.Info(config.MsgReloadReq,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyManual, manual)

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	cfg := app.loadSourceConfig()
	if cfg.Mode == "" || cfg.Mode == config.SourceModeNone {
		slog.Info(config.MsgReloadSkipped, config.LogKeyComponent, config.CompWorker)
		fyne.DoAndWait(func() { app.publishEvents(app.Calendar.Events()) })
		return
	}

	events, err := app.Loader.Load(app.Ctx, cfg)
	fyne.DoAndWait(func() { app.applyReload(events, err, manual) })
}

// applyReload installs freshly loaded days. On failure the current days stay.
func (app *GoKalendarApp) applyReload(events engine.EventSet, err error, manual bool) {
	if err != nil {
		slog.Error(config.MsgReloadFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleReloadError, app.GetMsg(config.TKeyNotifError)))
		}
		if pubErr := app.Server.Publish(app.Calendar.Events()); pubErr != nil {
			slog.Error(config.ErrFeedExport, config.LogKeyError, pubErr, config.LogKeyComponent, config.CompUI)
		}
		app.updateTrayStatus(-1)
		return
	}

	app.Calendar.SetEvents(events)
	app.publishEvents(events)

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

// updateTrayStatus shows how many days are marked. A negative count reports
// a reload error.
func (app *GoKalendarApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackStatusError
	case count == 0:
		label = app.GetMsg(config.TKeyStatusNoEvents)
		if label == config.TKeyStatusNoEvents {
			label = fmt.Sprintf(config.FallbackStatusEvents, 0)
		}
	default:
		if app.Localizer != nil {
			msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyStatusEvents,
				TemplateData: map[string]any{"Count": count},
				PluralCount:  count,
			})
			if err == nil {
				label = msg
			}
		}
		if label == "" {
			label = fmt.Sprintf(config.FallbackStatusEvents, count)
		}
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// loadSourceConfig assembles the loader configuration from preferences and keyring.
func (app *GoKalendarApp) loadSourceConfig() engine.SourceConfig {
	cfg := engine.SourceConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeNone),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefSourceURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	return cfg
}
