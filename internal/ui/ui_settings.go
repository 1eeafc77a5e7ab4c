package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect      *widget.Select
	modeSelect      *widget.Select
	urlEntry        *widget.Entry
	userEntry       *widget.Entry
	passEntry       *widget.Entry
	pathEntry       *widget.Entry
	entryInterval   *NumericalEntry
	entryPort       *NumericalEntry
	formatEntry     *widget.Entry
	checkHighlight  *widget.Check
	selectHighlight *widget.Select
	selectWeekStart *widget.Select
}

// ShowSettingsWindow displays the configuration dialog allowing users to manage settings.
func (app *GoKalendarApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)
	calendarCard := app.buildCalendarCard(sw)

	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), sw.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)
	itemInterval.HintText = app.GetMsg(config.TKeyHelpInterval)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemInterval, itemPort))

	saveAction := func() {
		// Port and title format block saving when invalid.
		for _, err := range []error{sw.entryPort.Validate(), sw.formatEntry.Validate()} {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
		}
		app.saveSettings(sw)
		w.Close()
		go app.performReload(true)
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		calendarCard,
		sourceCard,
		generalCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		minSize := paddedContent.MinSize()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, minSize.Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })

	refreshLayout()
	w.Show()
}

// newSettingsWidgets creates the inputs pre-filled from preferences and keyring.
func (app *GoKalendarApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Language())

	sw.modeSelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyModeNone),
		app.GetMsg(config.TKeyModeWeb),
		app.GetMsg(config.TKeyModeLocal),
	}, nil)

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(app.Preferences.String(config.PrefSourceURL))
	sw.urlEntry.PlaceHolder = config.PlaceholderURL

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(app.Preferences.String(config.PrefUsername))

	sw.passEntry = widget.NewPasswordEntry()
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.pathEntry = widget.NewEntry()
	sw.pathEntry.SetText(app.Preferences.String(config.PrefLocalPath))

	// Interval: empty or 0 disables the periodic reload.
	sw.entryInterval = NewNumericalEntry()
	sw.entryInterval.MaxDigits = 5
	sw.entryInterval.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))

	sw.entryPort = NewNumericalEntry()
	sw.entryPort.MaxDigits = len(strconv.Itoa(config.MaxPort))
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = func(s string) error {
		if s == "" {
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.GetMsg(config.TKeyErrPortNum))
		}
		if port < config.MinPort || port > config.MaxPort {
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
		return nil
	}

	attrs := app.effectiveAttrs()

	sw.formatEntry = widget.NewEntry()
	sw.formatEntry.SetText(attrs.DateFormat)
	sw.formatEntry.PlaceHolder = config.DefaultDateFormat
	sw.formatEntry.Validator = func(s string) error {
		if err := config.ValidateTitleFormat(s); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrDateFormat))
		}
		return nil
	}

	sw.checkHighlight = widget.NewCheck(app.GetMsg(config.TKeyLblHighlight), nil)
	sw.checkHighlight.Checked = attrs.AllowHighlight

	sw.selectHighlight = widget.NewSelect(config.HighlightStyles, nil)
	if style, err := config.ParseHighlightStyle(attrs.HighlightStyle); err == nil {
		sw.selectHighlight.SetSelected(style)
	} else {
		sw.selectHighlight.SetSelected(config.DefaultHighlight)
	}

	sw.selectWeekStart = widget.NewSelect(config.WeekStarts, nil)
	sw.selectWeekStart.SetSelected(config.WeekStartAuto)
	for _, ws := range config.WeekStarts {
		if ws == attrs.WeekStart {
			sw.selectWeekStart.SetSelected(ws)
		}
	}

	return sw
}

// buildCalendarCard constructs the widget attribute form.
func (app *GoKalendarApp) buildCalendarCard(sw *settingsWidgets) *widget.Card {
	itemFormat := widget.NewFormItem(app.GetMsg(config.TKeyLblDateFormat), sw.formatEntry)
	itemFormat.HintText = app.GetMsg(config.TKeyHelpDateFormat)

	form := widget.NewForm(
		itemFormat,
		widget.NewFormItem(app.GetMsg(config.TKeyLblHighStyle), sw.selectHighlight),
		widget.NewFormItem(app.GetMsg(config.TKeyLblWeekStart), sw.selectWeekStart),
	)
	return widget.NewCard(app.GetMsg(config.TKeyLblCalendar), "", container.NewVBox(sw.checkHighlight, form))
}

// buildSourceCard constructs the source selection UI.
func (app *GoKalendarApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtICS, config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)
	itemUser := widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry)
	itemPass := widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry)
	webForm := widget.NewForm(itemURL, itemUser, itemPass)

	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	updateVis := func(label string) {
		webForm.Hide()
		localForm.Hide()
		switch app.modeFromLabel(label) {
		case config.SourceModeWeb:
			webForm.Show()
		case config.SourceModeLocal:
			localForm.Show()
		}
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}
	sw.modeSelect.OnChanged = updateVis

	current := app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeNone)
	sw.modeSelect.SetSelected(app.modeLabel(current))
	updateVis(sw.modeSelect.Selected)

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(sw.modeSelect, webForm, localForm))
}

// modeLabel maps a source mode to its translated label.
func (app *GoKalendarApp) modeLabel(mode string) string {
	switch mode {
	case config.SourceModeWeb:
		return app.GetMsg(config.TKeyModeWeb)
	case config.SourceModeLocal:
		return app.GetMsg(config.TKeyModeLocal)
	default:
		return app.GetMsg(config.TKeyModeNone)
	}
}

// modeFromLabel maps a translated label back to its source mode.
func (app *GoKalendarApp) modeFromLabel(label string) string {
	for _, mode := range []string{config.SourceModeWeb, config.SourceModeLocal} {
		if label == app.modeLabel(mode) {
			return mode
		}
	}
	return config.SourceModeNone
}

// saveSettings persists the inputs and applies them to the open UI.
func (app *GoKalendarApp) saveSettings(sw *settingsWidgets) {
	slog.Info("Saving preferences", config.LogKeyComponent, config.CompUISet)

	p := app.Preferences
	p.SetString(config.PrefLanguage, sw.langSelect.Selected)
	p.SetString(config.PrefSourceMode, app.modeFromLabel(sw.modeSelect.Selected))
	p.SetString(config.PrefSourceURL, sw.urlEntry.Text)
	p.SetString(config.PrefUsername, sw.userEntry.Text)
	p.SetString(config.PrefLocalPath, sw.pathEntry.Text)

	// Save password to Keyring only if provided
	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			slog.Error("Failed to save credentials to keyring", config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	intervalText := sw.entryInterval.Text
	if intervalText == "" || intervalText == "0" {
		p.SetInt(config.PrefInterval, config.DisabledInterval)
		slog.Info("Auto-reload disabled via settings", config.LogKeyComponent, config.CompUISet)
	} else if i, err := strconv.Atoi(intervalText); err == nil {
		p.SetInt(config.PrefInterval, i)
	}

	if sw.entryPort.Text != "" {
		p.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	p.SetString(config.PrefDateFormat, sw.formatEntry.Text)
	p.SetBool(config.PrefAllowHighlight, sw.checkHighlight.Checked)
	p.SetString(config.PrefHighlightStyle, sw.selectHighlight.Selected)
	p.SetString(config.PrefWeekStart, sw.selectWeekStart.Selected)

	app.ApplyPreferences()
}
