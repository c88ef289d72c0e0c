// Package channels lists every renderer-invocable channel and every event
// the host pushes to renderers. The list is append-only: renderer builds in
// the wild still reference old names.
package channels

// Renderer → host calls.
const (
	OpenSettingsWindow = "openSettingsWindow"
	ShowMainWindow     = "showMainWindow"
	ShowWindow         = "showWindow"
	CloseWindow        = "closeWindow"

	ShowContextMenu = "showContextMenu"
	RefreshAppMenu  = "refreshAppMenu"
	DumpAppMenu     = "dumpAppMenu"

	GetLanguage     = "getLanguage"
	ChangeLanguage  = "changeLanguage"
	GetSystemLocale = "getSystemLocale"
	GetAppInfo      = "getAppInfo"

	OpenExternalLink = "openExternalLink"
	ShowAboutDialog  = "showAboutDialog"

	DeleteMessage = "deleteMessage"

	OpenDevtools = "openDevtools"
	ListChannels = "listChannels"
)

// Host → renderer events.
const (
	EventLanguageChanged = "language-changed"
	EventDeleteMessage   = "delete-message"
	EventNavigate        = "navigate"
	EventMenuRole        = "menu-role"
)
