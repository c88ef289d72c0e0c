package menu

import (
	"sync"

	"shellhost/internal/channels"
	"shellhost/internal/i18n"
	"shellhost/internal/logger"
)

// Translator is the slice of the translation provider menus need.
type Translator interface {
	NS(namespace string) i18n.TFunc
	Language() string
}

// Installer hands built menus to the native layer.
type Installer interface {
	SetApplicationMenu(m *Menu)
	SetTrayMenu(m *Menu)
	Popup(m *Menu, x, y float32) error
}

// Env is what every platform variant builds from.
type Env struct {
	AppName    string
	AppVersion string
	// Dev forces developer items on regardless of Options.
	Dev        bool
	WebsiteURL string
	RepoURL    string
	Translator Translator
	Installer  Installer
	Logger     logger.Logger
}

// Platform is the host-specific menu builder.
type Platform interface {
	Variant() Variant
	BuildAndSetAppMenu(opts Options) *Menu
	BuildContextMenu(kind ContextKind, payload Payload) *Menu
	BuildTrayMenu() *Menu
	Refresh(opts Options) *Menu
	State() State
	AppMenu() *Menu
	TrayMenu() *Menu
}

// templates is implemented once per variant.
type templates interface {
	appTemplate(showDev bool) []Item
	contextTemplate(kind ContextKind, payload Payload) []Item
	trayTemplate() []Item
}

// NewPlatform builds the variant for v. The choice is fixed for the
// lifetime of the returned platform.
func NewPlatform(v Variant, env Env) Platform {
	if env.Logger == nil {
		env.Logger = logger.NoOp{}
	}

	b := &basePlatform{variant: v, env: env}
	switch v {
	case MacOS:
		b.tpl = &macOSTemplates{base: b}
	case Windows:
		b.tpl = &windowsTemplates{base: b}
	default:
		b.tpl = &linuxTemplates{base: b}
	}
	return b
}

type basePlatform struct {
	variant Variant
	env     Env
	tpl     templates

	mu       sync.Mutex
	state    State
	appMenu  *Menu
	trayMenu *Menu
}

func (b *basePlatform) Variant() Variant { return b.variant }

func (b *basePlatform) BuildAndSetAppMenu(opts Options) *Menu {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buildAppLocked(opts)
}

func (b *basePlatform) buildAppLocked(opts Options) *Menu {
	m := &Menu{
		Kind:     KindApplication,
		Language: b.language(),
		Items:    b.tpl.appTemplate(b.env.Dev || opts.ShowDevItems),
	}
	b.appMenu = m
	b.state = Active
	if b.env.Installer != nil {
		b.env.Installer.SetApplicationMenu(m)
	}

	b.env.Logger.Debug("Menu", "application menu installed", map[string]interface{}{
		"platform": b.variant.String(),
		"language": m.Language,
		"groups":   len(m.Items),
	})
	return m
}

func (b *basePlatform) BuildContextMenu(kind ContextKind, payload Payload) *Menu {
	kind = ParseContextKind(string(kind))
	return &Menu{
		Kind:     "context:" + string(kind),
		Language: b.language(),
		Items:    b.tpl.contextTemplate(kind, payload),
	}
}

func (b *basePlatform) BuildTrayMenu() *Menu {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buildTrayLocked()
}

func (b *basePlatform) buildTrayLocked() *Menu {
	m := &Menu{
		Kind:     KindTray,
		Language: b.language(),
		Items:    b.tpl.trayTemplate(),
	}
	b.trayMenu = m
	if b.env.Installer != nil {
		b.env.Installer.SetTrayMenu(m)
	}
	return m
}

// Refresh rebuilds the application menu from the current language, and the
// tray menu too once one has been built.
func (b *basePlatform) Refresh(opts Options) *Menu {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.buildAppLocked(opts)
	if b.trayMenu != nil {
		b.buildTrayLocked()
	}
	return m
}

func (b *basePlatform) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *basePlatform) AppMenu() *Menu {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.appMenu
}

func (b *basePlatform) TrayMenu() *Menu {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trayMenu
}

func (b *basePlatform) language() string {
	if b.env.Translator == nil {
		return ""
	}
	return b.env.Translator.Language()
}

// t returns the translate function for namespace with appName pre-bound.
func (b *basePlatform) t(namespace string) func(key string) Item {
	var tf i18n.TFunc
	if b.env.Translator != nil {
		tf = b.env.Translator.NS(namespace)
	}
	params := map[string]interface{}{
		"appName":    b.env.AppName,
		"appVersion": b.env.AppVersion,
	}
	return func(key string) Item {
		label := key
		if tf != nil {
			label = tf(key, params)
		}
		return Item{Key: namespace + ":" + key, Label: label}
	}
}

// deleteItems is the trailing block of the chat context menu. It is empty
// unless the payload names a message.
func (b *basePlatform) deleteItems(payload Payload) []Item {
	id := payload.MessageID()
	if id == "" {
		return nil
	}
	common := b.t(i18n.NamespaceCommon)
	return []Item{
		separator,
		common("actions.delete").withAction(channels.DeleteMessage, map[string]interface{}{"messageId": id}),
	}
}
