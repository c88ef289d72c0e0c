package native

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"shellhost/internal/logger"
	"shellhost/internal/menu"
)

// RoleHandler carries out items that delegate to OS semantics.
type RoleHandler interface {
	HandleRole(role menu.Role)
}

// RoleFunc adapts a function to RoleHandler.
type RoleFunc func(role menu.Role)

func (f RoleFunc) HandleRole(role menu.Role) { f(role) }

// MenuInstaller turns built menus into fyne menus. It implements
// menu.Installer.
type MenuInstaller struct {
	app    fyne.App
	master func() (fyne.Window, bool)
	logger logger.Logger

	mu       sync.RWMutex
	activate func(menu.Item)
	roles    RoleHandler
}

func NewMenuInstaller(app fyne.App, master func() (fyne.Window, bool), log logger.Logger) *MenuInstaller {
	if log == nil {
		log = logger.NoOp{}
	}
	return &MenuInstaller{app: app, master: master, logger: log}
}

// OnActivate sets where clicks on Action items go.
func (i *MenuInstaller) OnActivate(fn func(menu.Item)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.activate = fn
}

func (i *MenuInstaller) SetRoleHandler(h RoleHandler) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.roles = h
}

func (i *MenuInstaller) SetApplicationMenu(m *menu.Menu) {
	w, ok := i.master()
	if !ok {
		i.logger.Warning("MenuInstaller", "no master window for application menu", nil)
		return
	}

	mainMenu := fyne.NewMainMenu(i.convertGroups(m.Items)...)
	fyne.Do(func() {
		w.SetMainMenu(mainMenu)
	})
}

func (i *MenuInstaller) SetTrayMenu(m *menu.Menu) {
	desk, ok := i.app.(desktop.App)
	if !ok {
		i.logger.Debug("MenuInstaller", "driver has no system tray", nil)
		return
	}

	tray := fyne.NewMenu(i.app.Metadata().Name, Convert(m.Items, i.onClick)...)
	fyne.Do(func() {
		desk.SetSystemTrayMenu(tray)
	})
}

func (i *MenuInstaller) Popup(m *menu.Menu, x, y float32) error {
	w, ok := i.master()
	if !ok {
		return fmt.Errorf("no window to show %s in", m.Kind)
	}

	popup := fyne.NewMenu("", Convert(m.Items, i.onClick)...)
	fyne.Do(func() {
		widget.ShowPopUpMenuAtPosition(popup, w.Canvas(), fyne.NewPos(x, y))
	})
	return nil
}

// convertGroups maps top-level submenus onto fyne menus. Loose top-level
// items are collected under an unnamed menu.
func (i *MenuInstaller) convertGroups(items []menu.Item) []*fyne.Menu {
	var menus []*fyne.Menu
	var loose []*fyne.MenuItem
	for _, it := range items {
		if it.Submenu != nil {
			menus = append(menus, fyne.NewMenu(it.Label, Convert(it.Submenu, i.onClick)...))
			continue
		}
		loose = append(loose, Convert([]menu.Item{it}, i.onClick)...)
	}
	if len(loose) > 0 {
		menus = append(menus, fyne.NewMenu("", loose...))
	}
	return menus
}

func (i *MenuInstaller) onClick(it menu.Item) {
	i.mu.RLock()
	activate, roles := i.activate, i.roles
	i.mu.RUnlock()

	switch {
	case it.Action != nil && activate != nil:
		activate(it)
	case it.Role != menu.RoleNone && roles != nil:
		roles.HandleRole(it.Role)
	default:
		i.logger.Debug("MenuInstaller", "menu item without handler", map[string]interface{}{"key": it.Key})
	}
}

// Convert maps menu items onto fyne menu items. Every interactive item calls
// onClick with itself.
func Convert(items []menu.Item, onClick func(menu.Item)) []*fyne.MenuItem {
	out := make([]*fyne.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Separator {
			out = append(out, fyne.NewMenuItemSeparator())
			continue
		}

		item := it
		mi := fyne.NewMenuItem(it.Label, func() { onClick(item) })
		if it.Submenu != nil {
			mi.Action = nil
			mi.ChildMenu = fyne.NewMenu(it.Label, Convert(it.Submenu, onClick)...)
			if len(it.Submenu) == 0 {
				mi.Disabled = true
			}
		}
		if it.Role == menu.RoleQuit {
			mi.IsQuit = true
		}
		if sc, ok := ParseAccelerator(it.Accelerator); ok {
			mi.Shortcut = sc
		}
		out = append(out, mi)
	}
	return out
}

var acceleratorKeys = map[string]fyne.KeyName{
	"plus":   fyne.KeyEqual,
	"=":      fyne.KeyEqual,
	"-":      fyne.KeyMinus,
	",":      fyne.KeyComma,
	".":      fyne.KeyPeriod,
	"space":  fyne.KeySpace,
	"tab":    fyne.KeyTab,
	"enter":  fyne.KeyReturn,
	"return": fyne.KeyReturn,
	"esc":    fyne.KeyEscape,
	"escape": fyne.KeyEscape,
}

var acceleratorModifiers = map[string]fyne.KeyModifier{
	"ctrl":    fyne.KeyModifierControl,
	"control": fyne.KeyModifierControl,
	"command": fyne.KeyModifierSuper,
	"cmd":     fyne.KeyModifierSuper,
	"super":   fyne.KeyModifierSuper,
	"shift":   fyne.KeyModifierShift,
	"alt":     fyne.KeyModifierAlt,
	"option":  fyne.KeyModifierAlt,
}

// ParseAccelerator reads strings like "Ctrl+Shift+Z" or "F11".
func ParseAccelerator(acc string) (*desktop.CustomShortcut, bool) {
	acc = strings.TrimSpace(acc)
	if acc == "" {
		return nil, false
	}

	parts := strings.Split(acc, "+")
	// "Ctrl++" ends in an empty part that stands for the plus key.
	if strings.HasSuffix(acc, "++") {
		parts = append(parts[:len(parts)-2], "plus")
	}

	sc := &desktop.CustomShortcut{}
	for idx, raw := range parts {
		p := strings.ToLower(strings.TrimSpace(raw))
		if idx < len(parts)-1 {
			mod, ok := acceleratorModifiers[p]
			if !ok {
				return nil, false
			}
			sc.Modifier |= mod
			continue
		}

		if key, ok := acceleratorKeys[p]; ok {
			sc.KeyName = key
		} else if p != "" {
			sc.KeyName = fyne.KeyName(strings.ToUpper(p))
		} else {
			return nil, false
		}
	}
	return sc, true
}
