package menu

import (
	"fmt"
	"runtime"
	"strings"
)

// Role delegates an item to host OS semantics.
type Role string

const (
	RoleNone             Role = ""
	RoleAbout            Role = "about"
	RoleServices         Role = "services"
	RoleHide             Role = "hide"
	RoleHideOthers       Role = "hideOthers"
	RoleUnhide           Role = "unhide"
	RoleQuit             Role = "quit"
	RoleUndo             Role = "undo"
	RoleRedo             Role = "redo"
	RoleCut              Role = "cut"
	RoleCopy             Role = "copy"
	RolePaste            Role = "paste"
	RoleSelectAll        Role = "selectAll"
	RoleReload           Role = "reload"
	RoleForceReload      Role = "forceReload"
	RoleToggleDevTools   Role = "toggleDevTools"
	RoleResetZoom        Role = "resetZoom"
	RoleZoomIn           Role = "zoomIn"
	RoleZoomOut          Role = "zoomOut"
	RoleToggleFullscreen Role = "togglefullscreen"
	RoleMinimize         Role = "minimize"
	RoleClose            Role = "close"
)

// Action routes a click back into the dispatcher.
type Action struct {
	Channel string
	Args    map[string]interface{}
}

// Item is one node of a menu template. An interactive item carries either a
// Role or an Action, never both.
type Item struct {
	// Key is the translation key the label was derived from.
	Key         string
	Label       string
	Accelerator string
	Role        Role
	Action      *Action
	Submenu     []Item
	Separator   bool
}

var separator = Item{Separator: true}

func (i Item) withRole(r Role) Item {
	i.Role = r
	return i
}

func (i Item) withAccelerator(acc string) Item {
	i.Accelerator = acc
	return i
}

func (i Item) withAction(channel string, args map[string]interface{}) Item {
	i.Action = &Action{Channel: channel, Args: args}
	return i
}

func (i Item) withSubmenu(items ...Item) Item {
	i.Submenu = items
	if i.Submenu == nil {
		i.Submenu = []Item{}
	}
	return i
}

// Kinds of built menus.
const (
	KindApplication = "application"
	KindTray        = "tray"
)

// Menu is a built, translated menu tree. Menus are replaced, never patched.
type Menu struct {
	Kind     string
	Language string
	Items    []Item
}

// Options steer application menu construction.
type Options struct {
	ShowDevItems bool
}

// ContextKind selects a context menu template.
type ContextKind string

const (
	ContextDefault ContextKind = "default"
	ContextChat    ContextKind = "chat"
	ContextEditor  ContextKind = "editor"
)

// ParseContextKind maps unknown kinds onto the default template.
func ParseContextKind(s string) ContextKind {
	switch ContextKind(s) {
	case ContextChat, ContextEditor:
		return ContextKind(s)
	default:
		return ContextDefault
	}
}

// Payload is the renderer-supplied data of a context menu request.
type Payload map[string]interface{}

// MessageID returns the message identifier carried by a chat payload, or "".
func (p Payload) MessageID() string {
	v, ok := p["messageId"]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case fmt.Stringer:
		return strings.TrimSpace(id.String())
	case float64, int, int64:
		return fmt.Sprint(id)
	default:
		return ""
	}
}

// State of a platform's menu lifecycle.
type State int

const (
	Uninitialized State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "uninitialized"
}

// Variant tags the host OS family.
type Variant int

const (
	MacOS Variant = iota
	Windows
	Linux
)

func (v Variant) String() string {
	switch v {
	case MacOS:
		return "macos"
	case Windows:
		return "windows"
	default:
		return "linux"
	}
}

// VariantFor maps a GOOS value onto a platform variant.
func VariantFor(goos string) Variant {
	switch goos {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// ParseVariant accepts "auto", a variant name or a GOOS value.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return VariantFor(runtime.GOOS), nil
	case "macos", "darwin", "mac":
		return MacOS, nil
	case "windows", "win":
		return Windows, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return Linux, nil
	default:
		return Linux, fmt.Errorf("menu: unknown platform %q", name)
	}
}
