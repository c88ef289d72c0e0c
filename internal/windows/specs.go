package windows

// Identifier is the stable logical name of a window.
type Identifier string

const (
	Chat     Identifier = "chat"
	Settings Identifier = "settings"
	Devtools Identifier = "devtools"
)

// Spec is the static description a window is created from.
type Spec struct {
	Identifier Identifier
	Title      string
	Width      float32
	Height     float32
	MinWidth   float32
	MinHeight  float32
	Center     bool
	// LoadTarget is the renderer route the surface loads.
	LoadTarget string
	// ShowOnInit windows are made visible by InitializeAll.
	ShowOnInit bool
	// KeepAlive windows are hidden instead of destroyed on close.
	KeepAlive bool
	// Master marks the window that owns the application menu.
	Master bool
}

// DefaultSpecs is the window table of the shell.
var DefaultSpecs = []Spec{
	{
		Identifier: Chat,
		Title:      "Chat",
		Width:      1200,
		Height:     800,
		MinWidth:   400,
		MinHeight:  600,
		Center:     true,
		LoadTarget: "/chat",
		ShowOnInit: true,
		KeepAlive:  true,
		Master:     true,
	},
	{
		Identifier: Settings,
		Title:      "Settings",
		Width:      1024,
		Height:     700,
		MinWidth:   600,
		MinHeight:  600,
		Center:     true,
		LoadTarget: "/settings",
		KeepAlive:  true,
	},
	{
		Identifier: Devtools,
		Title:      "Developer Tools",
		Width:      1000,
		Height:     800,
		MinWidth:   400,
		MinHeight:  600,
		LoadTarget: "/desktop/devtools",
	},
}
