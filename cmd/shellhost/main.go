package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"shellhost/internal/app"
	"shellhost/internal/config"
	"shellhost/internal/logger"
	"shellhost/internal/menu"
	"shellhost/internal/windows"
)

func main() {
	cliApp := &cli.App{
		Name:    "shellhost",
		Usage:   "host runtime of the desktop shell",
		Version: config.AppVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML configuration file", EnvVars: []string{"SHELLHOST_CONFIG"}},
			&cli.StringFlag{Name: "lang", Usage: "UI language (defaults to the system locale)"},
			&cli.StringFlag{Name: "platform", Usage: "menu platform: auto, macos, windows or linux"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "addr", Usage: "renderer transport listen address"},
			&cli.BoolFlag{Name: "dev", Usage: "show developer menus"},
			&cli.BoolFlag{Name: "json-logs", Usage: "log JSON instead of console output"},
		},
		Action: runDesktop,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "start the desktop shell",
				Action: runDesktop,
			},
			{
				Name:      "menu",
				Usage:     "print a menu as a tree",
				ArgsUsage: "[application|tray|context]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "context", Value: "default", Usage: "context menu kind: default, chat or editor"},
					&cli.StringFlag{Name: "message-id", Usage: "message id carried by a chat context menu"},
				},
				Action: printMenu,
			},
			{
				Name:   "channels",
				Usage:  "list every renderer-invocable channel and the module serving it",
				Action: printChannels,
			},
		},
	}

	if err := cliApp.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "shellhost:", err)
		os.Exit(1)
	}
}

// loadConfig merges file, environment and flags, in that order.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if v := c.String("lang"); v != "" {
		cfg.Language = v
	}
	if v := c.String("platform"); v != "" {
		cfg.Platform = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("addr"); v != "" {
		cfg.Addr = v
	}
	if c.IsSet("dev") {
		cfg.Dev = c.Bool("dev")
	}
	if c.IsSet("json-logs") {
		cfg.JSONLogs = c.Bool("json-logs")
	}
	return cfg, nil
}

func runDesktop(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.JSONLogs)
	log.Info("Main", "starting", map[string]interface{}{
		"version":    cfg.Version,
		"go_version": runtime.Version(),
		"addr":       cfg.Addr,
	})

	desktop, err := app.NewDesktop(cfg, c.String("config"), log)
	if err != nil {
		log.Error("Main", err, nil)
		return err
	}
	return desktop.Run(c.Context)
}

// headless starts the host without a display so its menus and registry can
// be inspected.
func headless(c *cli.Context) (*app.Application, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if !c.IsSet("log-level") {
		cfg.LogLevel = "error"
	}

	a, err := app.New(cfg, app.Options{
		Logger:        logger.New(cfg.LogLevel, cfg.JSONLogs),
		WindowFactory: headlessFactory{},
	})
	if err != nil {
		return nil, err
	}
	if err := a.Lifecycle().Init(c.Context); err != nil {
		a.Lifecycle().Teardown()
		return nil, err
	}
	return a, nil
}

func printMenu(c *cli.Context) error {
	a, err := headless(c)
	if err != nil {
		return err
	}
	defer a.Lifecycle().Teardown()

	p := a.Menus().Platform()
	var m *menu.Menu
	switch strings.ToLower(c.Args().First()) {
	case "", "application", "app":
		m = p.AppMenu()
	case "tray":
		m = p.TrayMenu()
	case "context":
		m = p.BuildContextMenu(menu.ParseContextKind(c.String("context")), menu.Payload{"messageId": c.String("message-id")})
	default:
		return fmt.Errorf("unknown menu %q", c.Args().First())
	}

	fmt.Fprintf(c.App.Writer, "%s (%s)\n", a.Config().AppName, p.Variant())
	fmt.Fprint(c.App.Writer, menu.Render(m))
	return nil
}

func printChannels(c *cli.Context) error {
	a, err := headless(c)
	if err != nil {
		return err
	}
	defer a.Lifecycle().Teardown()

	owners := a.Registry().Owners()
	for _, ch := range a.Registry().Channels() {
		fmt.Fprintf(c.App.Writer, "%-22s %s\n", ch, owners[ch])
	}
	return nil
}

type headlessSurface struct{}

func (headlessSurface) Show()  {}
func (headlessSurface) Focus() {}
func (headlessSurface) Hide()  {}
func (headlessSurface) Close() {}

type headlessFactory struct{}

func (headlessFactory) Create(context.Context, windows.Spec, windows.Hooks) (windows.Surface, error) {
	return headlessSurface{}, nil
}
