package controllers

import (
	"context"
	"fmt"
	"net/url"

	"shellhost/internal/channels"
	"shellhost/internal/i18n"
	"shellhost/internal/ipc"
)

// ShellModule hands links and dialogs to the desktop environment.
type ShellModule struct {
	Base
}

func NewShell(app AppContext) ipc.Module {
	return &ShellModule{Base: newBase(app, "Shell")}
}

func (c *ShellModule) Bindings() []ipc.Binding {
	return []ipc.Binding{
		c.bind(channels.OpenExternalLink, c.openExternalLink),
		c.bind(channels.ShowAboutDialog, noArgs(c.showAboutDialog)),
	}
}

var allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

type linkArgs struct {
	URL string `json:"url"`
}

func (c *ShellModule) openExternalLink(_ context.Context, args ipc.Args) (interface{}, error) {
	var in linkArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if err := required("url", in.URL); err != nil {
		return nil, err
	}

	u, err := url.Parse(in.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if !allowedSchemes[u.Scheme] {
		return nil, fmt.Errorf("refusing to open %q links", u.Scheme)
	}
	return nil, c.app.Shell().OpenURL(u.String())
}

func (c *ShellModule) showAboutDialog(context.Context) (interface{}, error) {
	cfg := c.app.Config()
	t := c.app.I18n().NS(i18n.NamespaceDialog)
	params := map[string]interface{}{"appName": cfg.AppName, "appVersion": cfg.Version}

	return nil, c.app.Shell().ShowAbout(
		t("about.title", params),
		t("about.message", params),
		t("about.detail", params),
	)
}
