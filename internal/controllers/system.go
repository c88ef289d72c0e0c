package controllers

import (
	"context"

	"shellhost/internal/channels"
	"shellhost/internal/eventbus"
	"shellhost/internal/i18n"
	"shellhost/internal/ipc"
)

// System answers questions about the host and owns language switching.
type System struct {
	Base
}

func NewSystem(app AppContext) ipc.Module {
	return &System{Base: newBase(app, "System")}
}

func (c *System) Bindings() []ipc.Binding {
	return []ipc.Binding{
		c.bind(channels.GetLanguage, noArgs(c.getLanguage)),
		c.bind(channels.ChangeLanguage, c.changeLanguage),
		c.bind(channels.GetSystemLocale, noArgs(c.getSystemLocale)),
		c.bind(channels.GetAppInfo, noArgs(c.getAppInfo)),
	}
}

func (c *System) Subscriptions() []ipc.Subscription {
	return []ipc.Subscription{{
		Event: eventbus.LanguageChanged,
		Handler: func(ev eventbus.Event) {
			c.log().Info("System", "renderers told about language change", map[string]interface{}{"data": ev.Data})
		},
	}}
}

func (c *System) getLanguage(context.Context) (interface{}, error) {
	p := c.app.I18n()
	return map[string]interface{}{
		"language":  p.Language(),
		"fallback":  p.FallbackLanguage(),
		"supported": p.SupportedLanguages(),
	}, nil
}

type languageArgs struct {
	Language string `json:"language"`
}

// changeLanguage returns after menus have been rebuilt and renderers
// notified for the new language.
func (c *System) changeLanguage(ctx context.Context, args ipc.Args) (interface{}, error) {
	var in languageArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if err := required("language", in.Language); err != nil {
		return nil, err
	}

	p := c.app.I18n()
	if err := p.ChangeLanguage(ctx, in.Language); err != nil {
		return nil, err
	}
	return map[string]interface{}{"language": p.Language()}, nil
}

func (c *System) getSystemLocale(context.Context) (interface{}, error) {
	return i18n.SystemLocale(), nil
}

func (c *System) getAppInfo(context.Context) (interface{}, error) {
	cfg := c.app.Config()
	return map[string]interface{}{
		"name":     cfg.AppName,
		"id":       cfg.AppID,
		"version":  cfg.Version,
		"dev":      cfg.Dev,
		"platform": c.app.Menus().Platform().Variant().String(),
	}, nil
}
