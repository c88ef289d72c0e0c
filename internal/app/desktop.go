package app

import (
	"context"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"shellhost/internal/config"
	"shellhost/internal/eventbus"
	"shellhost/internal/logger"
	"shellhost/internal/native"
)

// Desktop is the Application hosted by fyne.
type Desktop struct {
	*Application

	fyneApp    fyne.App
	configPath string
}

func NewDesktop(cfg config.Config, configPath string, log logger.Logger) (*Desktop, error) {
	fyneApp := fyneapp.NewWithID(cfg.AppID)

	factory := native.NewWindowFactory(fyneApp, log)
	installer := native.NewMenuInstaller(fyneApp, factory.Master, log)
	shell := native.NewShell(fyneApp, factory.Master, log)

	a, err := New(cfg, Options{
		Logger:        log,
		WindowFactory: factory,
		MenuInstaller: installer,
		Shell:         shell,
		Serve:         true,
	})
	if err != nil {
		return nil, err
	}

	handlers := NewHandlers(a)
	installer.OnActivate(handlers.HandleMenuItem)
	installer.SetRoleHandler(native.NewRoles(fyneApp, factory.Master, handlers.HandleAbout, handlers.HandleRole))

	fyneApp.Lifecycle().SetOnEnteredForeground(func() {
		a.bus.Publish(eventbus.Event{Type: eventbus.AppActivate})
	})

	return &Desktop{Application: a, fyneApp: fyneApp, configPath: configPath}, nil
}

// Run initializes the host and blocks in the fyne event loop.
func (d *Desktop) Run(ctx context.Context) error {
	if err := d.lifecycle.Init(ctx); err != nil {
		d.lifecycle.Teardown()
		return err
	}
	d.lifecycle.ListenForSignals()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-d.lifecycle.Done():
			fyne.Do(d.fyneApp.Quit)
		case <-ctx.Done():
		}
	}()

	if d.configPath != "" {
		go d.watchConfig(ctx)
	}

	d.logger.Info("Application", "entering event loop", nil)
	d.fyneApp.Run()

	d.lifecycle.Teardown()
	return nil
}

func (d *Desktop) watchConfig(ctx context.Context) {
	err := config.Watch(ctx, d.configPath, d.cfg, d.logger, func(old, updated config.Config) {
		d.ApplyConfig(ctx, old, updated)
	})
	if err != nil {
		d.logger.Error("Application", err, map[string]interface{}{"path": d.configPath})
	}
}
