package controllers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellhost/internal/channels"
	"shellhost/internal/config"
	"shellhost/internal/eventbus"
	"shellhost/internal/i18n"
	"shellhost/internal/ipc"
	"shellhost/internal/logger"
	"shellhost/internal/menu"
	"shellhost/internal/windows"
)

type stubSurface struct{}

func (stubSurface) Show()  {}
func (stubSurface) Focus() {}
func (stubSurface) Hide()  {}
func (stubSurface) Close() {}

type stubFactory struct{}

func (stubFactory) Create(context.Context, windows.Spec, windows.Hooks) (windows.Surface, error) {
	return stubSurface{}, nil
}

type sent struct {
	id      windows.Identifier
	event   string
	payload interface{}
}

type recordingNotifier struct {
	mu  sync.Mutex
	out []sent
}

func (n *recordingNotifier) Notify(id windows.Identifier, event string, payload interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.out = append(n.out, sent{id, event, payload})
	return nil
}

type fakeShell struct {
	urls  []string
	about [3]string
}

func (s *fakeShell) OpenURL(u string) error { s.urls = append(s.urls, u); return nil }

func (s *fakeShell) ShowAbout(title, message, detail string) error {
	s.about = [3]string{title, message, detail}
	return nil
}

type nopInstaller struct{}

func (nopInstaller) SetApplicationMenu(*menu.Menu)                {}
func (nopInstaller) SetTrayMenu(*menu.Menu)                       {}
func (nopInstaller) Popup(*menu.Menu, float32, float32) error     { return nil }

type testApp struct {
	cfg      config.Config
	windows  *windows.Manager
	menus    *menu.Manager
	i18n     *i18n.Provider
	shell    *fakeShell
	registry *ipc.Registry
	notifier *recordingNotifier
}

func (a *testApp) Windows() *windows.Manager { return a.windows }
func (a *testApp) Menus() *menu.Manager       { return a.menus }
func (a *testApp) I18n() *i18n.Provider       { return a.i18n }
func (a *testApp) Shell() Shell               { return a.shell }
func (a *testApp) Events() Publisher          { return nil }
func (a *testApp) Config() config.Config      { return a.cfg }
func (a *testApp) Logger() logger.Logger      { return logger.NoOp{} }
func (a *testApp) Registry() *ipc.Registry    { return a.registry }

func newTestApp(t *testing.T) (*testApp, *ipc.Dispatcher) {
	t.Helper()

	provider, err := i18n.NewProvider(i18n.DefaultLoader(""), i18n.Options{})
	require.NoError(t, err)
	require.NoError(t, provider.Init(context.Background(), "en-US"))

	cfg := config.Default()
	platform := menu.NewPlatform(menu.Linux, menu.Env{
		AppName:    cfg.AppName,
		AppVersion: cfg.Version,
		Translator: provider,
		Installer:  nopInstaller{},
	})

	app := &testApp{
		cfg:      cfg,
		windows:  windows.NewManager(windows.DefaultSpecs, stubFactory{}, nil),
		menus:    menu.NewManager(platform, nopInstaller{}, nil),
		i18n:     provider,
		shell:    &fakeShell{},
		registry: ipc.NewRegistry(nil),
		notifier: &recordingNotifier{},
	}
	app.windows.SetNotifier(app.notifier)

	_, err = Register(app, app.registry, All)
	require.NoError(t, err)
	app.registry.Seal()
	return app, ipc.NewDispatcher(app.registry, nil)
}

func call(t *testing.T, d *ipc.Dispatcher, channel string, args interface{}) (interface{}, error) {
	t.Helper()
	a := ipc.NoArgs
	if args != nil {
		a = ipc.ValueArgs(args)
	}
	return d.Dispatch(context.Background(), channel, a)
}

func TestRegisterBindsEveryChannel(t *testing.T) {
	app, _ := newTestApp(t)

	assert.ElementsMatch(t, []string{
		channels.OpenSettingsWindow, channels.ShowMainWindow, channels.ShowWindow, channels.CloseWindow,
		channels.ShowContextMenu, channels.RefreshAppMenu, channels.DumpAppMenu,
		channels.GetLanguage, channels.ChangeLanguage, channels.GetSystemLocale, channels.GetAppInfo,
		channels.OpenExternalLink, channels.ShowAboutDialog,
		channels.DeleteMessage,
		channels.OpenDevtools, channels.ListChannels,
	}, app.registry.Channels())
	assert.Equal(t, "Chat", app.registry.Owners()[channels.DeleteMessage])
}

func TestRegisterRejectsDuplicateModule(t *testing.T) {
	app, _ := newTestApp(t)
	reg := ipc.NewRegistry(nil)

	_, err := Register(app, reg, append(append([]Constructor{}, All...), NewChat))
	var dup *ipc.DuplicateChannelError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, channels.DeleteMessage, dup.Channel)
}

func TestWindowChannels(t *testing.T) {
	app, d := newTestApp(t)

	got, err := call(t, d, channels.ShowWindow, map[string]interface{}{"identifier": "devtools"})
	require.NoError(t, err)
	assert.Equal(t, "devtools", got.(map[string]interface{})["identifier"])
	assert.Equal(t, []windows.Identifier{windows.Devtools}, app.windows.Live())

	_, err = call(t, d, channels.CloseWindow, map[string]interface{}{"identifier": "devtools"})
	require.NoError(t, err)
	assert.Empty(t, app.windows.Live())

	_, err = call(t, d, channels.ShowWindow, map[string]interface{}{"identifier": "nope"})
	var creation *windows.WindowCreationError
	assert.True(t, errors.As(err, &creation))

	_, err = call(t, d, channels.ShowWindow, nil)
	var exec *ipc.HandlerExecutionError
	require.True(t, errors.As(err, &exec))
	assert.Equal(t, "BrowserWindows", exec.Module)
}

func TestOpenSettingsWindowNavigatesToTab(t *testing.T) {
	app, d := newTestApp(t)

	got, err := call(t, d, channels.OpenSettingsWindow, map[string]interface{}{"tab": "/about/"})
	require.NoError(t, err)
	assert.Equal(t, "/settings/about", got.(map[string]interface{})["path"])

	w, ok := app.windows.Lookup(windows.Settings)
	require.True(t, ok)
	assert.True(t, w.Visible())

	require.Len(t, app.notifier.out, 1)
	assert.Equal(t, windows.Settings, app.notifier.out[0].id)
	assert.Equal(t, channels.EventNavigate, app.notifier.out[0].event)

	_, err = call(t, d, channels.OpenSettingsWindow, nil)
	require.NoError(t, err)
	assert.Len(t, app.notifier.out, 1)
}

func TestDeleteMessageReachesChatWindow(t *testing.T) {
	app, d := newTestApp(t)
	require.NoError(t, app.windows.ShowMainWindow(context.Background()))

	_, err := call(t, d, channels.DeleteMessage, map[string]interface{}{"messageId": ""})
	assert.Error(t, err)

	_, err = call(t, d, channels.DeleteMessage, map[string]interface{}{"messageId": "m-1"})
	require.NoError(t, err)
	require.Len(t, app.notifier.out, 1)
	assert.Equal(t, windows.Chat, app.notifier.out[0].id)
	assert.Equal(t, channels.EventDeleteMessage, app.notifier.out[0].event)
}

func TestMenuDeleteItemRoundTrip(t *testing.T) {
	app, d := newTestApp(t)
	app.menus.SetDispatcher(d)
	require.NoError(t, app.windows.ShowMainWindow(context.Background()))

	m := app.menus.BuildContextMenu("chat", menu.Payload{"messageId": "m-2"})
	_, err := app.menus.Activate(context.Background(), m.Items[len(m.Items)-1])
	require.NoError(t, err)
	require.Len(t, app.notifier.out, 1)
	assert.Equal(t, map[string]interface{}{"messageId": "m-2"}, app.notifier.out[0].payload)
}

func TestOpenExternalLink(t *testing.T) {
	app, d := newTestApp(t)

	_, err := call(t, d, channels.OpenExternalLink, map[string]interface{}{"url": "file:///etc/passwd"})
	assert.Error(t, err)

	_, err = call(t, d, channels.OpenExternalLink, map[string]interface{}{"url": "https://example.org/docs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/docs"}, app.shell.urls)
}

func TestShowAboutDialogIsTranslated(t *testing.T) {
	app, d := newTestApp(t)

	_, err := call(t, d, channels.ShowAboutDialog, nil)
	require.NoError(t, err)
	assert.Equal(t, "About", app.shell.about[0])
	assert.Equal(t, "Shellhost 1.0.0", app.shell.about[1])
}

func TestLanguageChannels(t *testing.T) {
	app, d := newTestApp(t)

	got, err := call(t, d, channels.GetLanguage, nil)
	require.NoError(t, err)
	assert.Equal(t, "en-US", got.(map[string]interface{})["language"])

	got, err = call(t, d, channels.ChangeLanguage, map[string]interface{}{"language": "zh-CN"})
	require.NoError(t, err)
	assert.Equal(t, "zh-CN", got.(map[string]interface{})["language"])
	assert.Equal(t, "zh-CN", app.i18n.Language())

	_, err = call(t, d, channels.ChangeLanguage, map[string]interface{}{"language": "not a tag!"})
	assert.Error(t, err)
}

func TestMenuChannels(t *testing.T) {
	app, d := newTestApp(t)

	_, err := call(t, d, channels.DumpAppMenu, nil)
	assert.Error(t, err)

	app.menus.Init(menu.Options{})
	got, err := call(t, d, channels.DumpAppMenu, nil)
	require.NoError(t, err)
	assert.Contains(t, got, "Edit")

	got, err = call(t, d, channels.ShowContextMenu, map[string]interface{}{"type": "chat", "data": map[string]interface{}{"messageId": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "context:chat", got.(map[string]interface{})["kind"])

	got, err = call(t, d, channels.RefreshAppMenu, nil)
	require.NoError(t, err)
	assert.Equal(t, "en-US", got.(map[string]interface{})["language"])
}

func TestDevtoolsChannels(t *testing.T) {
	app, d := newTestApp(t)

	_, err := call(t, d, channels.OpenDevtools, nil)
	require.NoError(t, err)
	_, ok := app.windows.Lookup(windows.Devtools)
	assert.True(t, ok)

	got, err := call(t, d, channels.ListChannels, nil)
	require.NoError(t, err)
	list := got.([]channelInfo)
	assert.Len(t, list, len(app.registry.Channels()))
	assert.Equal(t, channelInfo{Channel: channels.ChangeLanguage, Module: "System"}, list[0])

	info, err := call(t, d, channels.GetAppInfo, nil)
	require.NoError(t, err)
	assert.Equal(t, "linux", info.(map[string]interface{})["platform"])
}

func TestActivateSubscriptionShowsMainWindow(t *testing.T) {
	app, _ := newTestApp(t)

	subs := NewBrowserWindows(app).Subscriptions()
	require.Len(t, subs, 1)
	assert.Equal(t, eventbus.AppActivate, subs[0].Event)

	subs[0].Handler(eventbus.Event{Type: eventbus.AppActivate})
	w, ok := app.windows.Lookup(windows.Chat)
	require.True(t, ok)
	assert.True(t, w.Visible())
}
