package i18n

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"shellhost/internal/logger"
)

// Base namespaces, loaded for every language before it becomes current.
const (
	NamespaceMenu   = "menu"
	NamespaceDialog = "dialog"
	NamespaceCommon = "common"
)

var BaseNamespaces = []string{NamespaceMenu, NamespaceDialog, NamespaceCommon}

// TFunc renders one key with optional template params.
type TFunc func(key string, params map[string]interface{}) string

// Listener is told about a language switch after every namespace of the new
// language has been loaded.
type Listener func(ctx context.Context, lang string)

type Options struct {
	Namespaces       []string
	DefaultNamespace string
	FallbackLanguage string
	Logger           logger.Logger
	// MissSink receives every translation miss. Defaults to a warning log.
	MissSink func(*TranslationMissError)
}

// Provider owns the language state of the process.
type Provider struct {
	loader     Loader
	namespaces []string
	defaultNS  string
	fallback   string
	logger     logger.Logger
	missSink   func(*TranslationMissError)
	misses     int64

	// changeMu sequences Init and ChangeLanguage end to end.
	changeMu sync.Mutex

	mu          sync.RWMutex
	bundle      *goi18n.Bundle
	localizer   *goi18n.Localizer
	lang        string
	loaded      map[string]map[string]bool
	listeners   []Listener
	initialized bool
}

func NewProvider(loader Loader, opts Options) (*Provider, error) {
	if opts.FallbackLanguage == "" {
		opts.FallbackLanguage = "en-US"
	}
	fallbackTag, err := language.Parse(opts.FallbackLanguage)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid fallback language %q: %w", opts.FallbackLanguage, err)
	}
	if len(opts.Namespaces) == 0 {
		opts.Namespaces = BaseNamespaces
	}
	if opts.DefaultNamespace == "" {
		opts.DefaultNamespace = opts.Namespaces[0]
	}
	if opts.Logger == nil {
		opts.Logger = logger.NoOp{}
	}

	p := &Provider{
		loader:     loader,
		namespaces: opts.Namespaces,
		defaultNS:  opts.DefaultNamespace,
		fallback:   fallbackTag.String(),
		logger:     opts.Logger,
		bundle:     goi18n.NewBundle(fallbackTag),
		loaded:     make(map[string]map[string]bool),
	}
	p.missSink = opts.MissSink
	if p.missSink == nil {
		p.missSink = func(miss *TranslationMissError) {
			p.logger.Warning("I18n", "translation missing", map[string]interface{}{
				"language":  miss.Language,
				"namespace": miss.Namespace,
				"key":       miss.Key,
				"fallback":  miss.Fallback,
			})
		}
	}
	p.lang = p.fallback
	p.localizer = goi18n.NewLocalizer(p.bundle, p.fallback)
	return p, nil
}

// Init loads the base namespaces for lang (and the fallback language) and
// makes lang current. Listeners are not notified. Calling Init twice is a
// no-op.
func (p *Provider) Init(ctx context.Context, lang string) error {
	p.changeMu.Lock()
	defer p.changeMu.Unlock()

	p.mu.RLock()
	done := p.initialized
	p.mu.RUnlock()
	if done {
		return nil
	}

	lang = ResolveLanguage(lang, p.loader.Languages(), p.fallback)
	if lang != p.fallback {
		p.loadAll(ctx, p.fallback)
	}
	if err := p.switchTo(ctx, lang); err != nil {
		return err
	}

	p.mu.Lock()
	p.initialized = true
	p.mu.Unlock()

	p.logger.Info("I18n", "i18n initialized", map[string]interface{}{"language": lang})
	return nil
}

// ChangeLanguage loads every base namespace of lang, switches to it and then
// notifies listeners once. Switching to the current language notifies nobody.
func (p *Provider) ChangeLanguage(ctx context.Context, lang string) error {
	p.changeMu.Lock()
	defer p.changeMu.Unlock()

	tag, err := language.Parse(normalizeLocale(lang))
	if err != nil {
		return fmt.Errorf("i18n: invalid language %q: %w", lang, err)
	}
	lang = ResolveLanguage(tag.String(), p.loader.Languages(), p.fallback)

	if lang == p.Language() {
		p.logger.Debug("I18n", "language unchanged", map[string]interface{}{"language": lang})
		return nil
	}

	if err := p.switchTo(ctx, lang); err != nil {
		return err
	}

	p.mu.RLock()
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.RUnlock()

	p.logger.Info("I18n", "language changed", map[string]interface{}{
		"language":  lang,
		"listeners": len(listeners),
	})
	for _, l := range listeners {
		l(ctx, lang)
	}
	return nil
}

func (p *Provider) switchTo(ctx context.Context, lang string) error {
	p.loadAll(ctx, lang)
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lang = lang
	p.localizer = goi18n.NewLocalizer(p.bundle, lang, p.fallback)
	return nil
}

// loadAll loads every base namespace concurrently. A namespace that fails
// to load is logged and left to the fallback language.
func (p *Provider) loadAll(ctx context.Context, lang string) {
	var g errgroup.Group
	for _, ns := range p.namespaces {
		ns := ns
		g.Go(func() error {
			if err := p.LoadNamespace(ctx, lang, ns); err != nil {
				p.logger.Error("I18n", err, map[string]interface{}{
					"language":  lang,
					"namespace": ns,
				})
			}
			return nil
		})
	}
	_ = g.Wait()
}

// LoadNamespace adds one (language, namespace) table to the bundle.
func (p *Provider) LoadNamespace(ctx context.Context, lang, namespace string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("i18n: invalid language %q: %w", lang, err)
	}

	table, err := p.loader.Load(ctx, lang, namespace)
	if err != nil {
		return err
	}

	messages := make([]*goi18n.Message, 0, len(table))
	for key, text := range table {
		messages = append(messages, &goi18n.Message{ID: namespace + ":" + key, Other: text})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.bundle.AddMessages(tag, messages...); err != nil {
		return fmt.Errorf("i18n: add %s/%s: %w", lang, namespace, err)
	}
	if p.loaded[lang] == nil {
		p.loaded[lang] = make(map[string]bool)
	}
	p.loaded[lang][namespace] = true

	p.logger.Debug("I18n", "namespace loaded", map[string]interface{}{
		"language":  lang,
		"namespace": namespace,
		"keys":      len(messages),
	})
	return nil
}

// Loaded reports whether namespace has been loaded for lang.
func (p *Provider) Loaded(lang, namespace string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded[lang][namespace]
}

// T translates key. A "ns:" prefix selects the namespace, otherwise the
// default namespace is used. Misses return the key unchanged.
func (p *Provider) T(key string, params map[string]interface{}) string {
	ns, bare := p.defaultNS, key
	if i := strings.Index(key, ":"); i > 0 {
		ns, bare = key[:i], key[i+1:]
	}
	return p.translate(ns, bare, params)
}

// NS returns a translate function bound to namespace.
func (p *Provider) NS(namespace string) TFunc {
	return func(key string, params map[string]interface{}) string {
		return p.translate(namespace, key, params)
	}
}

func (p *Provider) translate(namespace, key string, params map[string]interface{}) string {
	p.mu.RLock()
	localizer := p.localizer
	lang := p.lang
	text, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    namespace + ":" + key,
		TemplateData: params,
	})
	p.mu.RUnlock()

	if err == nil && text != "" {
		return text
	}

	// A key missing from lang comes back rendered in the fallback language
	// together with MessageNotFoundErr.
	var notFound *goi18n.MessageNotFoundErr
	fellBack := errors.As(err, &notFound) && text != ""

	atomic.AddInt64(&p.misses, 1)
	p.missSink(&TranslationMissError{Language: lang, Namespace: namespace, Key: key, Fallback: fellBack})
	if fellBack {
		return text
	}
	return key
}

func (p *Provider) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lang
}

func (p *Provider) FallbackLanguage() string {
	return p.fallback
}

// SupportedLanguages lists the languages the loader can serve.
func (p *Provider) SupportedLanguages() []string {
	return p.loader.Languages()
}

// OnLanguageChanged registers a listener.
func (p *Provider) OnLanguageChanged(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// Misses counts translation misses since start.
func (p *Provider) Misses() int64 {
	return atomic.LoadInt64(&p.misses)
}
