// Package listing drives the paginated manuscript catalog: a rod-controlled
// browser session renders each listing page and goquery extracts the rows.
package listing

import (
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/tichalab/tichascrape/config"
	"github.com/tichalab/tichascrape/models"
)

// Session owns the browser for the listing phase. It is created once per
// run and must be closed on every exit path so no Chrome process outlives
// the scraper.
type Session struct {
	browser *rod.Browser
	cfg     config.BrowserConfig
}

// NewSession launches the browser and connects to it.
func NewSession(cfg config.BrowserConfig) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("window-size"), "1920,1080")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSetup,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "headless", cfg.Headless)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSetup,
			"failed to connect to browser",
			err,
		)
	}

	return &Session{browser: browser, cfg: cfg}, nil
}

// newPage opens a fresh tab prepared for the listing site: optional stealth
// script, browserlike headers, and resource blocking. The returned router
// may be nil when nothing is blocked.
func (s *Session) newPage() (*rod.Page, *rod.HijackRouter, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, nil, models.NewScrapeError(
			models.ErrCodeSetup,
			"failed to open page",
			err,
		)
	}

	if s.cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
		}),
	}.Call(page)

	router := setupHijack(page, s.cfg.BlockedResourceTypes)
	return page, router, nil
}

// Close kills the browser process. Safe to call once at shutdown.
func (s *Session) Close() {
	if s.browser != nil {
		s.browser.MustClose()
		slog.Info("browser closed")
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
