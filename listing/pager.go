package listing

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tichalab/tichascrape/config"
	"github.com/tichalab/tichascrape/models"
	"github.com/tichalab/tichascrape/ratelimit"
)

const (
	// readySelector matches a populated table row; its presence is the
	// "page is ready" signal after the initial navigation.
	readySelector = "table tbody tr"

	// nextControlSelector locates the DataTables pagination control.
	nextControlSelector = "#myTable_next"

	// controlLookupTimeout bounds the pagination-control lookup; a missing
	// control means the last page, so a short deadline is enough.
	controlLookupTimeout = 3 * time.Second
)

// pageDriver is the surface of a live listing page the traversal loop
// needs. The rod-backed implementation drives the real site; tests drive
// the loop with fixtures.
type pageDriver interface {
	// HTML returns the current rendered page markup.
	HTML() (string, error)

	// PaginationClass returns the pagination control's class attribute and
	// whether the control could be located at all.
	PaginationClass() (string, bool)

	// ClickNext snapshots the current table state and triggers the
	// pagination control.
	ClickNext() error

	// WaitRefresh blocks until the table content differs from the
	// snapshot taken by ClickNext, bounded by timeout.
	WaitRefresh(timeout time.Duration) error
}

// Pager walks the paginated manuscript listing and accumulates accepted
// rows across pages, in page order then in-page order.
type Pager struct {
	session *Session
	limiter *ratelimit.Limiter
	cfg     config.ScrapeConfig
}

// NewPager creates a Pager using the given session and shared rate limiter.
func NewPager(session *Session, limiter *ratelimit.Limiter, cfg config.ScrapeConfig) *Pager {
	return &Pager{session: session, limiter: limiter, cfg: cfg}
}

// Run navigates to the listing and traverses every page until the
// pagination control reports disabled (or disappears), a refresh wait
// times out, or the page cap is reached.
//
// Failure to bring up the first page is fatal; everything after that
// degrades to ending the traversal with the rows collected so far.
// Context cancellation aborts with the context's error and no rows.
func (p *Pager) Run(ctx context.Context) ([]models.ManuscriptRow, error) {
	page, router, err := p.session.newPage()
	if err != nil {
		return nil, err
	}
	defer func() {
		if router != nil {
			_ = router.Stop()
		}
		_ = page.Close()
	}()

	pg := page.Context(ctx)

	slog.Info("navigating to listing", "url", p.cfg.ListingURL)
	if err := pg.Navigate(p.cfg.ListingURL); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSetup,
			"initial navigation failed",
			err,
		)
	}
	if err := pg.Timeout(p.cfg.InitialTimeout).WaitElementsMoreThan(readySelector, 0); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSetup,
			"listing table never became ready",
			err,
		)
	}

	base, err := url.Parse(p.cfg.ListingURL)
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"invalid listing URL",
			err,
		)
	}

	return p.traverse(ctx, &rodPage{pg: pg}, base)
}

// traverse is the pagination state machine: extract the current page, stop
// on the disabled (or missing) control or the page cap, otherwise click
// through with the rate-limit delay applied between page loads.
func (p *Pager) traverse(ctx context.Context, d pageDriver, base *url.URL) ([]models.ManuscriptRow, error) {
	var all []models.ManuscriptRow

	for pageNum := 1; ; pageNum++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		html, err := d.HTML()
		if err != nil {
			if pageNum == 1 {
				return nil, models.NewScrapeError(
					models.ErrCodeSetup,
					"failed to read listing page",
					err,
				)
			}
			slog.Warn("failed to read page HTML, ending traversal",
				"page", pageNum, "error", err)
			break
		}

		rows, skipped := ParseRows(html, base)
		all = append(all, rows...)
		slog.Info("page extracted",
			"page", pageNum, "rows", len(rows), "skipped", skipped, "total", len(all))

		if pageNum >= p.cfg.MaxPages {
			slog.Warn("reached page cap, ending traversal", "pages", pageNum)
			break
		}

		class, found := d.PaginationClass()
		if !found {
			slog.Warn("pagination control not found, treating as last page")
			break
		}
		if !hasNextFromClass(class) {
			slog.Info("last page reached", "pages", pageNum)
			break
		}

		if err := p.advance(ctx, d); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("pagination did not advance, keeping partial results",
				"page", pageNum, "error", err)
			break
		}
	}

	return all, nil
}

// hasNextFromClass decides whether another page exists from the pagination
// control's class attribute. The site marks the control with a class
// containing "disabled" once the last page is shown.
func hasNextFromClass(class string) bool {
	return !strings.Contains(class, "disabled")
}

// advance clicks the control, applies the rate-limit delay, and waits for
// the table content to observably change.
func (p *Pager) advance(ctx context.Context, d pageDriver) error {
	if err := d.ClickNext(); err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"failed to click pagination control",
			err,
		)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := d.WaitRefresh(p.cfg.PaginateTimeout); err != nil {
		return models.NewScrapeError(
			models.ErrCodePageTimeout,
			"table did not refresh after pagination",
			err,
		)
	}
	return nil
}

// rodPage adapts a live rod page to the pageDriver interface.
type rodPage struct {
	pg     *rod.Page
	marker string
}

func (r *rodPage) HTML() (string, error) {
	return r.pg.HTML()
}

func (r *rodPage) PaginationClass() (string, bool) {
	el, err := r.pg.Timeout(controlLookupTimeout).Element(nextControlSelector)
	if err != nil {
		return "", false
	}
	class, err := el.Attribute("class")
	if err != nil || class == nil {
		return "", true
	}
	return *class, true
}

func (r *rodPage) ClickNext() error {
	r.marker = r.firstRowText()

	el, err := r.pg.Timeout(controlLookupTimeout).Element(nextControlSelector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// WaitRefresh polls until the first row's text differs from the pre-click
// snapshot. The site swaps rows in place, so a changed first row is the
// observable "new page" signal.
func (r *rodPage) WaitRefresh(timeout time.Duration) error {
	return r.pg.Timeout(timeout).Wait(rod.Eval(`(prev) => {
		const tr = document.querySelector("table tbody tr");
		if (tr === null) return false;
		const text = tr.innerText.trim();
		return prev === "" ? text !== "" : text !== prev;
	}`, r.marker))
}

// firstRowText snapshots the first table row's visible text, or "" when
// the table is empty or unreadable.
func (r *rodPage) firstRowText() string {
	res, err := r.pg.Eval(`() => {
		const tr = document.querySelector("table tbody tr");
		return tr ? tr.innerText.trim() : "";
	}`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}
