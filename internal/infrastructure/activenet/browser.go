package activenet

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/example/icecheck/internal/domain/availability"
	"go.uber.org/zap"
)

const (
	DefaultElementWait = 5 * time.Second
	defaultPageTimeout = 45 * time.Second
)

type BrowserOptions struct {
	SearchURL   string
	ChromePath  string
	ElementWait time.Duration
	PageTimeout time.Duration
}

// BrowserProber loads the search page in a fresh headless Chromium per probe
// and reads the rendered DOM.
type BrowserProber struct {
	opts BrowserOptions
	log  *zap.Logger
}

func NewBrowserProber(opts BrowserOptions, log *zap.Logger) *BrowserProber {
	if opts.ElementWait <= 0 {
		opts.ElementWait = DefaultElementWait
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = defaultPageTimeout
	}
	return &BrowserProber{opts: opts, log: log.Named("activenet.browser")}
}

func (p *BrowserProber) Name() string { return "browser" }

func (p *BrowserProber) Probe(ctx context.Context, w availability.Window) availability.Result {
	start := time.Now()
	res := availability.Result{Date: w.Date, Link: SearchURL(p.opts.SearchURL, w)}

	state, err := p.render(ctx, res.Link)
	res.Duration = time.Since(start)
	if err != nil {
		p.log.Warn("probe failed", zap.String("date", w.Date), zap.String("url", res.Link), zap.Error(err))
		return res
	}
	res.Available = state.available()
	p.log.Debug("probe done", zap.String("date", w.Date), zap.Bool("available", res.Available),
		zap.Bool("rendered", state.Rendered), zap.Duration("took", res.Duration))
	return res
}

func (p *BrowserProber) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if p.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(p.opts.ChromePath))
	}
	return opts
}

const pageStateJS = `(() => {
	const empty = document.querySelector("` + emptySelector + `");
	return {
		rendered: !!(empty || document.querySelector("` + resultsSelector + `")),
		empty: !!empty,
		emptyText: empty ? empty.innerText : ""
	};
})()`

// render owns the browser for the whole probe; every return path runs the
// deferred cancels, which close the tab and kill the Chromium process.
func (p *BrowserProber) render(parent context.Context, link string) (pageState, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, p.allocatorOptions()...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, p.opts.PageTimeout)
	defer cancelTimeout()

	if err := chromedp.Run(ctx, chromedp.Navigate(link)); err != nil {
		return pageState{}, err
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, p.opts.ElementWait)
	err := chromedp.Run(waitCtx, chromedp.WaitReady(resultsSelector+", "+emptySelector, chromedp.ByQuery))
	cancelWait()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// nothing rendered within the element wait
			return pageState{}, nil
		}
		return pageState{}, err
	}

	var state pageState
	if err := chromedp.Run(ctx, chromedp.Evaluate(pageStateJS, &state)); err != nil {
		return pageState{}, err
	}
	return state, nil
}
