package activenet

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/example/icecheck/internal/domain/availability"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTMLProber fetches the search page and scans the returned markup.
type HTMLProber struct {
	client    *resty.Client
	searchURL string
	log       *zap.Logger
}

func NewHTMLProber(opts Options, log *zap.Logger) *HTMLProber {
	return &HTMLProber{
		client:    newClient(opts),
		searchURL: opts.SearchURL,
		log:       log.Named("activenet.html"),
	}
}

func (p *HTMLProber) Name() string { return "html" }

func (p *HTMLProber) Probe(ctx context.Context, w availability.Window) availability.Result {
	start := time.Now()
	res := availability.Result{Date: w.Date, Link: SearchURL(p.searchURL, w)}

	state, err := p.fetch(ctx, res.Link)
	res.Duration = time.Since(start)
	if err != nil {
		p.log.Warn("probe failed", zap.String("date", w.Date), zap.String("url", res.Link), zap.Error(err))
		return res
	}
	res.Available = state.available()
	p.log.Debug("probe done", zap.String("date", w.Date), zap.Bool("available", res.Available), zap.Bool("rendered", state.Rendered))
	return res
}

func (p *HTMLProber) fetch(ctx context.Context, link string) (pageState, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(link)
	if err != nil {
		return pageState{}, err
	}
	if resp.StatusCode() != http.StatusOK {
		return pageState{}, fmt.Errorf("search page http %d", resp.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return pageState{}, err
	}
	return scanDocument(doc), nil
}

func scanDocument(doc *goquery.Document) pageState {
	empty := doc.Find(emptySelector)
	return pageState{
		Rendered:  empty.Length() > 0 || doc.Find(resultsSelector).Length() > 0,
		Empty:     empty.Length() > 0,
		EmptyText: strings.TrimSpace(empty.First().Text()),
	}
}
