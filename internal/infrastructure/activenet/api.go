package activenet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Options struct {
	SearchURL   string
	ResourceURL string
	Timeout     time.Duration
	UserAgent   string
}

const defaultUA = "Mozilla/5.0 (X11; Linux x86_64) icecheck/1.0"

func newClient(opts Options) *resty.Client {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUA
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", ua)
}

// APIProber asks the JSON reservation search endpoint directly.
type APIProber struct {
	client      *resty.Client
	searchURL   string
	resourceURL string
	log         *zap.Logger
}

func NewAPIProber(opts Options, log *zap.Logger) *APIProber {
	return &APIProber{
		client:      newClient(opts),
		searchURL:   opts.SearchURL,
		resourceURL: opts.ResourceURL,
		log:         log.Named("activenet.api"),
	}
}

func (p *APIProber) Name() string { return "api" }

type searchResponse struct {
	Body *struct {
		Items []struct {
			Availability string `json:"availability"`
		} `json:"items"`
	} `json:"body"`
}

func (p *APIProber) Probe(ctx context.Context, w availability.Window) availability.Result {
	start := time.Now()
	res := availability.Result{Date: w.Date, Link: SearchURL(p.searchURL, w)}

	ok, err := p.search(ctx, w)
	res.Duration = time.Since(start)
	if err != nil {
		p.log.Warn("probe failed", zap.String("date", w.Date), zap.Duration("took", res.Duration), zap.Error(err))
		return res
	}
	res.Available = ok
	p.log.Debug("probe done", zap.String("date", w.Date), zap.Bool("available", ok), zap.Duration("took", res.Duration))
	return res
}

func (p *APIProber) search(ctx context.Context, w availability.Window) (bool, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(NewSearchRequest(w)).
		Post(p.resourceURL)
	if err != nil {
		return false, err
	}
	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("search http %d", resp.StatusCode())
	}

	var parsed searchResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return false, fmt.Errorf("parse search response: %w", err)
	}
	if parsed.Body == nil {
		return false, fmt.Errorf("search response has no body")
	}
	for _, it := range parsed.Body.Items {
		if strings.EqualFold(it.Availability, "available") {
			return true, nil
		}
	}
	return false, nil
}
