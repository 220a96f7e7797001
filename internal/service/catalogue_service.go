package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iyhunko/sheets-storefront/internal/catalogue"
	"github.com/iyhunko/sheets-storefront/internal/metrics"
	"github.com/iyhunko/sheets-storefront/internal/model"
	"github.com/iyhunko/sheets-storefront/internal/repository"
	"github.com/iyhunko/sheets-storefront/internal/source"
	"github.com/iyhunko/sheets-storefront/internal/sqs"
)

var (
	// ErrEmptyCatalogue is returned when a refresh yields no valid product.
	ErrEmptyCatalogue = errors.New("catalogue has no valid products")

	// ErrNoCatalogue is returned while no catalogue has been loaded yet.
	ErrNoCatalogue = errors.New("catalogue not loaded")

	// ErrInvalidInquiry is returned for an inquiry without a product name.
	ErrInvalidInquiry = errors.New("inquiry requires a product name")

	// ErrUnknownProduct is returned for an inquiry whose code is not in the served catalogue.
	ErrUnknownProduct = errors.New("product not in catalogue")

	// ErrOutOfStock is returned for an inquiry about a product without stock.
	ErrOutOfStock = errors.New("product out of stock")
)

// InquiryPublisher sends purchase inquiries downstream.
type InquiryPublisher interface {
	PublishInquiry(ctx context.Context, msg sqs.InquiryMessage) error
}

// Options tunes a CatalogueService. Zero values fall back to defaults.
type Options struct {
	Layout           catalogue.Layout
	FetchTimeout     time.Duration
	MessagingBaseURL string
}

// CatalogueService fetches, normalizes and serves the product catalogue.
type CatalogueService struct {
	src       source.Source
	repo      repository.SnapshotRepository
	publisher InquiryPublisher
	opts      Options

	refreshMu sync.Mutex
	mu        sync.RWMutex
	current   *model.Snapshot
}

// NewCatalogueService creates a new CatalogueService. publisher may be nil.
func NewCatalogueService(src source.Source, repo repository.SnapshotRepository, publisher InquiryPublisher, opts Options) *CatalogueService {
	if opts.Layout == (catalogue.Layout{}) {
		opts.Layout = catalogue.DefaultLayout
	}
	if opts.MessagingBaseURL == "" {
		opts.MessagingBaseURL = catalogue.DefaultMessagingBaseURL
	}
	return &CatalogueService{
		src:       src,
		repo:      repo,
		publisher: publisher,
		opts:      opts,
	}
}

// Refresh fetches the sheet and replaces the served catalogue. On any error
// the previous catalogue stays in place.
func (cs *CatalogueService) Refresh(ctx context.Context) (*model.Snapshot, error) {
	cs.refreshMu.Lock()
	defer cs.refreshMu.Unlock()

	snapshot, err := cs.refresh(ctx)
	if err != nil {
		metrics.CatalogueRefreshes.WithLabelValues(metrics.ResultFailure).Inc()
		slog.Error("Catalogue refresh failed", slog.String("source", cs.src.Name()), slog.Any("err", err))
		return nil, err
	}

	metrics.CatalogueRefreshes.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.ProductsServed.Set(float64(len(snapshot.Products)))
	metrics.LastRefresh.SetToCurrentTime()
	return snapshot, nil
}

func (cs *CatalogueService) refresh(ctx context.Context) (*model.Snapshot, error) {
	fetchCtx := ctx
	if cs.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, cs.opts.FetchTimeout)
		defer cancel()
	}

	started := time.Now()
	rows, err := cs.src.FetchRows(fetchCtx)
	metrics.FetchDuration.WithLabelValues(cs.src.Name()).Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalogue: %w", err)
	}

	res := catalogue.NormalizeRows(rows, cs.opts.Layout)
	for _, rej := range res.Rejections {
		metrics.RowsRejected.WithLabelValues(rej.Reason).Inc()
		slog.Debug("Row dropped", slog.Int("row", rej.Row), slog.String("reason", rej.Reason))
	}
	if len(res.Products) == 0 {
		return nil, fmt.Errorf("%w: %d rows received", ErrEmptyCatalogue, res.Received)
	}

	hash, err := catalogue.Fingerprint(res.Products)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint catalogue: %w", err)
	}

	snapshot := &model.Snapshot{
		Source:       cs.src.Name(),
		Hash:         hash,
		Received:     res.Received,
		Accepted:     len(res.Products),
		Rejected:     len(res.Rejections),
		RejectedRows: res.RejectedRows(),
		Products:     res.Products,
	}

	previous := cs.Current()
	if !snapshot.Changed(previous) {
		slog.Info("Catalogue unchanged", slog.String("hash", hash), slog.Int("products", len(previous.Products)))
		return previous, nil
	}

	stored, err := cs.repo.Create(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	cs.setCurrent(stored)
	slog.Info("Catalogue refreshed",
		slog.String("snapshot_id", stored.ID.String()),
		slog.String("source", stored.Source),
		slog.Int("received", stored.Received),
		slog.Int("accepted", stored.Accepted),
		slog.Int("rejected", stored.Rejected),
	)
	return stored, nil
}

// Restore serves the latest stored snapshot, if any, until the first refresh.
func (cs *CatalogueService) Restore(ctx context.Context) error {
	latest, err := cs.repo.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Info("No stored catalogue snapshot to restore")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore catalogue: %w", err)
	}

	cs.setCurrent(latest)
	metrics.ProductsServed.Set(float64(len(latest.Products)))
	slog.Info("Catalogue restored", slog.String("snapshot_id", latest.ID.String()), slog.Int("products", len(latest.Products)))
	return nil
}

// Current returns the snapshot being served, or nil before the first load.
func (cs *CatalogueService) Current() *model.Snapshot {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.current
}

func (cs *CatalogueService) setCurrent(s *model.Snapshot) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.current = s
}

// Products returns the served products in the given category.
// An empty category or catalogue.AllCategory returns every product.
// The returned slice must not be modified.
func (cs *CatalogueService) Products(category string) ([]model.Product, error) {
	current := cs.Current()
	if current == nil {
		return nil, ErrNoCatalogue
	}
	if category == "" {
		category = catalogue.AllCategory
	}
	return catalogue.FilterByCategory(current.Products, category), nil
}

// Categories returns the category filter options for the served catalogue.
func (cs *CatalogueService) Categories() ([]string, error) {
	current := cs.Current()
	if current == nil {
		return nil, ErrNoCatalogue
	}
	return catalogue.Categories(current.Products), nil
}

// ListSnapshots returns stored snapshot summaries, newest first.
func (cs *CatalogueService) ListSnapshots(ctx context.Context, query repository.Query) ([]*model.Snapshot, error) {
	return cs.repo.List(ctx, query)
}

// InquiryLink returns the messaging link for a product.
func (cs *CatalogueService) InquiryLink(p model.Product) string {
	return catalogue.InquiryLink(cs.opts.MessagingBaseURL, p.Name, p.Code)
}

// Inquire builds the inquiry link for a product and publishes the inquiry.
// Once a catalogue is served, code must name an available product and its
// served name replaces name. Before the first load name is taken as given.
// Publish failures are logged and do not fail the inquiry.
func (cs *CatalogueService) Inquire(ctx context.Context, code, name string) (string, error) {
	if code == "" && name == "" {
		return "", ErrInvalidInquiry
	}

	if current := cs.Current(); current != nil {
		p, ok := findByCode(current.Products, code)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownProduct, code)
		}
		if !p.Available() {
			return "", fmt.Errorf("%w: %q", ErrOutOfStock, code)
		}
		name = p.Name
	}
	if name == "" {
		return "", ErrInvalidInquiry
	}

	link := catalogue.InquiryLink(cs.opts.MessagingBaseURL, name, code)
	metrics.InquiriesCreated.Inc()

	if cs.publisher != nil {
		msg := sqs.InquiryMessage{
			Code:        code,
			Name:        name,
			Link:        link,
			RequestedAt: time.Now().UTC(),
		}
		if err := cs.publisher.PublishInquiry(ctx, msg); err != nil {
			// Log error but don't fail the request
			slog.Error("Failed to send SQS message", slog.Any("err", err), slog.String("code", code))
		}
	}

	return link, nil
}

func findByCode(products []model.Product, code string) (model.Product, bool) {
	if code == "" {
		return model.Product{}, false
	}
	for _, p := range products {
		if p.Code == code {
			return p, true
		}
	}
	return model.Product{}, false
}
