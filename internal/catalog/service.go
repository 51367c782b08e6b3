package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mitienda/mitienda/internal/notify"
	"github.com/mitienda/mitienda/internal/shared"
)

// Sweeper schedules removal of cart line items that reference a deleted
// product. Enqueue failures never fail the delete itself.
type Sweeper interface {
	EnqueueCartSweep(ctx context.Context, productID string) error
}

// NoopSweeper skips scheduling; dangling references stay until resolved as
// nil on read.
type NoopSweeper struct{}

// EnqueueCartSweep implements Sweeper.
func (NoopSweeper) EnqueueCartSweep(context.Context, string) error { return nil }

// ListResult is a page of products plus pagination metadata.
type ListResult struct {
	Items      []Product
	Pagination shared.Pagination
}

// Service implements product catalog operations. Events are published only
// after the store mutation succeeds.
type Service struct {
	repo     Repository
	notifier notify.Notifier
	sweeper  Sweeper
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService constructs the catalog service.
func NewService(repo Repository, notifier notify.Notifier, sweeper Sweeper, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if sweeper == nil {
		sweeper = NoopSweeper{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		sweeper:  sweeper,
		logger:   logger,
		validate: validator.New(),
	}
}

// List returns a filtered, sorted, paginated product page. A page past the
// end yields an empty item set with valid metadata.
func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Sort != "" && q.Sort != SortAsc && q.Sort != SortDesc {
		return ListResult{}, fmt.Errorf("%w: sort must be asc or desc", shared.ErrValidation)
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Items:      items,
		Pagination: shared.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Get fetches one product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create validates the form and stores a new product. Status defaults to
// true when absent.
func (s *Service) Create(ctx context.Context, form CreateProductForm) (Product, error) {
	if err := s.validateForm(form); err != nil {
		return Product{}, err
	}

	status := true
	if form.Status != nil {
		status = *form.Status
	}
	thumbnails := form.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}

	product, err := s.repo.Create(ctx, Product{
		Title:       form.Title,
		Description: form.Description,
		Code:        form.Code,
		Price:       *form.Price,
		Status:      status,
		Stock:       *form.Stock,
		Category:    form.Category,
		Thumbnails:  thumbnails,
	})
	if err != nil {
		return Product{}, err
	}

	s.notifier.Publish(ctx, notify.Event{Name: notify.EventProductAdded, Payload: product})
	return product, nil
}

// Update applies a partial update. Id and code are immutable through this
// path.
func (s *Service) Update(ctx context.Context, id string, form UpdateProductForm) (Product, error) {
	if err := s.validateForm(form); err != nil {
		return Product{}, err
	}

	product, err := s.repo.Update(ctx, id, form.Patch())
	if err != nil {
		return Product{}, err
	}

	s.notifier.Publish(ctx, notify.Event{Name: notify.EventProductUpdated, Payload: product})
	return product, nil
}

// Delete removes a product and schedules the cart sweep for its id.
func (s *Service) Delete(ctx context.Context, id string) (Product, error) {
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Product{}, err
	}

	s.notifier.Publish(ctx, notify.Event{Name: notify.EventProductDeleted, Payload: map[string]string{"id": product.ID}})
	if err := s.sweeper.EnqueueCartSweep(ctx, product.ID); err != nil {
		s.logger.Warn("enqueue cart sweep", slog.String("product_id", product.ID), slog.Any("error", err))
	}
	return product, nil
}

func (s *Service) validateForm(form any) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return fmt.Errorf("%w: invalid or missing fields: %s", shared.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", shared.ErrValidation, err)
}
