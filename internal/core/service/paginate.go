package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/shopgrid/platform/internal/core/domain"
)

// paginate runs the page query and the total count concurrently.
func paginate[T any](
	ctx context.Context,
	page domain.Page,
	find func(ctx context.Context, page domain.Page) ([]T, error),
	count func(ctx context.Context) (int64, error),
) (*domain.PageResult[T], error) {
	page = page.Normalize()

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = find(gctx, page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := domain.NewPageResult(items, total, page)
	return &res, nil
}
