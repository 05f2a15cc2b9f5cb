// AngelaMos | 2026
// collection.go

package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/sayan1112/v0-adult-video-website/internal/core")

// Collection holds its lock from read through write on every Update.
type Collection[T any] struct {
	store DocumentStore
	name  string
	mu    sync.RWMutex
}

func NewCollection[T any](store DocumentStore, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// All yields an empty slice when the document is missing or unreadable.
func (c *Collection[T]) All(ctx context.Context) []T {
	ctx, span := tracer.Start(ctx, "collection.all",
		trace.WithAttributes(attribute.String("collection", c.name)),
	)
	defer span.End()

	c.mu.RLock()
	defer c.mu.RUnlock()

	items, err := c.load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			SetSpanError(ctx, err)
			slog.WarnContext(ctx, "collection unreadable, serving empty",
				"collection", c.name,
				"error", err,
			)
		}
		return []T{}
	}

	span.SetAttributes(attribute.Int("collection.size", len(items)))
	return items
}

// Update skips the write when fn returns ErrNoChange. A document that
// cannot be decoded is reported, never overwritten.
func (c *Collection[T]) Update(
	ctx context.Context,
	fn func(items []T) ([]T, error),
) error {
	ctx, span := tracer.Start(ctx, "collection.update",
		trace.WithAttributes(attribute.String("collection", c.name)),
	)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if errors.Is(err, ErrNotFound) {
		items = []T{}
	} else if err != nil {
		SetSpanError(ctx, err)
		return fmt.Errorf("update %s: %w: %w", c.name, ErrStorage, err)
	}

	next, err := fn(items)
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	if next == nil {
		next = []T{}
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("update %s: encode: %w", c.name, err)
	}

	if err := c.store.Save(ctx, c.name, data); err != nil {
		SetSpanError(ctx, err)
		return fmt.Errorf("update %s: %w: %w", c.name, ErrStorage, err)
	}

	return nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.Load(ctx, c.name)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}

	if items == nil {
		items = []T{}
	}
	return items, nil
}
