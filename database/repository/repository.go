// Package repository holds helpers shared by the collection repositories.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document addressed by id does not exist.
var ErrNotFound = errors.New("document not found")

const (
	DefaultTimeout = 5 * time.Second
	IndexTimeout   = 10 * time.Second
)

// NewContext derives a context bounded by timeout from parent.
func NewContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// WithTransaction runs fn inside a multi-document transaction. The driver retries
// fn on transient transaction errors, so fn must be safe to re-run.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// PageQuery describes a descending keyset page over sortField with id as tie-break.
type PageQuery struct {
	Filter    bson.M
	SortField string
	Cursor    string
	Limit     int
}

// Page is one page of results. NextCursor is set only when the page is full.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

// FindPage runs q against coll. A cursor id that no longer exists is ignored and
// the first page is returned.
func FindPage[T any](ctx context.Context, coll *mongo.Collection, q PageQuery, idOf func(T) string) (Page[T], error) {
	ctx, cancel := NewContext(ctx, DefaultTimeout)
	defer cancel()

	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	if q.Cursor != "" {
		var anchor bson.Raw
		err := coll.FindOne(ctx, bson.M{"id": q.Cursor},
			options.FindOne().SetProjection(bson.M{q.SortField: 1, "id": 1})).Decode(&anchor)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
		case err != nil:
			return Page[T]{}, fmt.Errorf("failed to resolve cursor %s: %w", q.Cursor, err)
		default:
			value, lookupErr := anchor.LookupErr(q.SortField)
			if lookupErr != nil {
				break
			}
			after := bson.M{"$or": bson.A{
				bson.M{q.SortField: bson.M{"$lt": value}},
				bson.M{q.SortField: value, "id": bson.M{"$lt": q.Cursor}},
			}}
			filter = bson.M{"$and": bson.A{filter, after}}
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: q.SortField, Value: -1}, {Key: "id", Value: -1}}).
		SetLimit(int64(q.Limit))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return Page[T]{}, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0, q.Limit)
	if err := cursor.All(ctx, &items); err != nil {
		return Page[T]{}, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}

	page := Page[T]{Items: items}
	if q.Limit > 0 && len(items) == q.Limit {
		next := idOf(items[len(items)-1])
		page.NextCursor = &next
	}
	return page, nil
}
