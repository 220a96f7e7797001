package repository

import (
	"errors"
	"log/slog"
)

const (
	SourceField QueryField = "source"
	HashField   QueryField = "hash"
)

// ErrInvalidPageToken is returned for a page token that cannot be decoded.
var ErrInvalidPageToken = errors.New("invalid page token")

type Query struct {
	Values map[QueryField]string

	Limit int

	Paginator *Paginator
}

type QueryField string

func NewQuery() *Query {
	return &Query{
		Values: map[QueryField]string{},
	}
}

func (q *Query) With(field QueryField, val string) *Query {
	q.Values[field] = val
	return q
}

func (q *Query) ApplyPagination(limit int32, token string) error {
	queryLimit := DefaultPaginationLimit
	if limit > 0 {
		queryLimit = min(maxPaginationLimit, int(limit))
	}
	q.Limit = queryLimit

	if token == "" {
		return nil
	}

	paginator, err := DecodePageToken(token)
	if err != nil {
		slog.Error("failed to decode page token", slog.Any("err", err), slog.String("token", token))
		return ErrInvalidPageToken
	}
	q.Paginator = paginator
	return nil
}

// NextPageToken returns the token for the page after the given one, or ""
// when the page was not full.
func NextPageToken[T any](page []T, limit int, cursor func(T) Paginator) string {
	if len(page) == 0 || len(page) < limit {
		return ""
	}
	return cursor(page[len(page)-1]).Encode()
}
