package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidPaginationToken is returned when a pagination token cannot be decoded.
	ErrInvalidPaginationToken = errors.New("token is invalid")
)

const (
	// DefaultPaginationLimit is the default number of items per page.
	DefaultPaginationLimit = 10
	maxPaginationLimit     = 100
)

// Paginator is the cursor of the last item on a page. Items are ordered by
// (created_at, id) descending.
type Paginator struct {
	LastID        uuid.UUID
	LastCreatedAt time.Time
}

// Encode encodes the cursor into a base64 page token.
func (t Paginator) Encode() string {
	key := fmt.Sprintf("%s,%s", t.LastCreatedAt.UTC().Format(time.RFC3339Nano), t.LastID)
	return base64.StdEncoding.EncodeToString([]byte(key))
}

// DecodePageToken decodes a base64-encoded pagination token into a Paginator.
func DecodePageToken(encodedToken string) (*Paginator, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 token: %w", err)
	}
	createdAtPart, idPart, ok := strings.Cut(string(raw), ",")
	if !ok {
		return nil, fmt.Errorf("invalid token format: %w", ErrInvalidPaginationToken)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtPart)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token ID: %w", err)
	}

	return &Paginator{
		LastID:        id,
		LastCreatedAt: createdAt.UTC(),
	}, nil
}

// After reports whether an item sorts after the cursor in (created_at, id)
// descending order, i.e. belongs to a later page.
func (t Paginator) After(createdAt time.Time, id uuid.UUID) bool {
	if !createdAt.Equal(t.LastCreatedAt) {
		return createdAt.Before(t.LastCreatedAt)
	}
	return strings.Compare(id.String(), t.LastID.String()) < 0
}
