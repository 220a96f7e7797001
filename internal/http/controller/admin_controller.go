package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/sheets-storefront/internal/model"
	"github.com/iyhunko/sheets-storefront/internal/repository"
	"github.com/iyhunko/sheets-storefront/internal/service"
)

// CatalogueAdmin is the part of the catalogue service used by operators.
type CatalogueAdmin interface {
	Refresh(ctx context.Context) (*model.Snapshot, error)
	ListSnapshots(ctx context.Context, query repository.Query) ([]*model.Snapshot, error)
}

// AdminController handles the operator endpoints.
type AdminController struct {
	catalogue CatalogueAdmin
}

// NewAdminController creates a new AdminController.
func NewAdminController(catalogue CatalogueAdmin) *AdminController {
	return &AdminController{
		catalogue: catalogue,
	}
}

// SnapshotResponse represents the summary of a catalogue refresh.
type SnapshotResponse struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Hash         string  `json:"hash"`
	Received     int     `json:"received"`
	Accepted     int     `json:"accepted"`
	Rejected     int     `json:"rejected"`
	RejectedRows []int64 `json:"rejected_rows"`
	CreatedAt    string  `json:"created_at"`
}

// ListSnapshotsRequest represents the query parameters for listing snapshots.
type ListSnapshotsRequest struct {
	Limit  int32  `form:"limit"`
	Token  string `form:"token"`
	Source string `form:"source"`
}

// ListSnapshotsResponse represents the response body for listing snapshots.
type ListSnapshotsResponse struct {
	Snapshots     []SnapshotResponse `json:"snapshots"`
	NextPageToken string             `json:"next_page_token,omitempty"`
}

// Refresh handles the HTTP POST request that reloads the catalogue now.
func (ac *AdminController) Refresh(c *gin.Context) {
	snapshot, err := ac.catalogue.Refresh(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrEmptyCatalogue) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": "failed to refresh catalogue", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toSnapshotResponse(snapshot))
}

// ListSnapshots handles the HTTP GET request for the refresh history.
func (ac *AdminController) ListSnapshots(c *gin.Context) {
	var req ListSnapshotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := repository.NewQuery()
	if err := query.ApplyPagination(req.Limit, req.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Source != "" {
		query.With(repository.SourceField, req.Source)
	}

	snapshots, err := ac.catalogue.ListSnapshots(c.Request.Context(), *query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list snapshots"})
		return
	}

	response := ListSnapshotsResponse{
		Snapshots: make([]SnapshotResponse, 0, len(snapshots)),
		NextPageToken: repository.NextPageToken(snapshots, query.Limit, func(s *model.Snapshot) repository.Paginator {
			return repository.Paginator{LastID: s.ID, LastCreatedAt: s.CreatedAt}
		}),
	}
	for _, s := range snapshots {
		response.Snapshots = append(response.Snapshots, toSnapshotResponse(s))
	}

	c.JSON(http.StatusOK, response)
}

func toSnapshotResponse(s *model.Snapshot) SnapshotResponse {
	rejectedRows := s.RejectedRows
	if rejectedRows == nil {
		rejectedRows = []int64{}
	}
	return SnapshotResponse{
		ID:           s.ID.String(),
		Source:       s.Source,
		Hash:         s.Hash,
		Received:     s.Received,
		Accepted:     s.Accepted,
		Rejected:     s.Rejected,
		RejectedRows: rejectedRows,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}
