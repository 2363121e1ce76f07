package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/models"
	"mithqal/internal/pagination"
	"mithqal/internal/services"
)

// --- mock snapshot service ---

type mockSnapshotService struct {
	computeAndRecordSnapshotsFn func(recordedAt time.Time) (int, error)
	getSnapshotsFn              func(userID, portfolioID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error)
}

func (m *mockSnapshotService) ComputeAndRecordSnapshots(recordedAt time.Time) (int, error) {
	if m.computeAndRecordSnapshotsFn != nil {
		return m.computeAndRecordSnapshotsFn(recordedAt)
	}
	return 0, nil
}

func (m *mockSnapshotService) GetSnapshots(userID, portfolioID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	if m.getSnapshotsFn != nil {
		return m.getSnapshotsFn(userID, portfolioID, from, to, page)
	}
	resp := pagination.NewPageResponse([]models.PortfolioSnapshot{}, 1, 20, 0)
	return &resp, nil
}

var _ services.SnapshotServicer = (*mockSnapshotService)(nil)

func setupSnapshotRouter(handler *SnapshotHandler) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/snapshots", handler.TriggerSnapshots)
	auth := r.Group("", injectUserID(1))
	auth.GET("/portfolios/:id/snapshots", handler.GetSnapshots)
	return r
}

func TestSnapshotHandler_TriggerSnapshots(t *testing.T) {
	svc := &mockSnapshotService{
		computeAndRecordSnapshotsFn: func(_ time.Time) (int, error) {
			return 4, nil
		},
	}
	handler := NewSnapshotHandler(svc)
	r := setupSnapshotRouter(handler)

	rec := doRequest(r, "POST", "/pipeline/snapshots", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["recorded"].(float64) != 4 {
		t.Errorf("expected 4 recorded, got %v", result["recorded"])
	}
}

func TestSnapshotHandler_GetSnapshots(t *testing.T) {
	t.Run("returns snapshots", func(t *testing.T) {
		svc := &mockSnapshotService{
			getSnapshotsFn: func(_, _ uint, _, _ time.Time, _ pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
				resp := pagination.NewPageResponse([]models.PortfolioSnapshot{
					{ID: "s1", PortfolioID: 1, CurrentValue: 26000},
				}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewSnapshotHandler(svc)
		r := setupSnapshotRouter(handler)

		rec := doRequest(r, "GET", "/portfolios/1/snapshots", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected one snapshot, got %d", len(data))
		}
	})

	t.Run("returns 404 on foreign portfolio", func(t *testing.T) {
		svc := &mockSnapshotService{
			getSnapshotsFn: func(_, _ uint, _, _ time.Time, _ pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
				return nil, apperrors.ErrPortfolioNotFound
			},
		}
		handler := NewSnapshotHandler(svc)
		r := setupSnapshotRouter(handler)

		rec := doRequest(r, "GET", "/portfolios/2/snapshots", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad range", func(t *testing.T) {
		handler := NewSnapshotHandler(&mockSnapshotService{})
		r := setupSnapshotRouter(handler)

		rec := doRequest(r, "GET", "/portfolios/1/snapshots?from=notadate", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
