package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/ports"
)

// stubReportService records merge inputs and serves canned buckets.
type stubReportService struct {
	merges  []ports.MergeSectionInput
	deleted []string
}

func (s *stubReportService) MergeSection(_ context.Context, input ports.MergeSectionInput) (*domain.DateBucket, error) {
	if _, err := input.Department.Section(input.Section); err != nil {
		return nil, err
	}
	day, err := domain.ParseDay(input.Date)
	if err != nil {
		return nil, err
	}
	s.merges = append(s.merges, input)
	b := domain.NewBucket(day)
	b.ID = primitive.NewObjectID()
	b.Sections = map[string]any{input.Section: input.Payload}
	return b, nil
}

func (s *stubReportService) CurrentDate(_ context.Context, _ domain.Department) (*domain.DateBucket, error) {
	b := domain.NewBucket(domain.Today())
	b.ID = primitive.NewObjectID()
	return b, nil
}

func (s *stubReportService) GetByDate(_ context.Context, _ domain.Department, date string) (*domain.DateBucket, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, err
	}
	return domain.NewBucket(day), nil
}

func (s *stubReportService) Range(_ context.Context, _ domain.Department, _ ports.DateRangeInput) ([]*domain.DateBucket, error) {
	return []*domain.DateBucket{}, nil
}

func (s *stubReportService) DeleteBucket(_ context.Context, _ domain.Department, bucketID string) error {
	s.deleted = append(s.deleted, bucketID)
	return nil
}

func TestReportHandler_TableUpdate(t *testing.T) {
	svc := &stubReportService{}
	h := NewReportHandler(svc, domain.DeptMelting)

	c, rec := newTestContext(http.MethodPost, "/api/melting/table-update",
		`{"date":"2025-06-10","section":"charging_kg","payload":{"furnace1":{"scrap":1200}}}`)
	if err := h.TableUpdate(c); err != nil {
		t.Fatalf("table-update failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope: %s", rec.Body.String())
	}
	if len(svc.merges) != 1 {
		t.Fatalf("merge did not reach the service: %+v", svc.merges)
	}
	if svc.merges[0].Department != domain.DeptMelting || svc.merges[0].Section != "charging_kg" {
		t.Fatalf("merge input mismatch: %+v", svc.merges[0])
	}
}

func TestReportHandler_TableUpdate_MissingSection(t *testing.T) {
	h := NewReportHandler(&stubReportService{}, domain.DeptMelting)

	c, _ := newTestContext(http.MethodPost, "/api/melting/table-update",
		`{"date":"2025-06-10","payload":{"x":1}}`)
	err := h.TableUpdate(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing section, got %v", err)
	}
}

func TestReportHandler_TableUpdate_UnknownSection(t *testing.T) {
	h := NewReportHandler(&stubReportService{}, domain.DeptMelting)

	c, _ := newTestContext(http.MethodPost, "/api/melting/table-update",
		`{"date":"2025-06-10","section":"production_rows","payload":[{"a":1}]}`)
	err := h.TableUpdate(c)
	if err == nil {
		t.Fatal("expected an error for a section the department does not expose")
	}
	if he, ok := err.(*echo.HTTPError); ok {
		t.Fatalf("domain errors must pass through untranslated, got HTTPError %v", he)
	}
}

func TestReportHandler_Delete(t *testing.T) {
	svc := &stubReportService{}
	h := NewReportHandler(svc, domain.DeptQCProduction)

	id := primitive.NewObjectID().Hex()
	c, rec := newTestContext(http.MethodDelete, "/api/qcproduction/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("delete did not reach the service: %v", svc.deleted)
	}
}
