package dashboard

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

type fixedThreshold int

func (f fixedThreshold) LowStockThreshold(context.Context) int { return int(f) }

func TestSummaryRejectsEmptyRange(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(nil),
		Thresholds: fixedThreshold(5),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	at := time.Now()
	_, err = svc.Summary(context.Background(), at, at)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Summary(context.Background(), at, at.Add(-time.Hour))
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewServiceValidatesDeps(t *testing.T) {
	if _, err := NewService(ServiceParams{Thresholds: fixedThreshold(5)}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(ServiceParams{Repo: NewRepository(nil)}); err == nil {
		t.Fatal("expected error without threshold source")
	}
}
