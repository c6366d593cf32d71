package settings

import (
	"testing"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestApplySettingsUpdate(t *testing.T) {
	row := &models.StoreSettings{DefaultMarkupPercent: 20, LowStockThreshold: 5}

	err := applySettingsUpdate(row, UpdateSettingsInput{
		StoreName:            strPtr("  ศรีสวัสดิ์วัสดุก่อสร้าง  "),
		DefaultMarkupPercent: intPtr(25),
		LowStockThreshold:    intPtr(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.StoreName != "ศรีสวัสดิ์วัสดุก่อสร้าง" {
		t.Fatalf("store name: %q", row.StoreName)
	}
	if row.DefaultMarkupPercent != 25 || row.LowStockThreshold != 10 {
		t.Fatal("defaults not applied")
	}

	err = applySettingsUpdate(row, UpdateSettingsInput{DefaultMarkupPercent: intPtr(-1)})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = applySettingsUpdate(row, UpdateSettingsInput{LowStockThreshold: intPtr(-2)})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExt(t *testing.T) {
	cases := map[string]string{
		"logo.PNG":  ".png",
		"logo.jpeg": ".jpeg",
		"noext":     "",
	}
	for in, want := range cases {
		if got := ext(in); got != want {
			t.Fatalf("ext(%q) = %q, want %q", in, got, want)
		}
	}
}
