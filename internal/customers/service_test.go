package customers

import (
	"testing"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestApplyCustomerUpdate(t *testing.T) {
	t.Run("trims and applies fields", func(t *testing.T) {
		customer := &models.Customer{Name: "old", Tier: enums.CustomerTierWalkIn}
		tier := enums.CustomerTierContractor
		err := applyCustomerUpdate(customer, UpdateCustomerInput{
			Name:  strPtr("  ช่างสมชาย  "),
			Phone: strPtr("081-234-5678"),
			Tier:  &tier,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if customer.Name != "ช่างสมชาย" {
			t.Fatalf("name: %q", customer.Name)
		}
		if customer.Tier != enums.CustomerTierContractor {
			t.Fatalf("tier: %s", customer.Tier)
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		customer := &models.Customer{Name: "old"}
		err := applyCustomerUpdate(customer, UpdateCustomerInput{Name: strPtr("   ")})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		customer := &models.Customer{Name: "old"}
		bad := enums.CustomerTier("wholesale")
		err := applyCustomerUpdate(customer, UpdateCustomerInput{Tier: &bad})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestNewCustomerDTO(t *testing.T) {
	customer := &models.Customer{
		Name:  "หจก. ก่อสร้างไทย",
		TaxID: "0105551234567",
		Tier:  enums.CustomerTierGovernment,
	}
	dto := newCustomerDTO(customer)
	if dto.Name != customer.Name || dto.TaxID != customer.TaxID || dto.Tier != enums.CustomerTierGovernment {
		t.Fatal("fields not carried")
	}
}
