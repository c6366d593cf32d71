package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestValidateVariantInput(t *testing.T) {
	valid := VariantInput{
		SKU:         "PVC-20",
		Name:        "20mm",
		Stock:       10,
		PriceWalkIn: decimal.NewFromInt(35),
		Cost:        decimal.NewFromInt(20),
	}
	if err := validateVariantInput(valid); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	cases := map[string]VariantInput{
		"missingSKU":    {Name: "20mm"},
		"missingName":   {SKU: "PVC-20"},
		"negativeStock": {SKU: "PVC-20", Name: "20mm", Stock: -1},
		"negativePrice": {SKU: "PVC-20", Name: "20mm", PriceWalkIn: decimal.NewFromInt(-5)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			err := validateVariantInput(input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApplyVariantUpdateReportsPriceChange(t *testing.T) {
	variant := &models.ProductVariant{
		SKU:         "PVC-20",
		Name:        "20mm",
		PriceWalkIn: decimal.NewFromInt(35),
		Cost:        decimal.NewFromInt(20),
	}

	name := "  25mm  "
	if changed := applyVariantUpdate(variant, UpdateVariantInput{Name: &name}); changed {
		t.Fatal("name change should not report a price change")
	}
	if variant.Name != "25mm" {
		t.Fatalf("expected trimmed name, got %q", variant.Name)
	}

	samePrice := decimal.NewFromInt(35)
	if changed := applyVariantUpdate(variant, UpdateVariantInput{PriceWalkIn: &samePrice}); changed {
		t.Fatal("equal price should not report a change")
	}

	newPrice := decimalFromString(t, "37.50")
	if changed := applyVariantUpdate(variant, UpdateVariantInput{PriceWalkIn: &newPrice}); !changed {
		t.Fatal("expected price change to be reported")
	}
	if !variant.PriceWalkIn.Equal(newPrice) {
		t.Fatalf("price not applied: %s", variant.PriceWalkIn)
	}
}

func TestNewVariantDTOStatusDerivation(t *testing.T) {
	cases := []struct {
		stock  int
		status enums.VariantStatus
	}{
		{0, enums.VariantStatusOutOfStock},
		{3, enums.VariantStatusLowStock},
		{5, enums.VariantStatusInStock},
		{50, enums.VariantStatusInStock},
	}
	for _, tc := range cases {
		dto := NewVariantDTO(&models.ProductVariant{ID: uuid.New(), Stock: tc.stock}, 5)
		if dto.Status != tc.status {
			t.Errorf("stock %d: expected %s, got %s", tc.stock, tc.status, dto.Status)
		}
	}
}

type fakeCacheStore struct {
	data map[string]string
	dels []string
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{data: map[string]string{}}
}

func (f *fakeCacheStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", context.Canceled
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeCacheStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
		f.dels = append(f.dels, k)
	}
	return nil
}

func (f *fakeCacheStore) CacheKey(entity string, parts ...string) string {
	key := "spos:cache:" + entity
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func TestProductCacheRoundTripAndInvalidate(t *testing.T) {
	store := newFakeCacheStore()
	cache := newProductCache(store, time.Minute)
	ctx := context.Background()

	id := uuid.New()
	if got := cache.get(ctx, id); got != nil {
		t.Fatal("expected miss on empty cache")
	}

	cache.set(ctx, &ProductDTO{ID: id, Name: "PVC pipe"})
	got := cache.get(ctx, id)
	if got == nil || got.Name != "PVC pipe" {
		t.Fatalf("expected cached product, got %+v", got)
	}

	if err := cache.invalidate(ctx, id); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if got := cache.get(ctx, id); got != nil {
		t.Fatal("expected miss after invalidate")
	}
}

func TestProductCacheNilStoreIsNoop(t *testing.T) {
	cache := newProductCache(nil, time.Minute)
	ctx := context.Background()

	if got := cache.get(ctx, uuid.New()); got != nil {
		t.Fatal("nil cache should always miss")
	}
	cache.set(ctx, &ProductDTO{ID: uuid.New()})
	if err := cache.invalidate(ctx, uuid.New()); err != nil {
		t.Fatalf("invalidate on nil cache: %v", err)
	}
}
