package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

// uploader is the slice of the storage client logo upload needs. Nil when
// object storage is not configured.
type uploader interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

// Service owns the single store_settings row. It also feeds the tills
// defaults to catalog and checkout, falling back to config before the row
// exists.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error)
	UploadLogo(ctx context.Context, filename, contentType string, data []byte) (*SettingsDTO, error)

	LowStockThreshold(ctx context.Context) int
	OutsourceMarkupPercent(ctx context.Context) decimal.Decimal
}

type UpdateSettingsInput struct {
	StoreName            *string
	Address              *string
	Phone                *string
	TaxID                *string
	ReceiptFooter        *string
	DefaultMarkupPercent *int
	LowStockThreshold    *int
	VATIncludedDefault   *bool
}

type SettingsDTO struct {
	StoreName            string    `json:"store_name"`
	Address              string    `json:"address,omitempty"`
	Phone                string    `json:"phone,omitempty"`
	TaxID                string    `json:"tax_id,omitempty"`
	LogoURL              string    `json:"logo_url,omitempty"`
	ReceiptFooter        string    `json:"receipt_footer,omitempty"`
	DefaultMarkupPercent int       `json:"default_markup_percent"`
	LowStockThreshold    int       `json:"low_stock_threshold"`
	VATIncludedDefault   bool      `json:"vat_included_default"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ServiceParams struct {
	Repo     *Repository
	Defaults config.POSConfig
	Storage  uploader
}

type service struct {
	repo     *Repository
	defaults config.POSConfig
	storage  uploader
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{
		repo:     params.Repo,
		defaults: params.Defaults,
		storage:  params.Storage,
	}, nil
}

func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return newSettingsDTO(row), nil
}

func (s *service) Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	row, err := s.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}
	if err := applySettingsUpdate(row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update settings")
	}
	return newSettingsDTO(row), nil
}

func (s *service) UploadLogo(ctx context.Context, filename, contentType string, data []byte) (*SettingsDTO, error) {
	if s.storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "object storage not configured")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty file")
	}

	objectName := "branding/logo-" + time.Now().UTC().Format("20060102150405") + ext(filename)
	url, err := s.storage.Upload(ctx, objectName, contentType, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: upload logo")
	}

	row, err := s.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}
	row.LogoURL = url
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update settings")
	}
	return newSettingsDTO(row), nil
}

// LowStockThreshold backs catalog's status derivation. Lookup failures fall
// back to the configured default so reads never block on this row.
func (s *service) LowStockThreshold(ctx context.Context) int {
	row, err := s.repo.Find(ctx)
	if err != nil {
		return s.defaults.LowStockThreshold
	}
	return row.LowStockThreshold
}

func (s *service) OutsourceMarkupPercent(ctx context.Context) decimal.Decimal {
	row, err := s.repo.Find(ctx)
	if err != nil {
		return decimal.NewFromInt(int64(s.defaults.DefaultMarkupPercent))
	}
	return decimal.NewFromInt(int64(row.DefaultMarkupPercent))
}

func (s *service) load(ctx context.Context) (*models.StoreSettings, error) {
	row, err := s.repo.Find(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.seed(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	return row, nil
}

func (s *service) loadOrSeed(ctx context.Context) (*models.StoreSettings, error) {
	row, err := s.repo.Find(ctx)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	row = s.seed()
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert settings")
	}
	return row, nil
}

func (s *service) seed() *models.StoreSettings {
	return &models.StoreSettings{
		ID:                   uuid.New(),
		ReceiptFooter:        s.defaults.ReceiptFooter,
		DefaultMarkupPercent: s.defaults.DefaultMarkupPercent,
		LowStockThreshold:    s.defaults.LowStockThreshold,
		VATIncludedDefault:   true,
	}
}

func applySettingsUpdate(row *models.StoreSettings, input UpdateSettingsInput) error {
	if input.StoreName != nil {
		row.StoreName = strings.TrimSpace(*input.StoreName)
	}
	if input.Address != nil {
		row.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		row.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.TaxID != nil {
		row.TaxID = strings.TrimSpace(*input.TaxID)
	}
	if input.ReceiptFooter != nil {
		row.ReceiptFooter = *input.ReceiptFooter
	}
	if input.DefaultMarkupPercent != nil {
		if *input.DefaultMarkupPercent < 0 || *input.DefaultMarkupPercent > 500 {
			return pkgerrors.New(pkgerrors.CodeValidation, "markup percent out of range")
		}
		row.DefaultMarkupPercent = *input.DefaultMarkupPercent
	}
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
		}
		row.LowStockThreshold = *input.LowStockThreshold
	}
	if input.VATIncludedDefault != nil {
		row.VATIncludedDefault = *input.VATIncludedDefault
	}
	return nil
}

func ext(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return strings.ToLower(filename[idx:])
	}
	return ""
}

func newSettingsDTO(row *models.StoreSettings) *SettingsDTO {
	return &SettingsDTO{
		StoreName:            row.StoreName,
		Address:              row.Address,
		Phone:                row.Phone,
		TaxID:                row.TaxID,
		LogoURL:              row.LogoURL,
		ReceiptFooter:        row.ReceiptFooter,
		DefaultMarkupPercent: row.DefaultMarkupPercent,
		LowStockThreshold:    row.LowStockThreshold,
		VATIncludedDefault:   row.VATIncludedDefault,
		UpdatedAt:            row.UpdatedAt,
	}
}
