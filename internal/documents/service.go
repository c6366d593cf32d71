package documents

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/google/uuid"

	"github.com/pattarapol-dev/srisawat-pos-backend/internal/settings"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/transactions"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Kind selects which printable document to render for an invoice.
type Kind string

const (
	KindReceipt      Kind = "receipt"
	KindDeliveryNote Kind = "delivery_note"
)

// Service renders printable HTML documents for invoices. The till opens the
// result in a print dialog; there is no PDF pipeline.
type Service interface {
	Render(ctx context.Context, kind Kind, transactionID uuid.UUID) ([]byte, error)
}

// transactionGetter is the slice of the transactions service rendering needs.
type transactionGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*transactions.TransactionDTO, error)
}

type settingsGetter interface {
	Get(ctx context.Context) (*settings.SettingsDTO, error)
}

type renderData struct {
	Store    *settings.SettingsDTO
	Invoice  *transactions.TransactionDTO
	Document string
}

type service struct {
	transactions transactionGetter
	settings     settingsGetter
	templates    *template.Template
}

func NewService(txns transactionGetter, store settingsGetter) (Service, error) {
	if txns == nil {
		return nil, fmt.Errorf("transactions service required")
	}
	if store == nil {
		return nil, fmt.Errorf("settings service required")
	}
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing document templates: %w", err)
	}
	return &service{transactions: txns, settings: store, templates: templates}, nil
}

func (s *service) Render(ctx context.Context, kind Kind, transactionID uuid.UUID) ([]byte, error) {
	name, title, err := templateFor(kind)
	if err != nil {
		return nil, err
	}

	invoice, err := s.transactions.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	store, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := renderData{Store: store, Invoice: invoice, Document: title}
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render document")
	}
	return buf.Bytes(), nil
}

func templateFor(kind Kind) (name, title string, err error) {
	switch kind {
	case KindReceipt:
		return "receipt.html", "ใบเสร็จรับเงิน / Receipt", nil
	case KindDeliveryNote:
		return "delivery_note.html", "ใบส่งของ / Delivery Note", nil
	default:
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "unknown document kind")
	}
}
