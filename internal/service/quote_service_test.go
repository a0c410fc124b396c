package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/emert/crm-service/internal/model"
)

type stubPDF struct{}

func (stubPDF) Generate(model.Quote, model.Client) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func TestQuoteCreateComputesTotals(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)

	svc := NewQuoteService(database, stubPDF{})
	quote, err := svc.Create(ctx, CreateQuoteInput{
		ClientID: client.ID,
		Title:    "Site redesign",
		Items: []QuoteItemInput{
			{ServiceName: "Design", Quantity: 2, UnitPrice: 100},
			{ServiceName: "Hosting", Quantity: 1, UnitPrice: 50},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(quote.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(quote.Items))
	}
	if quote.TotalAmount != 250 {
		t.Fatalf("expected total 250 got %v", quote.TotalAmount)
	}
	if !strings.HasPrefix(quote.QuoteNumber, "Q-") {
		t.Fatalf("unexpected quote number %q", quote.QuoteNumber)
	}
}

func TestQuoteItemMutationsRecomputeTotal(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)

	svc := NewQuoteService(database, stubPDF{})
	quote, err := svc.Create(ctx, CreateQuoteInput{
		ClientID: client.ID,
		Title:    "Maintenance retainer",
		Items: []QuoteItemInput{
			{ServiceName: "Support", Quantity: 2, UnitPrice: 100},
			{ServiceName: "Monitoring", Quantity: 1, UnitPrice: 50},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 2x100 + 1x50 = 250; dropping quantity to 1 lands at 150.
	newQty := 1
	if _, err := svc.UpdateItem(ctx, quote.ID, quote.Items[0].ID, UpdateQuoteItemInput{Quantity: &newQty}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	quote, err = svc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if quote.TotalAmount != 150 {
		t.Fatalf("expected total 150 got %v", quote.TotalAmount)
	}

	item, err := svc.AddItem(ctx, quote.ID, QuoteItemInput{ServiceName: "Backups", Quantity: 2, UnitPrice: 25})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.TotalPrice != 50 {
		t.Fatalf("expected line total 50 got %v", item.TotalPrice)
	}
	quote, _ = svc.Get(ctx, quote.ID)
	if quote.TotalAmount != 200 {
		t.Fatalf("expected total 200 got %v", quote.TotalAmount)
	}

	if err := svc.DeleteItem(ctx, quote.ID, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	quote, _ = svc.Get(ctx, quote.ID)
	if quote.TotalAmount != 150 {
		t.Fatalf("expected total back to 150 got %v", quote.TotalAmount)
	}
}

func TestQuoteItemQuantityDefaultsToOne(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)

	svc := NewQuoteService(database, stubPDF{})
	quote, err := svc.Create(ctx, CreateQuoteInput{
		ClientID: client.ID,
		Title:    "One-off audit",
		Items:    []QuoteItemInput{{ServiceName: "Audit", UnitPrice: 300}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if quote.Items[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1 got %d", quote.Items[0].Quantity)
	}
	if quote.TotalAmount != 300 {
		t.Fatalf("expected total 300 got %v", quote.TotalAmount)
	}
}

func TestQuoteSendIsUnconditional(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)

	svc := NewQuoteService(database, stubPDF{})
	quote, err := svc.Create(ctx, CreateQuoteInput{
		ClientID: client.ID,
		Title:    "SEO package",
		Status:   model.QuoteStatusAccepted,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	quote, err = svc.Send(ctx, quote.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if quote.Status != model.QuoteStatusSent {
		t.Fatalf("expected sent got %s", quote.Status)
	}
}

func TestQuoteRenderPDF(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)

	svc := NewQuoteService(database, stubPDF{})
	quote, err := svc.Create(ctx, CreateQuoteInput{ClientID: client.ID, Title: "Branding"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, err := svc.RenderPDF(ctx, quote.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.FileName != quote.QuoteNumber+".pdf" {
		t.Fatalf("unexpected file name %q", doc.FileName)
	}
	if len(doc.Content) == 0 {
		t.Fatalf("expected pdf bytes")
	}
}

func TestQuoteValidation(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)

	svc := NewQuoteService(database, stubPDF{})

	if _, err := svc.Create(ctx, CreateQuoteInput{ClientID: client.ID, Title: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank title got %v", err)
	}
	if _, err := svc.Create(ctx, CreateQuoteInput{ClientID: 9999, Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing client got %v", err)
	}
	if _, err := svc.Create(ctx, CreateQuoteInput{
		ClientID: client.ID,
		Title:    "x",
		Items:    []QuoteItemInput{{ServiceName: "", UnitPrice: 10}},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank service name got %v", err)
	}
}
