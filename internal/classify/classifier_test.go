package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyzinc/marketsync/internal/model"
)

type stubResolver struct {
	fn func(rec model.SupplierRecord) (model.Classification, error)
}

func (s stubResolver) Resolve(_ context.Context, rec model.SupplierRecord) (model.Classification, error) {
	return s.fn(rec)
}

type stubReconciler struct {
	fn func(rec model.SupplierRecord, class model.Classification) (model.Classification, *model.CompetitivePrice, error)
}

func (s stubReconciler) Reconcile(_ context.Context, rec model.SupplierRecord, class model.Classification) (model.Classification, *model.CompetitivePrice, error) {
	if s.fn == nil {
		return class, nil, nil
	}
	return s.fn(rec, class)
}

func matchResolver(pid string) stubResolver {
	return stubResolver{fn: func(model.SupplierRecord) (model.Classification, error) {
		return model.Classification{Status: model.StatusCatalogMatch, PID: pid, Confidence: 0.99}, nil
	}}
}

func cost(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestRunSkipsBlockedBrands(t *testing.T) {
	c := New(matchResolver("B01"), stubReconciler{}, NewBlocklist([]string{"Serviços"}), nil)
	records := []model.SupplierRecord{
		{SKU: "S1", Brand: "SERVICOS"},
		{SKU: "S2", Brand: "Ajax"},
	}
	out := c.RunAll(context.Background(), records)
	if len(out) != 1 {
		t.Fatalf("expected 1 output record, got %d", len(out))
	}
	if out[0].Record.SKU != "S2" {
		t.Errorf("surviving record = %s", out[0].Record.SKU)
	}
}

func TestRunBucketsStock(t *testing.T) {
	c := New(matchResolver("B01"), stubReconciler{}, nil, nil)
	records := []model.SupplierRecord{
		{SKU: "S1", Stock: "3"},
		{SKU: "S2", Stock: "<10"},
		{SKU: "S3", Stock: "250"},
		{SKU: "S4", Stock: "oos"},
	}
	out := c.RunAll(context.Background(), records)
	want := []int{5, 5, 10, 0}
	for i, rec := range out {
		if rec.Stock != want[i] {
			t.Errorf("%s stock = %d, want %d", rec.Record.SKU, rec.Stock, want[i])
		}
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	resolver := stubResolver{fn: func(rec model.SupplierRecord) (model.Classification, error) {
		if rec.SKU == "S2" {
			return model.Classification{}, errors.New("catalog 503")
		}
		return model.Classification{Status: model.StatusNotFound}, nil
	}}
	c := New(resolver, stubReconciler{}, nil, nil)

	out := c.RunAll(context.Background(), []model.SupplierRecord{
		{SKU: "S1"}, {SKU: "S2"}, {SKU: "S3"},
	})
	if len(out) != 3 {
		t.Fatalf("expected all 3 records, got %d", len(out))
	}
	if out[1].Class.Status != model.StatusError {
		t.Errorf("S2 status = %s, want %s", out[1].Class.Status, model.StatusError)
	}
	if out[1].Class.Err == "" {
		t.Error("failed record must carry the error detail")
	}
	if out[0].Class.Status != model.StatusNotFound || out[2].Class.Status != model.StatusNotFound {
		t.Error("surrounding records must classify normally")
	}
}

func TestRunReconcileFailureDegradesRecord(t *testing.T) {
	reconciler := stubReconciler{fn: func(model.SupplierRecord, model.Classification) (model.Classification, *model.CompetitivePrice, error) {
		return model.Classification{}, nil, errors.New("offers 500")
	}}
	c := New(matchResolver("B01"), reconciler, nil, nil)

	out := c.RunAll(context.Background(), []model.SupplierRecord{{SKU: "S1"}})
	if out[0].Class.Status != model.StatusError {
		t.Errorf("status = %s, want %s", out[0].Class.Status, model.StatusError)
	}
}

func TestRunAttachesQuote(t *testing.T) {
	comp := &model.CompetitivePrice{
		PID:    "B01",
		Lowest: decimal.NullDecimal{Decimal: decimal.RequireFromString("40.00"), Valid: true},
	}
	reconciler := stubReconciler{fn: func(_ model.SupplierRecord, class model.Classification) (model.Classification, *model.CompetitivePrice, error) {
		return class, comp, nil
	}}
	c := New(matchResolver("B01"), reconciler, nil, nil)

	out := c.RunAll(context.Background(), []model.SupplierRecord{
		{SKU: "S1", Cost: cost("10.00")},
		{SKU: "S2"},
	})

	q := out[0].Quote
	if q == nil {
		t.Fatal("expected quote for record with cost")
	}
	if !q.Floor.Equal(decimal.RequireFromString("26.75")) {
		t.Errorf("floor = %s", q.Floor)
	}
	if !q.Final.Equal(decimal.RequireFromString("39.99")) {
		t.Errorf("final = %s, want competitor undercut", q.Final)
	}

	if out[1].Quote != nil {
		t.Error("record without cost must not get a quote")
	}
}

func TestRunIsLazy(t *testing.T) {
	resolved := 0
	resolver := stubResolver{fn: func(model.SupplierRecord) (model.Classification, error) {
		resolved++
		return model.Classification{Status: model.StatusNotFound}, nil
	}}
	c := New(resolver, stubReconciler{}, nil, nil)

	records := make([]model.SupplierRecord, 100)
	for i := range records {
		records[i] = model.SupplierRecord{SKU: "S"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := c.Run(ctx, records)
	<-ch
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if resolved >= 100 {
					t.Errorf("all %d records resolved despite early cancel", resolved)
				}
				return
			}
		case <-deadline:
			t.Fatal("channel did not close after cancel")
		}
	}
}
