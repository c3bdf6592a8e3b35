package complete_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tagcalc/internal/complete"
)

func names(cands []complete.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Name
	}
	return out
}

func TestCatalogLookup(t *testing.T) {
	cat := complete.DefaultCatalog()
	ctx := context.Background()

	got, err := cat.Lookup(ctx, "RO")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if strings.Join(names(got), ",") != "Profit,Growth Rate" {
		t.Fatalf("Lookup(RO) = %v", names(got))
	}
	got, _ = cat.Lookup(ctx, "SUM")
	if len(got) != 1 || got[0].Kind != "function" {
		t.Fatalf("Lookup(SUM) = %+v", got)
	}
	if got, _ := cat.Lookup(ctx, "   "); got != nil {
		t.Fatalf("blank query must return nothing")
	}

	cat.Replace([]complete.Candidate{{Name: "Straße"}, {Name: "Ümsatz"}})
	if got, _ := cat.Lookup(ctx, "STRASSE"); len(got) != 1 {
		t.Fatalf("case folding must match ß against SS: %v", names(got))
	}
	if got, _ := cat.Lookup(ctx, "u\u0308m"); len(got) != 1 {
		t.Fatalf("decomposed input must match the composed name: %v", names(got))
	}
}

func TestCatalogHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := complete.DefaultCatalog().Lookup(ctx, "rev"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/autocomplete" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("search") {
		case "rev":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"r","name":"Revenue","value":5000,"type":"variable"},{"name":"Reviews"}]`))
		case "boom":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	src := complete.NewHTTPSource(srv.URL + "/autocomplete")
	got, err := src.Lookup(context.Background(), "rev")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r" || got[1].Value != nil {
		t.Fatalf("unexpected candidates: %+v", got)
	}
	if _, err := src.Lookup(context.Background(), "boom"); err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("status errors must surface: %v", err)
	}
	if _, err := src.Lookup(context.Background(), "garbage"); err == nil {
		t.Fatalf("decode errors must surface")
	}
	if got, err := src.Lookup(context.Background(), ""); err != nil || got != nil {
		t.Fatalf("blank query must not hit the network")
	}
}

func TestSQLiteCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.db")
	cat, err := complete.OpenSQLiteCatalog(path)
	if err != nil {
		t.Fatalf("OpenSQLiteCatalog: %v", err)
	}
	ctx := context.Background()
	for _, c := range []complete.Candidate{
		{ID: "rev1", Name: "Revenue", Value: complete.Float(5000), Kind: "variable"},
		{Name: "Net_Margin", Description: "margin after tax"},
		{Name: "Margin", Value: complete.Float(0.2)},
	} {
		if err := cat.Put(ctx, c); err != nil {
			t.Fatalf("Put(%s): %v", c.Name, err)
		}
	}
	if err := cat.Put(ctx, complete.Candidate{Name: ""}); err == nil {
		t.Fatalf("blank names must be rejected")
	}

	got, err := cat.Lookup(ctx, "MARGIN")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if strings.Join(names(got), ",") != "Net_Margin,Margin" {
		t.Fatalf("Lookup(MARGIN) = %v", names(got))
	}
	if got[0].Value != nil || got[0].ID != "" || got[0].Description != "margin after tax" {
		t.Fatalf("NULL columns must map to absent fields: %+v", got[0])
	}

	// '_' is literal, not a wildcard
	if got, _ := cat.Lookup(ctx, "_"); len(got) != 1 {
		t.Fatalf("LIKE wildcards must be escaped: %v", names(got))
	}

	if err := cat.Put(ctx, complete.Candidate{ID: "rev2", Name: "Revenue", Value: complete.Float(6000)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := cat.Delete(ctx, "Margin"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := cat.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all[0].ID != "rev2" || *all[0].Value != 6000 {
		t.Fatalf("unexpected contents after upsert/delete: %+v", all)
	}
	if err := cat.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// reopening keeps data and schema
	again, err := complete.OpenSQLiteCatalog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if all, _ := again.All(ctx); len(all) != 2 {
		t.Fatalf("data lost on reopen: %v", names(all))
	}
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	boom := complete.SourceFunc(func(context.Context, string) ([]complete.Candidate, error) {
		return nil, errors.New("boom")
	})
	remote := complete.SourceFunc(func(context.Context, string) ([]complete.Candidate, error) {
		return []complete.Candidate{{Name: "Revenue", Value: complete.Float(1)}}, nil
	})

	got, err := complete.Multi{remote, complete.DefaultCatalog()}.Lookup(ctx, "rev")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 2 || *got[0].Value != 1 {
		t.Fatalf("results must keep source order: %+v", got)
	}

	got, err = complete.Multi{boom, complete.DefaultCatalog()}.Lookup(ctx, "rev")
	if err != nil || len(got) != 1 {
		t.Fatalf("partial failure must still succeed: %v %v", got, err)
	}

	_, err = complete.Multi{boom, boom}.Lookup(ctx, "rev")
	var le *complete.LookupError
	if !errors.As(err, &le) || le.Query != "rev" {
		t.Fatalf("total failure must be a LookupError: %v", err)
	}
	if !strings.Contains(err.Error(), "2 errors occurred") {
		t.Fatalf("failures must be aggregated: %v", err)
	}
}
