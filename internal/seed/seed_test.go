package seed

import (
	"context"
	"testing"

	"tecnostore/internal/repository/blob"
	"tecnostore/internal/service/catalog"
)

func TestApplyWritesDefaultsOnce(t *testing.T) {
	ctx := context.Background()
	repo := blob.NewMemory()

	wrote, err := Apply(ctx, repo, "tecnoProducts", false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !wrote {
		t.Fatalf("expected defaults to be written")
	}

	svc := catalog.New(repo, "tecnoProducts")
	if err := svc.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := len(svc.Products()); got != len(catalog.DefaultProducts()) {
		t.Fatalf("expected %d products, got %d", len(catalog.DefaultProducts()), got)
	}

	if err := repo.Set(ctx, "tecnoProducts", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	wrote, err = Apply(ctx, repo, "tecnoProducts", false)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if wrote {
		t.Fatalf("expected existing catalog to be kept")
	}

	if wrote, err = Apply(ctx, repo, "tecnoProducts", true); err != nil || !wrote {
		t.Fatalf("expected reset to rewrite defaults, wrote=%v err=%v", wrote, err)
	}
	raw, _, _ := repo.Get(ctx, "tecnoProducts")
	if raw == "[]" {
		t.Fatalf("expected defaults after reset")
	}
}
