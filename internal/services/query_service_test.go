package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"

	"shopkart/internal/repos"
	"shopkart/internal/services"
)

func querySvc(db *sqlx.DB) *services.QueryService {
	return services.NewQueryService(repos.NewProductRepo(db), repos.NewCategoryRepo(db))
}

func seedProduct(t *testing.T, db *sqlx.DB, id, name, desc, catID string, price float64, createdAt string) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id, name, slug, description, price, category_id, quantity, created_at)
	  VALUES(?,?,?,?,?,?,10,?)`,
		id, name, id, desc, price, catID, createdAt)
	if err != nil {
		t.Fatal(err)
	}
}

func TestListProductsNewestFirst(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-old", "Old", "old product", "c1", 10, "2024-01-01 10:00:00")
	seedProduct(t, db, "p-mid", "Mid", "mid product", "c1", 20, "2024-06-01 10:00:00")
	seedProduct(t, db, "p-new", "New", "new product", "c1", 30, "2025-01-01 10:00:00")

	out, err := querySvc(db).ListProducts(0) // default limit 12
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[0].ID != "p-new" || out[2].ID != "p-old" {
		t.Fatalf("bad order: %+v", out)
	}
}

func TestListProductsPagedSplit(t *testing.T) {
	db := memdb(t)
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("p-%02d", i)
		seedProduct(t, db, id, "Item "+id, "desc", "c1", float64(i), fmt.Sprintf("2025-01-%02d 10:00:00", i+1))
	}
	svc := querySvc(db)

	page1, err := svc.ListProductsPaged(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	page2, err := svc.ListProductsPaged(2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page1) != 6 || len(page2) != 4 {
		t.Fatalf("want 6+4, got %d+%d", len(page1), len(page2))
	}
	seen := map[string]bool{}
	for _, p := range append(page1, page2...) {
		if seen[p.ID] {
			t.Fatalf("duplicate across pages: %s", p.ID)
		}
		seen[p.ID] = true
	}

	// page <= 0 falls back to page 1
	fallback, err := svc.ListProductsPaged(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(fallback) != 6 || fallback[0].ID != page1[0].ID {
		t.Fatalf("non-positive page should behave like page 1")
	}
}

func TestSearchMatchesNameOrDescription(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-1", "Gaming Laptop", "16GB RAM", "c1", 100, "2025-01-01 10:00:00")
	seedProduct(t, db, "p-2", "Office Chair", "great for gaming sessions", "c1", 50, "2025-01-02 10:00:00")
	seedProduct(t, db, "p-3", "Desk", "wooden", "c1", 30, "2025-01-03 10:00:00")
	svc := querySvc(db)

	out, err := svc.SearchProducts("gaming")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 matches, got %d", len(out))
	}

	out, err = svc.SearchProducts("GAMING")
	if err != nil || len(out) != 2 {
		t.Fatalf("case-insensitive search failed: %v, %d matches", err, len(out))
	}

	out, err = svc.SearchProducts("nothing-here")
	if err != nil {
		t.Fatalf("no match must not be an error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("want empty, got %d", len(out))
	}

	_, err = svc.SearchProducts("   ")
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("empty keyword: want ValidationError, got %v", err)
	}
}

func TestRelatedProducts(t *testing.T) {
	db := memdb(t)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("p-%d", i)
		seedProduct(t, db, id, "Item "+id, "desc", "c1", 10, fmt.Sprintf("2025-01-0%d 10:00:00", i+1))
	}
	seedProduct(t, db, "p-other", "Other", "desc", "c2", 10, "2025-01-09 10:00:00")
	svc := querySvc(db)

	out, err := svc.RelatedProducts("p-0", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) > 3 {
		t.Fatalf("at most 3 related, got %d", len(out))
	}
	for _, p := range out {
		if p.ID == "p-0" {
			t.Fatal("related must exclude the product itself")
		}
		if p.CategoryID != "c1" {
			t.Fatalf("wrong category: %+v", p)
		}
	}

	_, err = svc.RelatedProducts("", "c1")
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("missing pid: want ValidationError, got %v", err)
	}
	_, err = svc.RelatedProducts("p-0", "")
	if !errors.As(err, &ve) {
		t.Fatalf("missing cid: want ValidationError, got %v", err)
	}
}

func TestFilterProducts(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-a", "A", "d", "catA", 50, "2025-01-01 10:00:00")
	seedProduct(t, db, "p-b", "B", "d", "catA", 200, "2025-01-02 10:00:00")
	seedProduct(t, db, "p-c", "C", "d", "catB", 300, "2025-01-03 10:00:00")
	seedProduct(t, db, "p-d", "D", "d", "catB", 900, "2025-01-04 10:00:00")
	svc := querySvc(db)

	all, err := svc.FilterProducts(nil, nil)
	if err != nil || len(all) != 4 {
		t.Fatalf("no predicates should return everything: %v, %d", err, len(all))
	}

	onlyA, err := svc.FilterProducts([]string{"catA"}, nil)
	if err != nil || len(onlyA) != 2 {
		t.Fatalf("category filter: %v, %d", err, len(onlyA))
	}

	priced, err := svc.FilterProducts(nil, []float64{100, 500})
	if err != nil || len(priced) != 2 {
		t.Fatalf("price filter: %v, %d", err, len(priced))
	}
	for _, p := range priced {
		if p.Price < 100 || p.Price > 500 {
			t.Fatalf("price out of range: %+v", p)
		}
	}

	both, err := svc.FilterProducts([]string{"catB"}, []float64{100, 500})
	if err != nil || len(both) != 1 || both[0].ID != "p-c" {
		t.Fatalf("conjunction: %v, %+v", err, both)
	}

	// a single-element range disables price filtering entirely
	loose, err := svc.FilterProducts(nil, []float64{100})
	if err != nil || len(loose) != 4 {
		t.Fatalf("malformed range must disable price filter: %v, %d", err, len(loose))
	}
}

func TestProductsByCategory(t *testing.T) {
	db := memdb(t)
	if _, err := db.Exec(`INSERT INTO categories(id,name,slug) VALUES
	  ('c1','Electronics','electronics'), ('c2','Empty','empty')`); err != nil {
		t.Fatal(err)
	}
	seedProduct(t, db, "p-1", "Laptop", "d", "c1", 100, "2025-01-01 10:00:00")
	svc := querySvc(db)

	cat, products, err := svc.ProductsByCategory("electronics")
	if err != nil {
		t.Fatal(err)
	}
	if cat.ID != "c1" || len(products) != 1 {
		t.Fatalf("bad result: %+v, %d products", cat, len(products))
	}

	// an existing category with zero products is not an error
	_, products, err = svc.ProductsByCategory("empty")
	if err != nil || len(products) != 0 {
		t.Fatalf("empty category: %v, %d", err, len(products))
	}

	// unknown slug is the client's fault
	_, _, err = svc.ProductsByCategory("no-such")
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestGetProductPhoto(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-bare", "Bare", "no photo", "c1", 10, "2025-01-01 10:00:00")
	if _, err := db.Exec(`
	  INSERT INTO products(id,name,slug,description,price,category_id,quantity,photo,photo_type)
	  VALUES('p-pic','Pic','pic','with photo',10,'c1',1,?,'image/png')`, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	svc := querySvc(db)

	b, ct, err := svc.GetProductPhoto("p-pic")
	if err != nil || ct != "image/png" || len(b) != 3 {
		t.Fatalf("photo fetch: %v %q %d", err, ct, len(b))
	}

	// both unknown id and missing asset are NotFound
	if _, _, err := svc.GetProductPhoto("nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown id: want ErrNotFound, got %v", err)
	}
	if _, _, err := svc.GetProductPhoto("p-bare"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("no asset: want ErrNotFound, got %v", err)
	}
}

func TestGetProductBySlugAndCount(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-1", "Laptop", "d", "c1", 100, "2025-01-01 10:00:00")
	svc := querySvc(db)

	p, err := svc.GetProductBySlug("p-1")
	if err != nil || p.Name != "Laptop" {
		t.Fatalf("by slug: %v %+v", err, p)
	}
	if _, err := svc.GetProductBySlug("missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	n, err := svc.CountProducts()
	if err != nil || n != 1 {
		t.Fatalf("count: %v %d", err, n)
	}
}
