package shared

import "testing"

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 20, 45)
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.TotalPages)
	}
	if p.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", p.Offset())
	}

	p = NewPagination(3, 20, 45)
	if p.Offset() != 40 {
		t.Fatalf("expected offset 40, got %d", p.Offset())
	}
}

func TestNewPaginationClampsBounds(t *testing.T) {
	// Page 0 and past-the-end pages never reach the repository.
	p := NewPagination(0, 20, 45)
	if p.Page != 1 {
		t.Fatalf("expected page clamp to 1, got %d", p.Page)
	}
	p = NewPagination(4, 20, 45)
	if p.Page != 3 {
		t.Fatalf("expected page clamp to 3, got %d", p.Page)
	}
	p = NewPagination(-2, 0, 0)
	if p.Page != 1 || p.PerPage != DefaultPerPage || p.TotalPages != 0 {
		t.Fatalf("unexpected empty-set pagination: %+v", p)
	}
}
