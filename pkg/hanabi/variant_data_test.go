package hanabi

import "testing"

func TestLoadCatalogRegistersNewVariant(t *testing.T) {
	data := []byte(`[{"name": "Test Variant (2 Suits)", "suits": ["Red", "Teal"]}]`)
	if err := LoadCatalog(data); err != nil {
		t.Fatal(err)
	}
	suits, err := Suits("Test Variant (2 Suits)")
	if err != nil {
		t.Fatal(err)
	}
	if len(suits) != 2 || suits[0] != "Red" || suits[1] != "Teal" {
		t.Errorf("got %v", suits)
	}
}

func TestLoadCatalogRejectsMalformedJSON(t *testing.T) {
	if err := LoadCatalog([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed input")
	}
}
