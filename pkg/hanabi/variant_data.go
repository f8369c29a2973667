package hanabi

import (
	"encoding/json"
	"fmt"
)

// catalog is the package-level variant table: a read-only reference
// structure built once from a literal list, the same shape as a single
// static *Map literal. In a full deployment this would be hydrated from a
// variant data file at startup via LoadCatalog; the literal table below
// seeds the common tournament rotation so the bot can play out of the box
// with no external file.
var catalog = map[string]*Variant{}

func init() {
	for _, v := range []*Variant{
		{Name: "No Variant", Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple"}},
		{Name: "6 Suits", Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple", "Teal"}},
		{Name: "Black (6 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple", "Black"}},
		{Name: "Pink (6 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple", "Pink"}},
		{Name: "Brown (6 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple", "Brown"}},
		{Name: "Pink & Brown (6 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Pink", "Brown"}},
		{Name: "Black & Pink (5 Suits)", Suits: []string{"Red", "Green", "Blue", "Black", "Pink"}},
		{Name: "Omni (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Omni"}},
		{Name: "Rainbow & Omni (5 Suits)", Suits: []string{"Red", "Green", "Blue", "Rainbow", "Omni"}},
		{Name: "Rainbow & White (4 Suits)", Suits: []string{"Red", "Blue", "Rainbow", "White"}},
		{Name: "Null & Muddy Rainbow (4 Suits)", Suits: []string{"Red", "Blue", "Null", "Muddy Rainbow"}},
		{Name: "White & Null (3 Suits)", Suits: []string{"Red", "White", "Null"}},
		{Name: "Omni & Muddy Rainbow (3 Suits)", Suits: []string{"Red", "Omni", "Muddy Rainbow"}},
		{Name: "Rainbow (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "Rainbow"}},
		{Name: "Pink (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "Pink"}},
		{Name: "White (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "White"}},
		{Name: "Brown (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "Brown"}},
		{Name: "Muddy Rainbow (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "Muddy Rainbow"}},
		{Name: "Light Pink (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "Light Pink"}},
		{Name: "Omni (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "Omni"}},
		{Name: "Null (4 Suits)", Suits: []string{"Red", "Yellow", "Green", "Null"}},
		{Name: "Rainbow & Omni (4 Suits)", Suits: []string{"Red", "Yellow", "Rainbow", "Omni"}},
		{Name: "Dark Rainbow (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Dark Rainbow"}},
		{Name: "Dark Pink (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Dark Pink"}},
		{Name: "Dark Brown (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Dark Brown"}},
		{Name: "Cocoa Rainbow (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Cocoa Rainbow"}},
		{Name: "Gray Pink (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Gray Pink"}},
		{Name: "Dark Omni (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Dark Omni"}},
		{Name: "Dark Null (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Dark Null"}},
		{Name: "Null & Prism (5 Suits)", Suits: []string{"Red", "Green", "Blue", "Null", "Prism"}},
		{Name: "Prism (5 Suits)", Suits: []string{"Red", "Yellow", "Green", "Blue", "Prism"}},
		{Name: "Odds and Evens", Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple"}},
	} {
		catalog[v.Name] = v
	}
}

// RegisterVariant adds or overwrites a variant in the package catalog. Used
// by the variant-file loader to hydrate additional variants beyond the
// built-in seed list at startup.
func RegisterVariant(v Variant) {
	vv := v
	catalog[v.Name] = &vv
}

// LoadCatalog parses a JSON file of `{name, suits}` records and registers
// each one, overwriting any built-in entry of the same name. Parsed once at
// startup by the CLI entry point; malformed data yields an error, not a
// panic. The CLI entry point skips a missing file and logs a warning for a
// malformed one, keeping the built-in entries in both cases.
func LoadCatalog(data []byte) error {
	var records []struct {
		Name  string   `json:"name"`
		Suits []string `json:"suits"`
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse variant data: %w", err)
	}
	for _, r := range records {
		RegisterVariant(Variant{Name: r.Name, Suits: r.Suits})
	}
	return nil
}
