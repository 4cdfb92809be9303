package catalog

import "storefront-service/internal/models"

// Index groups a flat variant list into variant groups keyed by parent code.
// Source order is preserved within each group. The index is immutable after
// build and rebuilt only when the store data is refreshed.
type Index struct {
	variants []models.Variant
	groups   map[string][]models.Variant
	bySub    map[string]models.Variant
	parents  []string
}

// NewIndex builds the catalog index from the flat product list returned by
// the commerce API.
func NewIndex(variants []models.Variant) *Index {
	idx := &Index{
		variants: make([]models.Variant, len(variants)),
		groups:   make(map[string][]models.Variant),
		bySub:    make(map[string]models.Variant, len(variants)),
	}
	copy(idx.variants, variants)

	for _, v := range idx.variants {
		if _, seen := idx.groups[v.ParentCode]; !seen {
			idx.parents = append(idx.parents, v.ParentCode)
		}
		idx.groups[v.ParentCode] = append(idx.groups[v.ParentCode], v)
		idx.bySub[v.SubCode] = v
	}
	return idx
}

// VariantsOf returns the ordered variant group for a parent code. The result
// is a copy; callers may not mutate the index through it.
func (idx *Index) VariantsOf(parentCode string) []models.Variant {
	group := idx.groups[parentCode]
	out := make([]models.Variant, len(group))
	copy(out, group)
	return out
}

// Find looks up a single variant by sub code.
func (idx *Index) Find(subCode string) (models.Variant, bool) {
	v, ok := idx.bySub[subCode]
	return v, ok
}

// Parents returns parent codes in first-seen source order.
func (idx *Index) Parents() []string {
	out := make([]string, len(idx.parents))
	copy(out, idx.parents)
	return out
}

// Products returns all variants in source order.
func (idx *Index) Products() []models.Variant {
	out := make([]models.Variant, len(idx.variants))
	copy(out, idx.variants)
	return out
}

// Categories returns distinct category names in first-seen order, for the
// grid filter facets.
func (idx *Index) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range idx.variants {
		if v.Category == "" || seen[v.Category] {
			continue
		}
		seen[v.Category] = true
		out = append(out, v.Category)
	}
	return out
}
