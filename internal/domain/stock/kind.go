package stock

// ItemKind separates the two parallel stock domains: raw ingredients and
// finished products. Balances and movements are always keyed by kind so the
// same item id could in principle exist in both domains.
type ItemKind string

const (
	// ItemKindIngredient is raw material consumed by production
	ItemKindIngredient ItemKind = "INGREDIENT"
	// ItemKindProduct is a finished good produced and sold
	ItemKindProduct ItemKind = "PRODUCT"
)

// String returns the string representation of ItemKind
func (k ItemKind) String() string {
	return string(k)
}

// IsValid returns true if the item kind is valid
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindIngredient, ItemKindProduct:
		return true
	}
	return false
}
