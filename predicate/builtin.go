package predicate

// Builtins returns the predicates every registry starts with. The flag
// vocabulary matches what upstream attribute checkers emit.
func Builtins() []Predicate {
	return []Predicate{
		FlagAny("blank-or-default", "blank_or_default"),
		FlagAny("duplicate-values", "duplicate_values"),
		FlagAny("invalid-format", "invalid_format"),
		FlagAny("placeholder-value", "placeholder_value", "generic_value"),
		FlagAny("brand-in-item-name", "brand_in_item_name"),
		FlagAny("restricted-items", "restricted_items"),
	}
}
