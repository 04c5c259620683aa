package retailer

func costco() *Profile {
	return &Profile{
		Name:           "costco",
		Keywords:       []string{"costco"},
		ViolationFocus: "Pallet configuration, load quality, delivery appointment compliance",
		FineStructure:  "Flat per-occurrence fines with per-pallet rework charges",
	}
}
