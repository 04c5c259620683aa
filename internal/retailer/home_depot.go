package retailer

func homeDepot() *Profile {
	return &Profile{
		Name:     "home-depot",
		Keywords: []string{"home depot", "homedepot"},
		KnownCodes: []string{
			"THD-ASN", "THD-LBL", "THD-PKG",
		},
		ViolationFocus: "ASN submission, carton labels, packaging and palletization standards",
		FineStructure:  "Per carton chargebacks with flat inspection fees for non-compliant packaging",
	}
}
