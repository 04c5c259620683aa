package retailer

func amazon() *Profile {
	return &Profile{
		Name:     "amazon",
		Keywords: []string{"amazon", "vendor central"},
		KnownCodes: []string{
			"PREP-UNIT", "LBL-FNSKU", "ASN-ACC", "SHIP-WIN",
		},
		ViolationFocus: "Unit prep, FNSKU labeling, ASN accuracy, shipment window adherence",
		FineStructure:  "Chargebacks are per unit or per carton, often with a percentage of cost of goods for shipment window misses",
	}
}
