package retailer

func kroger() *Profile {
	return &Profile{
		Name:     "kroger",
		Keywords: []string{"kroger", "ralphs", "fred meyer"},
		KnownCodes: []string{
			"KR-APPT", "KR-LBL", "KR-TEMP",
		},
		ViolationFocus: "Delivery appointments, case labeling, temperature control for perishables",
		FineStructure:  "Per-incident fines plus hourly detention or lumper charges",
	}
}
