package retailer

func walmart() *Profile {
	return &Profile{
		Name:     "walmart",
		Keywords: []string{"walmart", "sam's club", "retail link", "wal-mart"},
		KnownCodes: []string{
			"OTIF", "ASN-LATE", "ASN-MISSING", "LBL-GS1", "PLT-HGT",
		},
		ViolationFocus: "On-time in-full delivery (OTIF), ASN accuracy, GS1-128 carton labels, pallet build",
		FineStructure:  "OTIF fines are a percentage of cost of goods; label and ASN chargebacks are per carton plus a flat processing fee",
	}
}
