package retailer

func target() *Profile {
	return &Profile{
		Name:     "target",
		Keywords: []string{"target corporation", "target.com", "partners online", "target stores"},
		KnownCodes: []string{
			"VC-101", "VC-204", "VC-310", "VC-412",
		},
		ViolationFocus: "Vendor compliance codes for carton labeling, appointment scheduling, and ASN timing",
		FineStructure:  "Charges are per carton or per purchase order with a minimum per occurrence",
	}
}
