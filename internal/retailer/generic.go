package retailer

func generic() *Profile {
	return &Profile{
		Name:           GenericName,
		ViolationFocus: "Any vendor compliance rule that carries a chargeback, deduction, or fine",
		FineStructure:  "Fines may be flat, per carton, per item, per occurrence, or a percentage of invoice",
	}
}
