package models

// OrganizationRecord is one normalized registry row: the head office of a
// legal entity or one of its branches.
type OrganizationRecord struct {
	RegistrationNumber string  `json:"ogrn" bson:"ogrn"`
	TaxID              string  `json:"inn" bson:"inn"`
	TaxCode            string  `json:"kpp" bson:"kpp"`
	FullName           string  `json:"full_name" bson:"full_name"`
	ShortName          *string `json:"short_name" bson:"short_name"`
	Address            string  `json:"address" bson:"address"`
	RegionCode         string  `json:"region_code" bson:"region_code"`
	IsMain             bool    `json:"is_main" bson:"is_main"`
}

// RecordKey is the storage uniqueness triple (inn, ogrn, kpp).
type RecordKey struct {
	TaxID              string
	RegistrationNumber string
	TaxCode            string
}

// Key returns the uniqueness triple of the record.
func (r OrganizationRecord) Key() RecordKey {
	return RecordKey{
		TaxID:              r.TaxID,
		RegistrationNumber: r.RegistrationNumber,
		TaxCode:            r.TaxCode,
	}
}

// String renders the key as "inn/ogrn/kpp".
func (k RecordKey) String() string {
	return k.TaxID + "/" + k.RegistrationNumber + "/" + k.TaxCode
}

// ShortNameOrEmpty dereferences ShortName.
func (r OrganizationRecord) ShortNameOrEmpty() string {
	if r.ShortName == nil {
		return ""
	}
	return *r.ShortName
}
