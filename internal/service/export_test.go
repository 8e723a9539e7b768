package service

// Exported aliases so the external test package can reference these constants.
const (
	PmSubjectPurchase      = pmSubjectPurchase
	PmSubjectAdminPurchase = pmSubjectAdminPurchase
)
