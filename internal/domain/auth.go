package domain

// SubjectType differentiates staff vs customer tokens.
type SubjectType string

const (
	SubjectTypeStaff    SubjectType = "staff"
	SubjectTypeCustomer SubjectType = "customer"
)
