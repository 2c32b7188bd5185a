package domain

// SubjectType differentiates admin vs employee tokens.
type SubjectType string

const (
	SubjectTypeAdmin    SubjectType = "admin"
	SubjectTypeEmployee SubjectType = "employee"
)
