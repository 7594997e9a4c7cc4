package core

// Kind classifies failures into the categories the error translator understands.
type Kind uint8

const (
	KindHTTP Kind = iota
	KindRequiredToken
	KindMalformedToken
	KindInvalidToken
	KindInvalidCredentials
	KindValidation
	KindUniqueConstraint
	KindForeignKeyConstraint
	KindUnhandled
)

var kindNames = [...]string{
	KindHTTP:                 "http",
	KindRequiredToken:        "required_token",
	KindMalformedToken:       "malformed_token",
	KindInvalidToken:         "invalid_token",
	KindInvalidCredentials:   "invalid_credentials",
	KindValidation:           "validation",
	KindUniqueConstraint:     "unique_constraint",
	KindForeignKeyConstraint: "foreign_key_constraint",
	KindUnhandled:            "unhandled",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}
