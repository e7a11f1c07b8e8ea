// Package validation checks identifiers, loaded records and files.
package validation

import (
	"fmt"
	"regexp"

	apperrors "salesetl/internal/errors"
)

// IdentifierKind tags which table an identifier belongs to.
type IdentifierKind int

const (
	KindUnknown IdentifierKind = iota
	KindClient
	KindProduct
	KindSale
)

// String returns the source column name for the kind.
func (k IdentifierKind) String() string {
	switch k {
	case KindClient:
		return "id_client"
	case KindProduct:
		return "id_product"
	case KindSale:
		return "id_sale"
	default:
		return "unknown"
	}
}

var identifierPatterns = map[IdentifierKind]*regexp.Regexp{
	KindClient:  regexp.MustCompile(`^C\d{3,}$`),
	KindProduct: regexp.MustCompile(`^P\d{3,}$`),
	KindSale:    regexp.MustCompile(`^V\d{3,}$`),
}

// Identifier is a single tagged identifier to check.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ClientID tags value as a client identifier.
func ClientID(value string) Identifier { return Identifier{Kind: KindClient, Value: value} }

// ProductID tags value as a product identifier.
func ProductID(value string) Identifier { return Identifier{Kind: KindProduct, Value: value} }

// SaleID tags value as a sale identifier.
func SaleID(value string) Identifier { return Identifier{Kind: KindSale, Value: value} }

// ValidateIdentifier reports whether id matches the pattern of its kind:
// the kind's letter followed by three or more digits, nothing else.
//
// A malformed value is a data problem and yields (false, nil). An unknown
// kind or an empty value means nothing was supplied, which is a caller bug
// and yields ErrMissingIdentifier.
func ValidateIdentifier(id Identifier) (bool, error) {
	pattern, ok := identifierPatterns[id.Kind]
	if !ok || id.Value == "" {
		return false, fmt.Errorf("validate %s: %w", id.Kind, apperrors.ErrMissingIdentifier)
	}
	return pattern.MatchString(id.Value), nil
}

// ValidateClientID reports whether id looks like C001.
func ValidateClientID(id string) (bool, error) {
	return ValidateIdentifier(ClientID(id))
}

// ValidateProductID reports whether id looks like P001.
func ValidateProductID(id string) (bool, error) {
	return ValidateIdentifier(ProductID(id))
}

// ValidateSaleID reports whether id looks like V001.
func ValidateSaleID(id string) (bool, error) {
	return ValidateIdentifier(SaleID(id))
}

// IsClientID is ValidateClientID with the missing case folded into false.
func IsClientID(id string) bool {
	ok, err := ValidateClientID(id)
	return err == nil && ok
}
