// Package services contains stateless domain services for the catalog bounded
// context. Domain services enforce business rules that operate purely on domain
// types and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"net/url"
	"unicode"
	"unicode/utf8"

	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 4000
)

// ValidateName enforces display-name rules. An empty name is allowed; a
// non-empty one must fit in 255 characters and contain no control characters.
func ValidateName(name string) error {
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("item name must not exceed %d characters", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("item name must not contain control characters")
		}
	}
	return nil
}

// ValidateContentRef requires an absolute URI such as ipfs://... or https://...
func ValidateContentRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("content reference is required")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("content reference is not a valid URI: %w", err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("content reference must be an absolute URI")
	}
	return nil
}

// ValidateItemForCreation performs cross-field validation on an Item built by
// models.NewItem before it is persisted.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	if err := ValidateContentRef(item.ArtURI); err != nil {
		return err
	}

	if err := ValidateName(item.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if utf8.RuneCountInString(item.Description) > maxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", maxDescriptionLength)
	}

	if item.ExternalLink != "" {
		if u, err := url.Parse(item.ExternalLink); err != nil || u.Scheme == "" {
			return fmt.Errorf("external link must be an absolute URL")
		}
	}

	if item.Collection == "" {
		return fmt.Errorf("collection must be set")
	}

	if item.TokenKind != models.TokenKindERC721 && item.TokenKind != models.TokenKindERC1155 {
		return fmt.Errorf("token kind %q is not supported", item.TokenKind)
	}

	if item.Status != models.ItemStatusCreated || item.Index != models.UnassignedIndex {
		return fmt.Errorf("new items must start Created with index %q", models.UnassignedIndex)
	}

	return nil
}
