package models

import (
	"fmt"
	"strings"
)

// TokenKind is the closed set of token standards an Item can be minted under.
type TokenKind string

const (
	// TokenKindERC721 is a single-edition token.
	TokenKindERC721 TokenKind = "ERC721"
	// TokenKindERC1155 is a multi-edition token.
	TokenKindERC1155 TokenKind = "ERC1155"
)

// ParseTokenKind maps a caller-supplied label onto the closed enumeration.
// An empty label selects the multi-edition kind; any other unrecognized label
// is rejected rather than silently coerced.
func ParseTokenKind(label string) (TokenKind, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "":
		return TokenKindERC1155, nil
	case string(TokenKindERC721):
		return TokenKindERC721, nil
	case string(TokenKindERC1155):
		return TokenKindERC1155, nil
	default:
		return "", fmt.Errorf("unknown token kind %q", label)
	}
}

// String returns the underlying string value.
func (k TokenKind) String() string {
	return string(k)
}
