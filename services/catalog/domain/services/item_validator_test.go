package services

import (
	"strings"
	"testing"

	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "Valid Item Name", false},
		{"empty name allowed", "", false},
		{"unicode name", "猫 #7", false},
		{"255 characters", strings.Repeat("x", 255), false},
		{"256 characters", strings.Repeat("x", 256), true},
		{"tab character (control)", "Name\tName", true},
		{"newline character (control)", "Name\nName", true},
		{"null byte (control)", "Name\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateContentRef(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"ipfs://bafybeigdyrzt", false},
		{"https://cdn.example.com/a.png", false},
		{"", true},
		{"just-a-file.png", true},
		{"://broken", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateContentRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateContentRef(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateItemForCreation(t *testing.T) {
	valid := func() *models.Item {
		return models.NewItem(models.NewItemParams{
			Collection: "0xA",
			ArtURI:     "ipfs://x",
			Name:       "Cat",
			TokenKind:  models.TokenKindERC721,
		})
	}

	t.Run("nil item returns error", func(t *testing.T) {
		if err := ValidateItemForCreation(nil); err == nil {
			t.Fatal("expected error for nil item")
		}
	})

	t.Run("valid item returns nil", func(t *testing.T) {
		if err := ValidateItemForCreation(valid()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	cases := []struct {
		name   string
		mutate func(*models.Item)
	}{
		{"missing art uri", func(i *models.Item) { i.ArtURI = "" }},
		{"relative art uri", func(i *models.Item) { i.ArtURI = "cat.png" }},
		{"control char in name", func(i *models.Item) { i.Name = "a\x00b" }},
		{"relative external link", func(i *models.Item) { i.ExternalLink = "example.com" }},
		{"empty collection", func(i *models.Item) { i.Collection = "" }},
		{"unknown token kind", func(i *models.Item) { i.TokenKind = "ERC20" }},
		{"assigned index", func(i *models.Item) { i.Index = "5" }},
		{"non-initial status", func(i *models.Item) { i.Status = models.ItemStatusSold }},
		{"oversized description", func(i *models.Item) { i.Description = strings.Repeat("d", 4001) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := valid()
			tc.mutate(item)
			if err := ValidateItemForCreation(item); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
