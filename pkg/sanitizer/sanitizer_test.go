package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims", "  Chennai Airport  ", "Chennai Airport"},
		{"collapses whitespace", "T Nagar,\t\n Chennai", "T Nagar, Chennai"},
		{"drops control characters", "Anna\x00 Nagar", "Anna Nagar"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, SanitizeText(got), "must be idempotent")
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "mike.johnson@example.com", SanitizeEmail("  Mike.Johnson@Example.COM "))
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"indian with spaces", "+91 6381014350", "+916381014350"},
		{"indian national", "6381014350", "+916381014350"},
		{"us formatted", "+1 (212) 555-1234", "+12125551234"},
		{"already e164", "+916381014350", "+916381014350"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePhone(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, SanitizePhone(got))
		})
	}
}

func TestSanitizeImage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"relative path kept", "/placeholder-car.svg", "/placeholder-car.svg"},
		{"adds scheme", "images.example.com/cars/dzire.jpg", "https://images.example.com/cars/dzire.jpg"},
		{"upgrades http", "http://Images.Example.com/cars/", "https://images.example.com/cars"},
		{"empty", " ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeImage(tt.input))
		})
	}
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice([]string{" AC ", "GPS", "", "AC", "Bluetooth  Audio"}, SanitizeText)
	assert.Equal(t, []string{"AC", "GPS", "Bluetooth Audio"}, got)

	assert.Empty(t, SanitizeSlice(nil, SanitizeText))
	assert.NotNil(t, SanitizeSlice(nil, SanitizeText))
}
