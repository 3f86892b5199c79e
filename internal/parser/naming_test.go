package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"user_profile", "UserProfile"},
		{"api-key", "ApiKey"},
		{"_leading__double", "LeadingDouble"},
		{"", ""},
		{"--foo_bar-", "FooBar"},
		{"already_Camel", "AlreadyCamel"},
		{"HTTP_server", "HttpServer"},
		{"users", "Users"},
		{"v2_api", "V2Api"},
		{"v2api", "V2api"},
		{"___", ""},
		{"mixed-and_both", "MixedAndBoth"},
		{"ÉTÉ_data", "ÉtéData"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Users", true},
		{"$Ref", true},
		{"_Private", true},
		{"V2", true},
		{"", false},
		{"2fa", false},
		{"Api-Key", false},
		{"With Space", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidIdentifier(tt.name))
		})
	}
}
