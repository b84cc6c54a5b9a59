package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_BasicASCII(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"KFC", "kfc"},
		{"ALL UPPER CASE", "all-upper-case"},
		{"  padded  ", "padded"},
		{"Hello   World!", "hello-world"},
		{"--a--b--", "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_BrandNames(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"McDonald's", "mcdonalds"},
		{"Café Noir", "cafe-noir"},
		{"Crème Brûlée & Co.", "creme-brulee-co"},
		{"Pizza Hut 2.0", "pizza-hut-2-0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_Empty(t *testing.T) {
	assert.Equal(t, "", Generate(""))
	assert.Equal(t, "", Generate("!!!"))
}

func TestIsValid(t *testing.T) {
	valid := []string{"acme", "acme-2", "mcdonalds", "a-b-c", "123"}
	for _, s := range valid {
		assert.True(t, IsValid(s), s)
	}

	invalid := []string{"", "Acme", "acme--2", "-acme", "acme-", "acme_2", "ac me"}
	for _, s := range invalid {
		assert.False(t, IsValid(s), s)
	}
}

func TestGenerate_OutputIsValid(t *testing.T) {
	for _, name := range []string{"McDonald's", "Burger King", "Café Noir", "7-Eleven"} {
		assert.True(t, IsValid(Generate(name)), name)
	}
}
