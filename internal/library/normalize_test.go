package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple lowercase", "Song A", "song a"},
		{"punctuation stripped", "Dynamite (feat. Jimin)!!", "dynamite feat jimin"},
		{"whitespace collapsed", "  spaced   out\ttitle ", "spaced out title"},
		{"underscores stripped", "my_song_file", "mysongfile"},
		{"digits kept", "24K Magic", "24k magic"},
		{"unicode letters kept", "Café Déjà Vu", "café déjà vu"},
		{"empty", "", ""},
		{"only punctuation", "?!-...", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeName(tc.input))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"Song A",
		"Dynamite (Radio Edit) - BTS",
		"  WILD   punctuation?!?  ",
		"café 42",
		"",
	}
	for _, input := range inputs {
		once := NormalizeName(input)
		assert.Equal(t, once, NormalizeName(once), "normalizing twice must be a no-op for %q", input)
	}
}

func TestNormalizeTrack(t *testing.T) {
	assert.Equal(t, "dynamite bts", NormalizeTrack("Dynamite", "BTS"))
	assert.Equal(t, "butter bts megan thee stallion", NormalizeTrack("Butter", "BTS, Megan Thee Stallion"))

	// Idempotent through the track form as well.
	once := NormalizeTrack("Dynamite", "BTS")
	assert.Equal(t, once, NormalizeName(once))
}
