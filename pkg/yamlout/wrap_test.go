package yamlout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestShouldWrapText(t *testing.T) {
	assert.False(t, ShouldWrapText("kort", 10))
	assert.False(t, ShouldWrapText("precies tien", 12))
	assert.True(t, ShouldWrapText("precies tien", 11))
	assert.False(t, ShouldWrapText("één", 3), "width counts characters, not bytes")
	assert.False(t, ShouldWrapText(strings.Repeat("x", 500), 0))
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"short", "Tekst A", 20, []string{"Tekst A"}},
		{"greedy", "de minister kan regels stellen", 12, []string{"de minister", "kan regels", "stellen"}},
		{"exact fit", "aaaa bbbb", 9, []string{"aaaa bbbb"}},
		{"long token alone", "zie https://wetten.overheid.nl/BWBR0018451 voor details", 10, []string{"zie", "https://wetten.overheid.nl/BWBR0018451", "voor", "details"}},
		{"double space is not a break", "een  twee drie", 5, []string{"een  twee", "drie"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width))
		})
	}
}

func TestWrapTextProperties(t *testing.T) {
	texts := []string{
		"Onze Minister kan bij ministeriële regeling nadere regels stellen over de wijze waarop de gegevens worden verstrekt.",
		"Een verzekeringsplichtige die niet binnen drie maanden na het ontstaan van de verzekeringsplicht een zorgverzekering heeft gesloten.",
		" leading and trailing ",
		"a b c d e f g h i j k l m n o p q r s t u v w x y z",
		"onafgebrokenreeksvanlettersdielangerisdandebreedte en nog wat",
		"één twee drie vier vijf zes zeven acht negen tien",
	}

	for _, text := range texts {
		for _, width := range []int{1, 5, 10, 20, 40, 80} {
			lines := WrapText(text, width)
			assert.Equal(t, text, strings.Join(lines, " "), "width %d", width)
			for _, line := range lines {
				if utf8.RuneCountInString(line) > width {
					assert.NotContains(t, strings.TrimSpace(line), " ", "only a single token may exceed the width: %q", line)
				}
			}
		}
	}
}

func TestWrapTextNoBreakAtEdges(t *testing.T) {
	lines := WrapText(" a b ", 1)
	assert.Equal(t, " a b ", strings.Join(lines, " "))
	assert.Equal(t, []string{" a", "b "}, lines)
}

func TestFoldable(t *testing.T) {
	assert.True(t, foldable("gewone tekst"))
	assert.False(t, foldable(" voorloopspatie"))
	assert.False(t, foldable("regel\neinde"))
	assert.False(t, foldable("tab\tteken"))
	assert.False(t, foldable(""))
}
