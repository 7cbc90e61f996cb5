package element

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coolbeans/harvester/pkg/errdefs"
)

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("artikel", Structural(TypeArticle)))
	assert.True(t, reg.Has("artikel"))
	assert.Equal(t, 1, reg.Len())

	tests := []struct {
		name    string
		tag     string
		handler Handler
	}{
		{"empty tag", "", Inline()},
		{"nil handler", "lid", nil},
		{"duplicate", "artikel", Inline()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.tag, tt.handler)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
		})
	}
}

func TestRegistrySeal(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("al", Text()))

	reg.Seal()
	reg.Seal()
	assert.True(t, reg.Sealed())

	err := reg.Register("lid", Structural(TypeParagraph))
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
	assert.False(t, reg.Has("lid"))
}

func TestDefaultRegistryFamilies(t *testing.T) {
	reg := DefaultRegistry()
	assert.False(t, reg.Sealed())

	for _, tag := range []string{"wet", "toestand", "hoofdstuk", "artikel", "lid", "li", "al", "kop", "nadruk", "extref", "noot", "citeertitel", "meta-data"} {
		assert.True(t, reg.Has(tag), tag)
	}

	tags := reg.Tags()
	assert.IsIncreasing(t, tags)
	assert.Equal(t, reg.Len(), len(tags))
}

func TestRegisterFamilyTwiceFails(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, RegisterInline(reg))
	assert.Error(t, RegisterInline(reg))
}

func TestRegistryDispatchUsesPassThrough(t *testing.T) {
	reg := DefaultRegistry()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<onbekend>tekst</onbekend>`))

	diag := &diagnostics{logger: zap.NewNop()}
	ctx := ParseContext{Path: "/onbekend", Depth: 1, diag: diag}
	result, err := reg.Dispatch(doc.Root(), ctx, func(*etree.Element) (*ParseResult, error) { return nil, nil })
	require.NoError(t, err)

	assert.Equal(t, TypeUnknown, result.Type)
	assert.Equal(t, "tekst", result.Content())
	require.Len(t, diag.warnings, 1)
	assert.Equal(t, "onbekend", diag.warnings[0].Tag)
}

func TestTypeClassification(t *testing.T) {
	assert.True(t, TypeParagraph.IsBlock())
	assert.False(t, TypeInline.IsBlock())
	assert.False(t, TypeReference.IsBlock())
	assert.True(t, TypeHeading.IsMetadata())
	assert.True(t, TypeIgnored.IsMetadata())
	assert.False(t, TypeText.IsMetadata())
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a b c", Clean("  a\n\t b   c "))
	assert.Equal(t, "\u00e9", Clean("e\u0301"))
	assert.Equal(t, "", Clean(" \n "))
}
