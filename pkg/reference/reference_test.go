package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorDeduplicates(t *testing.T) {
	c := NewCollector()
	ref := Reference{
		Kind:       KindInternal,
		Target:     TargetArticle,
		Origin:     OriginText,
		RawText:    "artikel 3",
		Identifier: "artikel 3",
		SourcePath: "/wet/artikel[1]/al[1]",
	}

	assert.True(t, c.Add(ref))
	assert.False(t, c.Add(ref))

	other := ref
	other.SourcePath = "/wet/artikel[2]/al[1]"
	assert.True(t, c.Add(other))

	assert.Equal(t, 2, c.Len())
	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "/wet/artikel[1]/al[1]", all[0].SourcePath)
	assert.Equal(t, "/wet/artikel[2]/al[1]", all[1].SourcePath)
}

func TestCollectorAllReturnsCopy(t *testing.T) {
	c := NewCollector()
	c.Add(Reference{Identifier: "artikel 1"})

	all := c.All()
	all[0].Identifier = "changed"

	assert.Equal(t, "artikel 1", c.All()[0].Identifier)
}

func TestCollectorSetDocumentKeepsFirst(t *testing.T) {
	c := NewCollector()
	c.SetDocument("")
	c.SetDocument(" BWBR0018451 ")
	c.SetDocument("BWBR0000001")

	assert.Equal(t, "BWBR0018451", c.Document())
}

func TestBuildIdentifier(t *testing.T) {
	assert.Equal(t, "artikel 3 lid 2 onderdeel a", buildIdentifier("", "3", "2", "a"))
	assert.Equal(t, "Zorgverzekeringswet artikel 1", buildIdentifier("Zorgverzekeringswet", "1", "", ""))
	assert.Equal(t, "", buildIdentifier("", "", "", ""))
}

func TestParseJCI(t *testing.T) {
	jci, err := ParseJCI("jci1.3:c:BWBR0018451&artikel=1&lid=2&g=2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, "1.3", jci.Version)
	assert.Equal(t, "c", jci.Kind)
	assert.Equal(t, "BWBR0018451", jci.BWBID)
	assert.Equal(t, "1", jci.Article)
	assert.Equal(t, "2", jci.Paragraph)
	assert.Equal(t, "2024-01-01", jci.ValidOn)
	assert.Equal(t, TargetParagraph, jci.target())
}

func TestParseJCIInvalid(t *testing.T) {
	_, err := ParseJCI("https://wetten.overheid.nl/BWBR0018451")
	assert.Error(t, err)
}

func TestFromLink(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		document   string
		kind       Kind
		refTarget  Target
		identifier string
		law        string
	}{
		{
			name:       "same document",
			target:     "jci1.3:c:BWBR0018451&artikel=1&lid=2",
			document:   "BWBR0018451",
			kind:       KindInternal,
			refTarget:  TargetParagraph,
			identifier: "artikel 1 lid 2",
			law:        "BWBR0018451",
		},
		{
			name:       "other document",
			target:     "jci1.3:c:BWBR0018451&artikel=1&lid=2",
			document:   "BWBR0002320",
			kind:       KindExternal,
			refTarget:  TargetParagraph,
			identifier: "BWBR0018451 artikel 1 lid 2",
			law:        "BWBR0018451",
		},
		{
			name:       "chapter only",
			target:     "jci1.3:c:BWBR0018451&hoofdstuk=2",
			kind:       KindExternal,
			refTarget:  TargetChapter,
			identifier: "BWBR0018451 hoofdstuk 2",
			law:        "BWBR0018451",
		},
		{
			name:       "whole law",
			target:     "jci1.3:c:BWBR0018451",
			kind:       KindExternal,
			refTarget:  TargetLaw,
			identifier: "BWBR0018451",
			law:        "BWBR0018451",
		},
		{
			name:       "celex",
			target:     "CELEX:32016R0679",
			kind:       KindExternal,
			refTarget:  TargetRegulation,
			identifier: "CELEX:32016R0679",
			law:        "32016R0679",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := FromLink(tt.target, "link text", tt.document, "/wet/artikel[1]/al[1]/extref[1]")
			assert.Equal(t, tt.kind, ref.Kind)
			assert.Equal(t, tt.refTarget, ref.Target)
			assert.Equal(t, tt.identifier, ref.Identifier)
			assert.Equal(t, tt.law, ref.Law)
			assert.Equal(t, OriginElement, ref.Origin)
			assert.Equal(t, "link text", ref.RawText)
			assert.Equal(t, "/wet/artikel[1]/al[1]/extref[1]", ref.SourcePath)
		})
	}
}
