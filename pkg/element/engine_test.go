package element

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/coolbeans/harvester/pkg/errdefs"
	"github.com/coolbeans/harvester/pkg/reference"
)

const exampleXML = `<wet><artikel nr="1"><lid nr="1">Tekst A</lid><lid nr="2">Tekst B</lid></artikel></wet>`

func parse(t *testing.T, xml string, opts ...Option) *Document {
	t.Helper()
	doc, err := NewEngine(DefaultRegistry(), opts...).Parse([]byte(xml))
	require.NoError(t, err)
	return doc
}

func TestParseExample(t *testing.T) {
	doc := parse(t, exampleXML)

	root := doc.Root
	assert.Equal(t, TypeDocument, root.Type)
	assert.Equal(t, "/wet", root.Path)
	require.Len(t, root.Children, 1)

	article := root.Children[0]
	assert.Equal(t, TypeArticle, article.Type)
	assert.Equal(t, "1", article.Label)
	assert.Equal(t, "/wet/artikel[1]", article.Path)
	require.Len(t, article.Children, 2)

	assert.Equal(t, TypeParagraph, article.Children[0].Type)
	assert.Equal(t, "1", article.Children[0].Label)
	assert.Equal(t, "Tekst A", article.Children[0].Content())
	assert.Equal(t, "/wet/artikel[1]/lid[1]", article.Children[0].Path)
	assert.Equal(t, "2", article.Children[1].Label)
	assert.Equal(t, "Tekst B", article.Children[1].Content())
	assert.Equal(t, "/wet/artikel[1]/lid[2]", article.Children[1].Path)

	assert.Equal(t, "Tekst A Tekst B", article.Content())
	assert.Empty(t, doc.Warnings)
}

func TestParseTailTextOrder(t *testing.T) {
	doc := parse(t, `<wet><artikel nr="1"><al>Begin <nadruk>vet</nadruk> midden<noot nr="1">voetnoot</noot> einde</al></artikel></wet>`)

	al := doc.Root.Children[0].Children[0]
	assert.Equal(t, TypeText, al.Type)
	assert.Equal(t, "Begin ", al.Text)
	require.Len(t, al.Children, 1, "notes are merged into the text run")
	assert.Equal(t, " midden[1] einde", al.Children[0].Tail)
	assert.Equal(t, "Begin vet midden[1] einde", al.Content())
}

func TestParseBlocksAreSeparated(t *testing.T) {
	doc := parse(t, `<wet><artikel nr="1"><lid nr="1"><al>Eerste</al><al>Tweede</al></lid></artikel></wet>`)
	assert.Equal(t, "Eerste Tweede", doc.Root.Children[0].Content())
}

func TestParseHeadingLabelAndTitle(t *testing.T) {
	doc := parse(t, `<wet><artikel><kop><label>Artikel</label><nr>1a</nr><titel>Begrippen</titel></kop><al>In deze wet wordt verstaan</al></artikel></wet>`)

	article := doc.Root.Children[0]
	assert.Equal(t, "1a", article.Label)
	assert.Equal(t, "Begrippen", article.Title)
	assert.Equal(t, "In deze wet wordt verstaan", article.Content(), "headings are metadata")
}

func TestParseLabelSources(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{"nr attribute", `<wet><artikel nr="3"/></wet>`, "3"},
		{"label attribute", `<wet><artikel label="Artikel 4b"/></wet>`, "4b"},
		{"lidnr child", `<wet><lid><lidnr>2</lidnr><al>x</al></lid></wet>`, "2"},
		{"li.nr child", `<wet><li><li.nr>c.</li.nr><al>x</al></li></wet>`, "c."},
		{"none", `<wet><artikel><al>x</al></artikel></wet>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.xml)
			require.Len(t, doc.Root.Children, 1)
			assert.Equal(t, tt.want, doc.Root.Children[0].Label)
		})
	}
}

func TestParseUnknownTagPassesThrough(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	doc := parse(t, `<wet><artikel nr="1"><lid nr="1"><mystery>Geheim</mystery> tekst</lid></artikel></wet>`,
		WithLogger(zap.New(core)))

	require.Len(t, doc.Warnings, 1)
	assert.Equal(t, errdefs.UnknownTagWarning{Tag: "mystery", Path: "/wet/artikel[1]/lid[1]/mystery[1]"}, doc.Warnings[0])

	lid := doc.Root.Children[0].Children[0]
	assert.Equal(t, "Geheim tekst", lid.Content())
	assert.Equal(t, TypeUnknown, lid.Children[0].Type)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "mystery", logs.All()[0].ContextMap()["tag"])
}

func TestParseIgnoredAndPreamble(t *testing.T) {
	doc := parse(t, `<wetgeving><intitule>Wet van 1 januari 2020 houdende regels</intitule><citeertitel>Testwet</citeertitel><meta-data><x>skip</x></meta-data><wet-besluit><wettekst><artikel nr="1"><al>Inhoud</al></artikel></wettekst></wet-besluit></wetgeving>`)

	root := doc.Root
	assert.Equal(t, "Inhoud", root.Content())

	citation := root.Children[1]
	assert.Equal(t, TypePreamble, citation.Type)
	assert.Equal(t, "Testwet", citation.Title)

	ignored := root.Children[2]
	assert.Equal(t, TypeIgnored, ignored.Type)
	assert.Empty(t, ignored.Children)
	assert.Empty(t, doc.Warnings, "ignored subtrees are not parsed")
}

func TestParseReferences(t *testing.T) {
	doc := parse(t, `<toestand bwb-id="BWBR0018451"><wetgeving><wet-besluit><wettekst><artikel nr="1"><al>Zie <extref doc="jci1.3:c:BWBR0018451&amp;artikel=2">artikel 2</extref> en artikel 3, eerste lid.</al></artikel></wettekst></wet-besluit></wetgeving></toestand>`)

	assert.Equal(t, "BWBR0018451", doc.ID)
	require.Len(t, doc.References, 2)

	link := doc.References[0]
	assert.Equal(t, reference.OriginElement, link.Origin)
	assert.Equal(t, reference.KindInternal, link.Kind)
	assert.Equal(t, "artikel 2", link.Identifier)
	assert.Equal(t, "/toestand/wetgeving[1]/wet-besluit[1]/wettekst[1]/artikel[1]/al[1]/extref[1]", link.SourcePath)

	text := doc.References[1]
	assert.Equal(t, reference.OriginText, text.Origin)
	assert.Equal(t, "artikel 3 lid 1", text.Identifier)
	assert.Equal(t, "/toestand/wetgeving[1]/wet-besluit[1]/wettekst[1]/artikel[1]/al[1]", text.SourcePath)
}

func TestParseDeclaredEncoding(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><wet><artikel nr=\"1\"><al>Caf\xe9</al></artikel></wet>")
	doc, err := NewEngine(nil).Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Café", doc.Root.Content())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		path string
	}{
		{"mismatched tag", `<wet><artikel nr="1"><lid>Tekst</artikel></wet>`, "/wet/artikel[1]/lid[1]"},
		{"truncated", `<wet><artikel nr="1">Tekst`, "/wet/artikel[1]"},
		{"invalid utf-8", "<wet><artikel nr=\"1\">Tekst \xff</artikel></wet>", "/wet/artikel[1]"},
		{"unsupported root", `<html><body/></html>`, "/html"},
		{"not a document root", `<artikel nr="1"/>`, "/artikel"},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(nil).Parse([]byte(tt.xml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errdefs.ErrParse))

			var parseErr *errdefs.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.path, parseErr.Path)
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	engine := NewEngine(nil, WithMaxDepth(2))

	_, err := engine.Parse([]byte(exampleXML))
	var parseErr *errdefs.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "/wet/artikel[1]/lid[1]", parseErr.Path)

	_, err = NewEngine(nil, WithMaxDepth(3)).Parse([]byte(exampleXML))
	assert.NoError(t, err)
}

func TestParseCustomFallback(t *testing.T) {
	drop := HandlerFunc(func(el *etree.Element, ctx ParseContext, _ Recurse) (*ParseResult, error) {
		return nil, nil
	})
	doc := parse(t, `<wet><artikel nr="1"><al>Tekst</al><onbekend>weg</onbekend></artikel></wet>`, WithFallback(drop))

	article := doc.Root.Children[0]
	require.Len(t, article.Children, 1)
	assert.Equal(t, "Tekst", article.Content())
	assert.Empty(t, doc.Warnings)
}

func TestParseHandlerErrorCarriesPath(t *testing.T) {
	reg := DefaultRegistry()
	require.NoError(t, reg.Register("kapot", HandlerFunc(func(*etree.Element, ParseContext, Recurse) (*ParseResult, error) {
		return nil, errors.New("boom")
	})))

	_, err := NewEngine(reg).Parse([]byte(`<wet><artikel nr="1"><kapot/></artikel></wet>`))
	var parseErr *errdefs.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "/wet/artikel[1]/kapot[1]", parseErr.Path)
}

func TestParseDeterministic(t *testing.T) {
	input := `<toestand bwb-id="BWBR0000001"><wettekst><artikel nr="1"><lid nr="1"><al>Zie artikel 2 en hoofdstuk 3.</al></lid></artikel><artikel nr="2"><onbekend>x</onbekend></artikel></wettekst></toestand>`
	engine := NewEngine(nil)

	first, err := engine.Parse([]byte(input))
	require.NoError(t, err)
	second, err := engine.Parse([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
