package element

// Tag families of the BWB schema. Each family is registered by its own
// function so new families can be added without touching dispatch.
var (
	DocumentTags = []string{"toestand", "wetgeving", "wet-besluit", "wettekst", "wet", "regeling", "regeling-tekst", "besluit"}
	DivisionTags = []string{"boek", "deel", "hoofdstuk", "titeldeel", "afdeling", "paragraaf", "sub-paragraaf", "divisie"}
	InlineTags   = []string{"nadruk", "sup", "sub", "inf", "unl", "i", "b", "u", "redactie"}
	LinkTags     = []string{"extref", "intref"}
	IgnoredTags  = []string{"meta-data", "bwb-inputbestand", "bwb-wijzigingen", "plaatje", "illustratie", "brondata", "jcis"}

	titledPreambleTags = []string{"intitule", "citeertitel"}
	preambleTags       = []string{"aanhef", "wij", "considerans", "considerans.al", "afkondiging", "slotformulering", "ondertekening"}
)

// RegisterStructural registers documents, divisions, articles, paragraphs,
// lists, headings, labels and text blocks.
func RegisterStructural(r *Registry) error {
	if err := registerAll(r, DocumentTags, Structural(TypeDocument)); err != nil {
		return err
	}
	if err := registerAll(r, DivisionTags, Structural(TypeDivision)); err != nil {
		return err
	}

	single := []struct {
		tag     string
		handler Handler
	}{
		{"artikel", Structural(TypeArticle)},
		{"lid", Structural(TypeParagraph)},
		{"lijst", Structural(TypeList)},
		{"li", Structural(TypeListItem)},
		{"kop", Heading()},
		{"label", Label(false)},
		{"nr", Label(true)},
		{"lidnr", Label(true)},
		{"li.nr", Label(true)},
		{"titel", Title()},
		{"al", Text()},
		{"tussenkop", Text()},
	}
	for _, s := range single {
		if err := r.Register(s.tag, s.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterInline registers inline markup, reference links and notes.
func RegisterInline(r *Registry) error {
	if err := registerAll(r, InlineTags, Inline()); err != nil {
		return err
	}
	if err := registerAll(r, LinkTags, Link()); err != nil {
		return err
	}
	return r.Register("noot", Note())
}

// RegisterPreamble registers the preamble family. citeertitel and intitule
// carry the document title.
func RegisterPreamble(r *Registry) error {
	if err := registerAll(r, titledPreambleTags, Preamble(true)); err != nil {
		return err
	}
	return registerAll(r, preambleTags, Preamble(false))
}

// RegisterIgnored registers elements whose subtree is skipped.
func RegisterIgnored(r *Registry) error {
	return registerAll(r, IgnoredTags, Ignored())
}

// RegisterDefaults registers every built-in family.
func RegisterDefaults(r *Registry) error {
	for _, register := range []func(*Registry) error{
		RegisterStructural,
		RegisterInline,
		RegisterPreamble,
		RegisterIgnored,
	} {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRegistry returns an unsealed registry with all built-in families.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := RegisterDefaults(r); err != nil {
		panic(err)
	}
	return r
}

func registerAll(r *Registry, tags []string, handler Handler) error {
	for _, tag := range tags {
		if err := r.Register(tag, handler); err != nil {
			return err
		}
	}
	return nil
}
