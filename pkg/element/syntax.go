package element

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"

	"github.com/coolbeans/harvester/pkg/errdefs"
)

type openElement struct {
	path   string
	counts map[string]int
}

// checkWellFormed scans the token stream of data and reports the first
// structural error with the path of the innermost open element.
func checkWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true
	decoder.CharsetReader = charset.NewReaderLabel

	var stack []openElement
	currentPath := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1].path
	}
	rootSeen := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				line, _ := decoder.InputPos()
				return &errdefs.ParseError{Path: currentPath(), Line: line, Err: errors.New("unterminated element")}
			}
			if !rootSeen {
				return &errdefs.ParseError{Err: errors.New("document has no root element")}
			}
			return nil
		}
		if err != nil {
			line, _ := decoder.InputPos()
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				line = syntaxErr.Line
			}
			return &errdefs.ParseError{Path: currentPath(), Line: line, Err: err}
		}

		switch t := token.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if len(stack) == 0 {
				if rootSeen {
					line, _ := decoder.InputPos()
					return &errdefs.ParseError{Path: "/" + name, Line: line, Err: errors.New("multiple root elements")}
				}
				rootSeen = true
				stack = append(stack, openElement{path: "/" + name})
				continue
			}
			parent := &stack[len(stack)-1]
			if parent.counts == nil {
				parent.counts = make(map[string]int)
			}
			parent.counts[name]++
			stack = append(stack, openElement{path: fmt.Sprintf("%s/%s[%d]", parent.path, name, parent.counts[name])})
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				line, _ := decoder.InputPos()
				return &errdefs.ParseError{Line: line, Err: errors.New("character data outside the root element")}
			}
		}
	}
}
