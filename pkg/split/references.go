package split

import (
	"strings"

	"github.com/coolbeans/harvester/pkg/reference"
)

// AttachReferences assigns every reference to the deepest component whose
// source element encloses the reference's source path. It records the
// reference identifier on that component and returns the references with
// SourceAddress filled in. Components produced by a split strategy share
// their leaf's source and are not candidates.
func AttachReferences(root *ArticleComponent, refs []reference.Reference) []reference.Reference {
	result := make([]reference.Reference, len(refs))
	for i, ref := range refs {
		owner := enclosing(root, ref.SourcePath)
		if owner == nil {
			owner = root
		}
		ref.SourceAddress = owner.Address
		if !containsString(owner.References, ref.Identifier) {
			owner.References = append(owner.References, ref.Identifier)
		}
		result[i] = ref
	}
	return result
}

func enclosing(component *ArticleComponent, path string) *ArticleComponent {
	for _, child := range component.Children {
		if child.SourcePath == component.SourcePath {
			continue
		}
		if encloses(child.SourcePath, path) {
			if deeper := enclosing(child, path); deeper != nil {
				return deeper
			}
			return child
		}
	}
	return nil
}

func encloses(ancestor, path string) bool {
	return ancestor != "" && (path == ancestor || strings.HasPrefix(path, ancestor+"/"))
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
