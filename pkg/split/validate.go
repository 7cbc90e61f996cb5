package split

import (
	"fmt"
	"strings"

	"github.com/coolbeans/harvester/pkg/errdefs"
)

// Validate checks the addressing invariants of an article tree rooted at the
// document component:
//   - every address is unique,
//   - every address is its parent's address plus exactly one segment,
//   - siblings of the same level have strictly increasing labels in document order.
func Validate(root *ArticleComponent) error {
	seen := make(map[string]bool)
	return validateChildren(root, seen)
}

func validateChildren(parent *ArticleComponent, seen map[string]bool) error {
	last := make(map[string]string)

	for _, child := range parent.Children {
		if child.Address == "" {
			return &errdefs.SplitError{Address: parent.Address, Reason: "component without address"}
		}
		if seen[child.Address] {
			return &errdefs.SplitError{Address: child.Address, Reason: "duplicate address"}
		}
		seen[child.Address] = true

		segment := child.Address
		if parent.Address != "" {
			if !strings.HasPrefix(child.Address, parent.Address+".") {
				return &errdefs.SplitError{
					Address: child.Address,
					Reason:  fmt.Sprintf("address does not extend parent address %q", parent.Address),
				}
			}
			segment = strings.TrimPrefix(child.Address, parent.Address+".")
		}
		if segment == "" || strings.Contains(segment, ".") {
			return &errdefs.SplitError{Address: child.Address, Reason: "address must add exactly one segment to its parent"}
		}

		if previous, ok := last[child.Level]; ok && CompareLabels(previous, segment) >= 0 {
			return &errdefs.SplitError{
				Address: child.Address,
				Reason:  fmt.Sprintf("label %q does not follow %q at level %s", segment, previous, child.Level),
			}
		}
		last[child.Level] = segment

		if err := validateChildren(child, seen); err != nil {
			return err
		}
	}

	return nil
}
