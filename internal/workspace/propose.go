package workspace

import (
	"context"

	"github.com/averycrespi/tabserver/internal/patch"
	"github.com/averycrespi/tabserver/pkg/types"
)

// ProposeEdit applies edit to a snapshot of the tab's text and presents
// the result as a diff. The tab's buffer and file are left unchanged.
// Range errors are returned as *patch.RangeError.
func ProposeEdit(ctx context.Context, backend types.Backend, label string, edit types.EditRequest, enc patch.Encoding) (types.Proposal, types.Document, error) {
	doc, err := backend.ResolveDocument(ctx, label)
	if err != nil {
		return types.Proposal{}, types.Document{}, err
	}

	proposed, err := patch.ApplyEditWithEncoding(doc.Text, edit, enc)
	if err != nil {
		return types.Proposal{}, doc, err
	}

	proposal, err := backend.PresentDiff(ctx, label, doc.Text, proposed)
	if err != nil {
		return types.Proposal{}, doc, err
	}
	return proposal, doc, nil
}
