package store

import (
	"fmt"

	"github.com/aretw0/lattice/internal/tree"
	"github.com/aretw0/lattice/pkg/domain"
)

// Expand shows the children of key, and of every descendant when recursive.
func (s *Store) Expand(key domain.RowKey, recursive bool) error {
	return s.setExpanded(key, true, recursive)
}

// Collapse hides the children of key, and collapses descendants when recursive.
func (s *Store) Collapse(key domain.RowKey, recursive bool) error {
	return s.setExpanded(key, false, recursive)
}

func (s *Store) setExpanded(key domain.RowKey, expanded, recursive bool) error {
	row, ok := s.FindRow(key)
	if !ok || row.Tree() == nil {
		return fmt.Errorf("row %d: %w", key, domain.ErrRowNotFound)
	}

	// One view derivation for the whole subtree, not one per hidden flag.
	s.ctx.Batch(func() {
		row.Tree().SetExpanded(expanded)
		if recursive {
			for _, d := range tree.Descendants(row) {
				if t := d.Tree(); t != nil && !d.Leaf() {
					t.SetExpanded(expanded)
				}
			}
		}
		tree.RefreshHidden(row)
	})
	s.afterStructureChange()

	s.logger.Debug("tree toggled", "row", key, "expanded", expanded, "recursive", recursive)
	return nil
}

// AppendTreeRow materializes in under parent (a root row when parent is
// absent) at offset among its siblings; a nil offset appends. It returns the
// new rows in document order. Explicit keys already in use, or repeated
// within in, fail with domain.ErrDuplicateRowKey and nothing is added.
func (s *Store) AppendTreeRow(in domain.InputRow, parent domain.NullRowKey, offset *int) ([]*domain.Row, error) {
	var parentRow *domain.Row
	if parent.Valid {
		p, ok := s.FindRow(parent.Key)
		if !ok {
			return nil, fmt.Errorf("parent %d: %w", parent.Key, domain.ErrRowNotFound)
		}
		parentRow = p
	}

	opts := s.materializeOptions()
	var explicit []domain.RowKey
	if s.Hierarchical() {
		explicit = tree.ExplicitKeys([]domain.InputRow{in}, opts)
	} else if k, ok := tree.ExplicitKey(in, opts); ok {
		explicit = []domain.RowKey{k}
	}
	seen := tree.KeySet{}
	for _, k := range explicit {
		if _, taken := s.rows[k]; taken || seen.Has(k) {
			return nil, fmt.Errorf("row %d: %w", k, domain.ErrDuplicateRowKey)
		}
		seen.Add(k)
	}

	var added []*domain.Row
	switch {
	case parentRow != nil && s.Hierarchical():
		opts.Offset = offset
		added = s.materializer.Flatten([]domain.InputRow{in}, parentRow, opts)
	case s.Hierarchical():
		added = s.materializer.Flatten([]domain.InputRow{in}, nil, opts)
	default:
		if parentRow != nil {
			return nil, fmt.Errorf("parent %d in a flat grid: %w", parent.Key, domain.ErrRowNotFound)
		}
		added = s.materializer.CreateRows([]domain.InputRow{in}, opts)
	}

	for _, r := range added {
		s.rows[r.Key] = r
	}

	raw := s.Data.rawData.Peek()
	at := s.insertionIndex(raw, added[0], parentRow, offset)
	next := make([]*domain.Row, 0, len(raw)+len(added))
	next = append(next, raw[:at]...)
	next = append(next, added...)
	next = append(next, raw[at:]...)

	s.Selection.InputRange.Set(nil)
	s.Data.setRaw(next)
	s.logger.Debug("rows inserted", "rows", len(added), "at", at)
	return added, nil
}

// RemoveTreeRow removes the row and its whole subtree.
func (s *Store) RemoveTreeRow(key domain.RowKey) error {
	row, ok := s.FindRow(key)
	if !ok {
		return fmt.Errorf("row %d: %w", key, domain.ErrRowNotFound)
	}

	if t := row.Tree(); t != nil && t.ParentRowKey().Valid {
		if parent, ok := s.FindRow(t.ParentRowKey().Key); ok {
			tree.RemoveChild(parent, row)
		} else {
			s.logger.Warn("parent row missing", "row", key, "parent", t.ParentRowKey().Key)
		}
	}

	removed := map[domain.RowKey]struct{}{row.Key: {}}
	for _, d := range tree.Descendants(row) {
		removed[d.Key] = struct{}{}
	}

	raw := s.Data.rawData.Peek()
	next := make([]*domain.Row, 0, len(raw))
	for _, r := range raw {
		if _, gone := removed[r.Key]; gone {
			delete(s.rows, r.Key)
			continue
		}
		next = append(next, r)
	}

	if focused := s.Focus.RowKey.Peek(); focused.Valid {
		if _, gone := removed[focused.Key]; gone {
			s.Focus.Clear()
		}
	}
	s.Selection.InputRange.Set(nil)
	s.Data.setRaw(next)
	s.logger.Debug("rows removed", "row", key, "rows", len(removed))
	return nil
}

// TreeCellInfo derives rendering info for the row under key. Eager grids get
// reactive info the caller must Stop; lazy grids get a snapshot.
func (s *Store) TreeCellInfo(key domain.RowKey) (*tree.CellInfo, error) {
	row, ok := s.FindRow(key)
	if !ok {
		return nil, fmt.Errorf("row %d: %w", key, domain.ErrRowNotFound)
	}
	opts := tree.CellInfoOptions{}
	if s.cfg.Tree != nil {
		opts = tree.CellInfoOptions{
			IndentWidth:    s.cfg.Tree.IndentWidth,
			UseIcon:        s.cfg.Tree.UseIcon,
			LazyObservable: s.cfg.Tree.LazyObservable,
		}
	}
	if _, ok := tree.Depth(s, row); !ok {
		s.logger.Warn("broken ancestor chain", "row", key)
	}
	return tree.CreateTreeCellInfo(s.ctx, s, row, opts), nil
}

// afterStructureChange clears focus and selection that a visibility change
// invalidated. Lazy rows are untracked, so the view is re-derived by hand.
func (s *Store) afterStructureChange() {
	if s.cfg.Tree != nil && s.cfg.Tree.LazyObservable {
		s.Data.setRaw(s.Data.rawData.Peek())
	}
	if focused := s.Focus.RowKey.Peek(); focused.Valid {
		if r, ok := s.FindRow(focused.Key); ok && tree.IsHidden(r) {
			s.Focus.Clear()
		}
	}
	s.Selection.InputRange.Set(nil)
}

// insertionIndex finds where a new subtree goes in the raw rows: before the
// sibling that now follows it, or after the last row of the parent's subtree.
func (s *Store) insertionIndex(raw []*domain.Row, first, parent *domain.Row, offset *int) int {
	if parent == nil {
		var roots []*domain.Row
		for _, r := range raw {
			if tree.IsRoot(r) {
				roots = append(roots, r)
			}
		}
		if offset != nil && *offset >= 0 && *offset < len(roots) {
			return s.Data.RawIndex(roots[*offset].Key)
		}
		return len(raw)
	}

	pos := parent.ChildIndex(first.Key)
	if pos >= 0 && pos+1 < len(parent.Children) {
		if at := s.Data.RawIndex(parent.Children[pos+1].Key); at >= 0 {
			return at
		}
	}

	// No following sibling: after the parent's existing subtree.
	end := s.Data.RawIndex(parent.Key)
	for _, d := range tree.Descendants(parent) {
		if at := s.Data.RawIndex(d.Key); at > end {
			end = at
		}
	}
	return end + 1
}
