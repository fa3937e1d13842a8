package sparsity

import "sort"

// BuildCSC derives a CSC index pattern (InnerIdx/OuterPtr) from any source
// layout, keeping only the triangle indicated by symmetry when it is not
// Unsymmetric. When symmetry is Unsymmetric and src stores only one
// triangle, every off-diagonal entry also appears mirrored across the
// diagonal, so the pattern covers the full matrix. When sortedRows is true, row indices within each column are
// sorted ascending (Order = SortedRows); otherwise the natural iteration
// order of src is kept (Order = Unsorted). The returned CSC has no value
// array of its own — pair it with NewConverter(src, Layout{CSC: &built}) to
// obtain the permutation that fills one in.
func BuildCSC(src Layout, symmetry Symmetry, sortedRows bool) CSC {
	rows, cols := src.Dims()
	triples := canonicalTriples(src)
	srcSym := src.GetSymmetry()

	type rc struct{ row, col int }
	seen := map[rc]bool{}
	var pairs []rc
	for _, t := range triples {
		if !includeDense(symmetry, t.row, t.col) {
			if t.row == t.col || symmetry == Unsymmetric {
				continue
			}
			// mirror into the requested half
			if includeDense(symmetry, t.col, t.row) {
				p := rc{t.col, t.row}
				if !seen[p] {
					seen[p] = true
					pairs = append(pairs, p)
				}
			}
			continue
		}
		p := rc{t.row, t.col}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
		if symmetry == Unsymmetric && srcSym != Unsymmetric && t.row != t.col {
			m := rc{t.col, t.row}
			if !seen[m] {
				seen[m] = true
				pairs = append(pairs, m)
			}
		}
	}

	byCol := make([][]int, cols)
	for _, p := range pairs {
		byCol[p.col] = append(byCol[p.col], p.row)
	}
	if sortedRows {
		for j := range byCol {
			sort.Ints(byCol[j])
		}
	}
	out := CSC{Rows: rows, Cols: cols, Symmetry: symmetry, OuterPtr: make([]int, cols+1)}
	for j := 0; j < cols; j++ {
		out.OuterPtr[j+1] = out.OuterPtr[j] + len(byCol[j])
		out.InnerIdx = append(out.InnerIdx, byCol[j]...)
	}
	if sortedRows {
		out.Order = SortedRows
	} else {
		out.Order = Unsorted
	}
	return out
}

// BuildDense derives a Dense layout of the same shape as src.
func BuildDense(src Layout, symmetry Symmetry, colMajor bool) Dense {
	rows, cols := src.Dims()
	return Dense{Rows: rows, Cols: cols, Symmetry: symmetry, ColMajor: colMajor}
}
