package sparsity

import (
	"github.com/dicksontsai/nlpcore/internal/chk"
)

// entry is one structurally nonzero position, tagged with its storage
// position (index into the source's flat value array) and destination
// position (index into the destination's flat value array).
type entry struct {
	row, col int
	srcPos   int
	dstPos   int
}

// Converter adapts whichever sparsity format a problem reports to whichever
// format a consumer wants. The permutation is computed once by NewConverter;
// ConvertValues applies it on every subsequent call without recomputing it,
// per §4.9 ("the converter computes a permutation vector once; convert_values
// applies it on every call").
type Converter struct {
	src, dst Layout
	entries  []entry
	srcNNZ   int
	dstNNZ   int
	identity bool
}

// NewConverter builds the permutation adapting src to dst. Both layouts must
// describe matrices of the same dimensions; mismatched dimensions are a
// contract violation.
func NewConverter(src, dst Layout) *Converter {
	sr, sc := src.Dims()
	dr, dc := dst.Dims()
	chk.PanicIf(sr != dr || sc != dc, "sparsity.NewConverter: dimension mismatch src=(%d,%d) dst=(%d,%d)", sr, sc, dr, dc)

	c := &Converter{src: src, dst: dst}
	c.srcNNZ = src.NNZ()
	c.dstNNZ = dst.NNZ()

	if sameLayout(src, dst) {
		c.identity = true
		return c
	}

	triples := canonicalTriples(src)
	c.entries = assignDestPositions(triples, src.GetSymmetry(), dst)
	return c
}

// sameLayout reports whether src and dst are structurally identical (same
// variant, same symmetry, same order, same first_index), in which case
// conversion is a no-op, per §4.9 ("when source and destination coincide,
// the call is a no-op").
func sameLayout(a, b Layout) bool {
	switch {
	case a.Dense != nil && b.Dense != nil:
		return *a.Dense == *b.Dense
	case a.CSC != nil && b.CSC != nil:
		if a.CSC.Rows != b.CSC.Rows || a.CSC.Cols != b.CSC.Cols || a.CSC.Symmetry != b.CSC.Symmetry || a.CSC.Order != b.CSC.Order {
			return false
		}
		return intsEqual(a.CSC.InnerIdx, b.CSC.InnerIdx) && intsEqual(a.CSC.OuterPtr, b.CSC.OuterPtr)
	case a.COO != nil && b.COO != nil:
		if a.COO.Rows != b.COO.Rows || a.COO.Cols != b.COO.Cols || a.COO.Symmetry != b.COO.Symmetry ||
			a.COO.Order != b.COO.Order || a.COO.FirstIndex != b.COO.FirstIndex {
			return false
		}
		return intsEqual(a.COO.RowIdx, b.COO.RowIdx) && intsEqual(a.COO.ColIdx, b.COO.ColIdx)
	default:
		return false
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// canonicalTriples extracts (row, col, srcPos) for every structurally
// nonzero entry of src, in src's native storage order.
func canonicalTriples(src Layout) []entry {
	switch {
	case src.Dense != nil:
		d := src.Dense
		out := make([]entry, 0, d.Rows*d.Cols)
		pos := 0
		if d.ColMajor {
			for j := 0; j < d.Cols; j++ {
				for i := 0; i < d.Rows; i++ {
					if includeDense(d.Symmetry, i, j) {
						out = append(out, entry{row: i, col: j, srcPos: pos})
					}
					pos++
				}
			}
		} else {
			for i := 0; i < d.Rows; i++ {
				for j := 0; j < d.Cols; j++ {
					if includeDense(d.Symmetry, i, j) {
						out = append(out, entry{row: i, col: j, srcPos: pos})
					}
					pos++
				}
			}
		}
		return out
	case src.CSC != nil:
		s := src.CSC
		out := make([]entry, 0, len(s.InnerIdx))
		for j := 0; j < s.Cols; j++ {
			for p := s.OuterPtr[j]; p < s.OuterPtr[j+1]; p++ {
				out = append(out, entry{row: s.InnerIdx[p], col: j, srcPos: p})
			}
		}
		return out
	case src.COO != nil:
		s := src.COO
		out := make([]entry, len(s.RowIdx))
		for p := range s.RowIdx {
			out[p] = entry{row: s.RowIdx[p] - s.FirstIndex, col: s.ColIdx[p] - s.FirstIndex, srcPos: p}
		}
		return out
	default:
		panic("sparsity.canonicalTriples: no variant set")
	}
}

// includeDense reports whether (i,j) is part of the stored half of a dense
// matrix with the given symmetry (a fully unsymmetric dense matrix stores
// all of (i,j); a symmetric one stores only the indicated triangle).
func includeDense(sym Symmetry, i, j int) bool {
	switch sym {
	case Upper:
		return i <= j
	case Lower:
		return i >= j
	default:
		return true
	}
}

// assignDestPositions maps each src triple onto its position in dst's flat
// value array. When dst is symmetric and src supplied the full matrix
// (Unsymmetric), only the half matching dst's symmetry is kept — a
// symmetric destination has no room for the redundant half. When dst is
// Unsymmetric and src was symmetric, every off-diagonal src entry expands
// into two dst entries (mirrored across the diagonal), which is how
// "symmetric forms expand into full dense" (§4.9) is realized in general,
// not just for the dense case.
func assignDestPositions(triples []entry, srcSym Symmetry, dst Layout) []entry {
	dstSym := dst.GetSymmetry()
	out := make([]entry, 0, len(triples)*2)
	for _, t := range triples {
		mirrored := t.row != t.col
		switch dstSym {
		case Upper:
			if t.row <= t.col {
				out = append(out, withDstPos(t, dst))
			} else if mirrored && srcSym != Unsymmetric {
				m := entry{row: t.col, col: t.row, srcPos: t.srcPos}
				out = append(out, withDstPos(m, dst))
			}
		case Lower:
			if t.row >= t.col {
				out = append(out, withDstPos(t, dst))
			} else if mirrored && srcSym != Unsymmetric {
				m := entry{row: t.col, col: t.row, srcPos: t.srcPos}
				out = append(out, withDstPos(m, dst))
			}
		default: // Unsymmetric dst
			out = append(out, withDstPos(t, dst))
			// Only mirror across the diagonal when src itself stored only
			// one triangle ("symmetric forms expand into full dense",
			// §4.9); if src was already Unsymmetric, canonicalTriples
			// already emitted both (i,j) and (j,i) as distinct triples, so
			// mirroring here again would duplicate every off-diagonal entry.
			if mirrored && srcSym != Unsymmetric {
				m := entry{row: t.col, col: t.row, srcPos: t.srcPos}
				out = append(out, withDstPos(m, dst))
			}
		}
	}
	return out
}

// withDstPos resolves the flat destination position for entry e (whose
// srcPos is already set) against layout dst.
func withDstPos(e entry, dst Layout) entry {
	switch {
	case dst.Dense != nil:
		d := dst.Dense
		if d.ColMajor {
			e.dstPos = e.col*d.Rows + e.row
		} else {
			e.dstPos = e.row*d.Cols + e.col
		}
	case dst.CSC != nil:
		s := dst.CSC
		found := -1
		for p := s.OuterPtr[e.col]; p < s.OuterPtr[e.col+1]; p++ {
			if s.InnerIdx[p] == e.row {
				found = p
				break
			}
		}
		chk.PanicIf(found < 0, "sparsity.Converter: (%d,%d) not present in destination CSC pattern", e.row, e.col)
		e.dstPos = found
	case dst.COO != nil:
		s := dst.COO
		found := -1
		for p := range s.RowIdx {
			if s.RowIdx[p]-s.FirstIndex == e.row && s.ColIdx[p]-s.FirstIndex == e.col {
				found = p
				break
			}
		}
		chk.PanicIf(found < 0, "sparsity.Converter: (%d,%d) not present in destination COO pattern", e.row, e.col)
		e.dstPos = found
	default:
		panic("sparsity.withDstPos: no variant set")
	}
	return e
}

// ConvertValues writes the values of src (length matching src's NNZ) into
// dst (length matching dst's NNZ), applying the permutation computed by
// NewConverter.
func (c *Converter) ConvertValues(src, dst []float64) {
	if c.identity {
		copy(dst, src)
		return
	}
	for _, e := range c.entries {
		dst[e.dstPos] = src[e.srcPos]
	}
}

