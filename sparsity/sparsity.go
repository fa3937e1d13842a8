// Package sparsity describes the dense/CSC/COO matrix layouts that
// eval_jac_g / eval_hess_L may report (§4.9) and provides a Converter that
// adapts whichever layout a problem reports to whichever layout a consumer
// (a direction provider, typically) needs.
package sparsity

// Symmetry describes which half of a square matrix is stored.
type Symmetry int

const (
	Unsymmetric Symmetry = iota
	Upper
	Lower
)

// Order describes the sort order of a sparse layout's index arrays.
type Order int

const (
	Unsorted Order = iota
	SortedRows
	SortedByCols
	SortedByRows
	SortedByColsAndRows
	SortedByRowsAndCols
)

// Dense describes a row-major or column-major dense matrix.
type Dense struct {
	Rows, Cols int
	Symmetry   Symmetry
	// ColMajor selects column-major storage; row-major if false.
	ColMajor bool
}

// NNZ returns the number of stored values for a dense layout (all of them).
func (d Dense) NNZ() int { return d.Rows * d.Cols }

// CSC describes a compressed-sparse-column layout: inner row indices plus
// outer column pointers.
type CSC struct {
	Rows, Cols int
	Symmetry   Symmetry
	InnerIdx   []int // row index of each stored value, length nnz
	OuterPtr   []int // column i's values are InnerIdx[OuterPtr[i]:OuterPtr[i+1]], length Cols+1
	Order      Order // Unsorted or SortedRows
}

// NNZ returns the number of stored (nonzero) values.
func (c CSC) NNZ() int { return len(c.InnerIdx) }

// COO describes a sparse coordinate layout: parallel row/column index
// vectors plus values.
type COO struct {
	Rows, Cols int
	Symmetry   Symmetry
	RowIdx     []int
	ColIdx     []int
	Order      Order
	FirstIndex int // 0 for C-style, 1 for Fortran-style
}

// NNZ returns the number of stored values.
func (c COO) NNZ() int { return len(c.RowIdx) }

// Layout is a tagged union over the three supported sparsity descriptors,
// the Go rendition of alpaqa's sparsity::Sparsity variant.
type Layout struct {
	Dense *Dense
	CSC   *CSC
	COO   *COO
}

// IsDense reports whether the layout is dense.
func (l Layout) IsDense() bool { return l.Dense != nil }

// NNZ returns the number of stored values for whichever variant is set.
func (l Layout) NNZ() int {
	switch {
	case l.Dense != nil:
		return l.Dense.NNZ()
	case l.CSC != nil:
		return l.CSC.NNZ()
	case l.COO != nil:
		return l.COO.NNZ()
	default:
		panic("sparsity.Layout: no variant set")
	}
}

// GetSymmetry returns the symmetry flag of whichever variant is set.
func (l Layout) GetSymmetry() Symmetry {
	switch {
	case l.Dense != nil:
		return l.Dense.Symmetry
	case l.CSC != nil:
		return l.CSC.Symmetry
	case l.COO != nil:
		return l.COO.Symmetry
	default:
		panic("sparsity.Layout: no variant set")
	}
}

// Dims returns (rows, cols) for whichever variant is set.
func (l Layout) Dims() (rows, cols int) {
	switch {
	case l.Dense != nil:
		return l.Dense.Rows, l.Dense.Cols
	case l.CSC != nil:
		return l.CSC.Rows, l.CSC.Cols
	case l.COO != nil:
		return l.COO.Rows, l.COO.Cols
	default:
		panic("sparsity.Layout: no variant set")
	}
}
