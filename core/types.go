// Package core holds the data model and primitives shared by every vector
// index and by the optimizer/executor: vectors, row handles, distance
// metrics and the errors they can fail with.
package core

// Vector is an ordered sequence of real numbers. Dimension is fixed per
// index and inferred from the first inserted entry.
type Vector []float64

// RID is an opaque, fixed-size handle to a tuple in the table heap. The
// table heap itself is out of scope for this module; RID only needs to be
// comparable so it can key maps and be returned from a scan.
type RID struct {
	PageID  int32
	SlotNum uint32
}

// Metric identifies a supported distance function. All metrics are
// smaller-is-closer.
type Metric string

const (
	L2           Metric = "l2"
	InnerProduct Metric = "inner_product"
	Cosine       Metric = "cosine"
)

// Entry pairs a vector with the RID of the row it was derived from. This is
// the unit of data both index types build and insert.
type Entry struct {
	Vector Vector
	RID    RID
}
