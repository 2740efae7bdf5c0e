package plan

import "github.com/lmika/vectorbase/catalog"

// Direction is an ORDER BY sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// OrderByTerm is one entry of an ORDER BY list.
type OrderByTerm struct {
	Direction Direction
	Expr      Expression
}

// Node is any node in a logical plan tree. The optimizer rule walks trees
// of Node bottom-up, so every node type exposes its children.
type Node interface {
	Children() []Node
	isNode()
}

// TopN is a combined sort+limit node: keep the N smallest rows under
// OrderBy. This is the node shape the rewrite rule looks for at the root
// of a matching subtree.
type TopN struct {
	N       int
	OrderBy []OrderByTerm
	Input   Node
}

func (t *TopN) Children() []Node { return []Node{t.Input} }
func (*TopN) isNode()            {}

// Projection computes a list of output expressions over its input.
type Projection struct {
	Schema []string
	Exprs  []Expression
	Input  Node
}

func (p *Projection) Children() []Node { return []Node{p.Input} }
func (*Projection) isNode()            {}

// SeqScan reads every row of a table in heap order.
type SeqScan struct {
	Schema   []string
	TableOID catalog.TableOID
	Table    string
}

func (s *SeqScan) Children() []Node { return nil }
func (*SeqScan) isNode()            {}

// VectorIndexScan runs a vector index's scan method with a literal query
// vector and limit, producing RID-ordered tuples. It is always a leaf —
// the optimizer synthesizes it in place of a SeqScan.
type VectorIndexScan struct {
	Schema     []string
	TableOID   catalog.TableOID
	Table      string
	IndexOID   catalog.IndexOID
	IndexName  string
	BaseVector ArrayLiteral
	Limit      int
}

func (v *VectorIndexScan) Children() []Node { return nil }
func (*VectorIndexScan) isNode()            {}
