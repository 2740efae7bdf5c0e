// Package catalog is the minimal, in-memory stand-in for the surrounding
// database's catalog: enough to let the optimizer rule and the executor
// look up tables and the vector indexes built on them. Durable catalog
// storage is out of scope here — this is the fixed contract the
// optimizer/executor boundary needs, not a DDL subsystem.
package catalog

import (
	"github.com/google/uuid"

	"github.com/lmika/vectorbase/core"
	"github.com/lmika/vectorbase/index"
)

// TableOID identifies a table.
type TableOID = uuid.UUID

// IndexOID identifies an index.
type IndexOID = uuid.UUID

// TableInfo describes a table this subsystem knows about.
type TableInfo struct {
	OID  TableOID
	Name string
}

// IndexInfo describes a vector index registered on a table column.
type IndexInfo struct {
	OID       IndexOID
	Name      string
	TableOID  TableOID
	Column    string
	IndexType index.Type
	Metric    core.Metric
	Index     index.VectorIndex
}

// Catalog resolves tables and vector indexes by OID, and lists the
// indexes on a table by table OID — the lookups the optimizer rule and
// executor need.
type Catalog struct {
	tables  map[TableOID]TableInfo
	indexes map[IndexOID]IndexInfo
	byTable map[TableOID][]IndexOID
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		tables:  make(map[TableOID]TableInfo),
		indexes: make(map[IndexOID]IndexInfo),
		byTable: make(map[TableOID][]IndexOID),
	}
}

// CreateTable registers a table and returns its OID.
func (c *Catalog) CreateTable(name string) TableOID {
	oid := uuid.New()
	c.tables[oid] = TableInfo{OID: oid, Name: name}
	return oid
}

// GetTable resolves a table by OID.
func (c *Catalog) GetTable(oid TableOID) (TableInfo, bool) {
	t, ok := c.tables[oid]
	return t, ok
}

// CreateIndex registers a vector index on a table column and returns its
// OID. The host table must already exist.
func (c *Catalog) CreateIndex(name string, tableOID TableOID, column string, indexType index.Type, metric core.Metric, idx index.VectorIndex) (IndexOID, error) {
	if _, ok := c.tables[tableOID]; !ok {
		return IndexOID{}, core.ErrIndexNotFound
	}
	oid := uuid.New()
	info := IndexInfo{
		OID:       oid,
		Name:      name,
		TableOID:  tableOID,
		Column:    column,
		IndexType: indexType,
		Metric:    metric,
		Index:     idx,
	}
	c.indexes[oid] = info
	c.byTable[tableOID] = append(c.byTable[tableOID], oid)
	return oid, nil
}

// GetIndex resolves an index by OID.
func (c *Catalog) GetIndex(oid IndexOID) (IndexInfo, bool) {
	i, ok := c.indexes[oid]
	return i, ok
}

// IndexesOnTable returns every vector index registered on tableOID, in
// the order they were created — the "catalog order" the optimizer's
// "default" tie-break relies on.
func (c *Catalog) IndexesOnTable(tableOID TableOID) []IndexInfo {
	oids := c.byTable[tableOID]
	out := make([]IndexInfo, 0, len(oids))
	for _, oid := range oids {
		out = append(out, c.indexes[oid])
	}
	return out
}
