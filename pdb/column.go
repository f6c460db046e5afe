package pdb

import (
	"strings"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// Column is a row of the columns table, naming a browse category.
//
//	0x00  2  id
//	0x02  2  number
//	0x04     name, always a wide string bracketed by U+FFFA and U+FFFB
type Column struct {
	ID     uint16
	Number uint16
	Name   string
}

const (
	columnOpen  = "\uFFFA"
	columnClose = "\uFFFB"
)

// NewColumn returns a column whose stored name is label in brackets.
func NewColumn(id, number uint16, label string) *Column {
	return &Column{ID: id, Number: number, Name: columnOpen + label + columnClose}
}

// Label returns the name without its bracket characters.
func (c *Column) Label() string {
	return strings.TrimSuffix(strings.TrimPrefix(c.Name, columnOpen), columnClose)
}

func (*Column) Table() TableType { return TableColumns }

func decodeColumn(row []byte) (Row, error) {
	r := newRowReader(row)
	c := &Column{ID: r.U16LE(0), Number: r.U16LE(2)}
	c.Name = r.str(4)
	return c, r.Err()
}

func (c *Column) encode(a *buf.Arena, _ int) error {
	a.Grow(4)
	a.PutU16LE(0, c.ID)
	a.PutU16LE(2, c.Number)
	_, err := putString(a, c.Name)
	return err
}
