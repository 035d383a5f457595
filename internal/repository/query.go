package repository

import (
	"strings" // Case folding for contains

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // SQL clause builders
)

// likeEscaper escapes LIKE wildcards with '!'
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Op is a comparison applied by a Filter.
type Op string

// Supported filter operations
const (
	OpExact    Op = "exact"    // Equality
	OpContains Op = "contains" // Case-insensitive substring
	OpLT       Op = "lt"       // Less than
	OpGT       Op = "gt"       // Greater than
	OpLTE      Op = "lte"      // Less than or equal
	OpGTE      Op = "gte"      // Greater than or equal
)

// Default and maximum page sizes
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter restricts a list to rows where Column Op Value holds.
// Column must come from an allow-list, never from raw user input.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Order sorts a list by Column.
type Order struct {
	Column string
	Desc   bool
}

// ListOptions describes filtering, ordering and pagination of a list.
type ListOptions struct {
	Filters  []Filter
	Order    []Order
	Page     int // 1-based
	PageSize int
}

// Normalize clamps page and page size into their valid ranges.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 || o.PageSize > MaxPageSize {
		o.PageSize = DefaultPageSize
	}
	return o
}

// where applies the filters to q
func (o ListOptions) where(q *gorm.DB) *gorm.DB {
	for _, f := range o.Filters {
		col := clause.Column{Name: f.Column}
		switch f.Op {
		case OpContains:
			s, _ := f.Value.(string)
			q = q.Where(clause.Expr{SQL: "LOWER(?) LIKE ? ESCAPE '!'", Vars: []any{col, "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"}})
		case OpLT:
			q = q.Where(clause.Lt{Column: col, Value: f.Value})
		case OpGT:
			q = q.Where(clause.Gt{Column: col, Value: f.Value})
		case OpLTE:
			q = q.Where(clause.Lte{Column: col, Value: f.Value})
		case OpGTE:
			q = q.Where(clause.Gte{Column: col, Value: f.Value})
		default:
			q = q.Where(clause.Eq{Column: col, Value: f.Value})
		}
	}
	return q
}

// page applies ordering, offset and limit to q. Rows are ordered by id when
// no ordering is requested, and id always breaks ties.
func (o ListOptions) page(q *gorm.DB) *gorm.DB {
	o = o.Normalize()
	for _, ord := range o.Order {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: ord.Column}, Desc: ord.Desc})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	return q.Offset((o.Page - 1) * o.PageSize).Limit(o.PageSize)
}

// list counts and fetches one page of model rows into dest
func list[T any](q *gorm.DB, opts ListOptions) ([]T, int64, error) {
	var total int64
	q = opts.where(q.Model(new(T)))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []T{}
	if err := opts.page(q).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
