package repository

import (
	"fmt"
	"reflect"
	"sort"

	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

const (
	DEFAULTLIMIT          = 0
	PageDefaultSortBy     = "id"
	PageDefaultSortAscend = "asc"
)

// Query filters a multi-row load. A condition whose value is a slice is
// matched with IN, anything else with equality.
type Query struct {
	IDs        []uint
	Conditions map[string]any
	Limit      int
	Offset     int
	OrderBy    string
	Desc       bool
}

// columns is the set of fields a Query may filter or order on.
type columns map[string]bool

func (q Query) apply(db *gorm.DB, allowed columns) (*gorm.DB, error) {
	if len(q.IDs) > 0 {
		db = db.Where("id IN ?", q.IDs)
	}

	keys := make([]string, 0, len(q.Conditions))
	for k := range q.Conditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !allowed[k] {
			return nil, fmt.Errorf("%w: unknown field %q", errcodes.ErrInvalidCondition, k)
		}
		v := q.Conditions[k]
		if isList(v) {
			db = db.Where(fmt.Sprintf("%s IN ?", k), v)
			continue
		}
		db = db.Where(fmt.Sprintf("%s = ?", k), v)
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = PageDefaultSortBy
	}
	if orderBy != PageDefaultSortBy && !allowed[orderBy] {
		return nil, fmt.Errorf("%w: cannot order by %q", errcodes.ErrInvalidCondition, orderBy)
	}
	direction := PageDefaultSortAscend
	if q.Desc {
		direction = "desc"
	}
	db = db.Order(fmt.Sprintf("%s %s", orderBy, direction))

	if q.Limit > DEFAULTLIMIT {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db, nil
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
