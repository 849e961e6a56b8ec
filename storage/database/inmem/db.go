// Package inmemdb is a process-local store used in development and tests.
// Rows are copied in and out so callers never share memory with the store.
package inmemdb

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
)

type (
	DB struct {
		organization *organizationTable
		learningPath *learningPathTable
		assessment   *assessmentTable
		user         *userTable
	}

	organizationTable struct {
		sync.RWMutex
		table map[string]*organization.Organization
	}

	learningPathTable struct {
		sync.RWMutex
		table map[string]*learningpath.LearningPath
	}

	assessmentTable struct {
		sync.RWMutex
		table map[string]*assessment.Assessment
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
)

func Open() *DB {
	return &DB{
		organization: &organizationTable{table: make(map[string]*organization.Organization)},
		learningPath: &learningPathTable{table: make(map[string]*learningpath.LearningPath)},
		assessment:   &assessmentTable{table: make(map[string]*assessment.Assessment)},
		user:         &userTable{table: make(map[string]*user.User)},
	}
}

// Flush empties every table.
func (db *DB) Flush() {
	db.organization.Lock()
	db.organization.table = make(map[string]*organization.Organization)
	db.organization.Unlock()

	db.learningPath.Lock()
	db.learningPath.table = make(map[string]*learningpath.LearningPath)
	db.learningPath.Unlock()

	db.assessment.Lock()
	db.assessment.table = make(map[string]*assessment.Assessment)
	db.assessment.Unlock()

	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()
}

// fieldValue returns the value of an ordering field of the i-th row, or false if the field is unknown.
type fieldValue func(i int, field string) (interface{}, bool)

// orderRows sorts `rows` (a slice) by `ordering`, falling back to `defaults` when ordering is empty.
func orderRows(rows interface{}, ordering, defaults []core.DBOrdering, value fieldValue) {
	if len(ordering) == 0 {
		ordering = defaults
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range ordering {
			vi, ok := value(i, ord.Field)
			if !ok {
				continue
			}
			vj, _ := value(j, ord.Field)
			cmp := compare(vi, vj)
			if cmp == 0 {
				continue
			}
			if ord.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	switch va := a.(type) {
	case string:
		vb := b.(string)
		return strings.Compare(strings.ToLower(va), strings.ToLower(vb))
	case int:
		vb := b.(int)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
	case time.Time:
		vb := b.(time.Time)
		switch {
		case va.Before(vb):
			return -1
		case va.After(vb):
			return 1
		}
	}
	return 0
}

// matches does a case-insensitive substring match of `search` against any of `values`.
func matches(search string, values ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	return false
}

func copyStrings(ss []string) []string {
	cp := make([]string, len(ss))
	copy(cp, ss)
	return cp
}
