package report

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
)

type call struct {
	sql  string
	args []any
}

// fakeWarehouse answers Select with the rows registered for the first table
// name found in the SQL. Unregistered tables fail.
type fakeWarehouse struct {
	mu    sync.Mutex
	rows  map[string]any
	calls []call
}

func newFakeWarehouse() *fakeWarehouse {
	return &fakeWarehouse{rows: map[string]any{}}
}

func (f *fakeWarehouse) on(table string, rows any) *fakeWarehouse {
	f.rows[table] = rows
	return f
}

func (f *fakeWarehouse) Query(context.Context, string, ...any) ([]map[string]any, error) {
	return nil, errors.New("not supported")
}

func (f *fakeWarehouse) Select(ctx context.Context, dest any, sql string, args ...any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{sql: sql, args: args})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	for table, rows := range f.rows {
		if strings.Contains(sql, "."+table+"\n") || strings.Contains(sql, "."+table+" ") || strings.HasSuffix(sql, "."+table) {
			reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(rows))
			return nil
		}
	}
	return errors.New("relation does not exist")
}

func (f *fakeWarehouse) callsTo(table string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if strings.Contains(c.sql, "."+table) {
			out = append(out, c)
		}
	}
	return out
}

var fromClause = regexp.MustCompile(`FROM\s+([\w.]+)`)

// tables returns the distinct qualified tables the recorded queries read from.
func (f *fakeWarehouse) tables() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, c := range f.calls {
		for _, m := range fromClause.FindAllStringSubmatch(c.sql, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				out = append(out, m[1])
			}
		}
	}
	sort.Strings(out)
	return out
}

func (f *fakeWarehouse) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
