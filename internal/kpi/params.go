package kpi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"quality-insights-go/internal/schema"
	"quality-insights-go/internal/types"
)

// Window is an inclusive month range on YYYY-MM keys; empty bounds are
// open ends.
type Window struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func SingleMonth(m string) Window { return Window{From: m, To: m} }

// Params is the uniform argument set shared by every KPI function: a month
// window, grouping dimensions and exact-match filters. Unknown dimension
// names are configuration errors and fail loudly; a known dimension that a
// record type simply does not carry is dropped from grouping silently.
type Params struct {
	Window  Window              `json:"window"`
	GroupBy []string            `json:"group_by,omitempty"`
	Filters map[string][]string `json:"filters,omitempty"`
}

var knownDims = map[string]bool{
	types.DimMonth:         true,
	types.DimPortfolio:     true,
	types.DimProcess:       true,
	types.DimLocation:      true,
	types.DimScheme:        true,
	types.DimTeam:          true,
	types.DimShoreType:     true,
	types.DimWorkType:      true,
	types.DimReceiptMethod: true,
	types.DimRCA1:          true,
}

func (p Params) Validate() error {
	for _, d := range p.GroupBy {
		if !knownDims[d] {
			return fmt.Errorf("unknown grouping dimension %q", d)
		}
	}
	for d := range p.Filters {
		if !knownDims[d] {
			return fmt.Errorf("unknown filter dimension %q", d)
		}
	}
	return nil
}

// filterRecords applies the month window, then the dimension filters
// (exact, case-sensitive). Filters on dimensions the record type does not
// carry are no-ops.
func filterRecords[T types.Dimensioned](recs []T, p Params) []T {
	return lo.Filter(recs, func(r T, _ int) bool {
		if !schema.InWindow(r.MonthKey(), p.Window.From, p.Window.To) {
			return false
		}
		for dim, allowed := range p.Filters {
			v, ok := r.Dimension(dim)
			if !ok {
				continue
			}
			if !lo.Contains(allowed, v) {
				return false
			}
		}
		return true
	})
}

// presentDims keeps the requested grouping dimensions the record type
// actually carries, in request order.
func presentDims[T types.Dimensioned](groupBy []string) []string {
	var zero T
	return lo.Filter(groupBy, func(d string, _ int) bool {
		_, ok := zero.Dimension(d)
		return ok
	})
}

const groupKeySep = "\x1f"

func groupKeyOf[T types.Dimensioned](r T, dims []string) string {
	vals := make([]string, len(dims))
	for i, d := range dims {
		vals[i], _ = r.Dimension(d)
	}
	return strings.Join(vals, groupKeySep)
}

func groupFromKey(key string, dims []string) map[string]string {
	group := make(map[string]string, len(dims))
	if len(dims) == 0 {
		return group
	}
	vals := strings.Split(key, groupKeySep)
	for i, d := range dims {
		if i < len(vals) {
			group[d] = vals[i]
		}
	}
	return group
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
