package router

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// PrintRoutes writes the table in match order, one block per path.
func (t *Table) PrintRoutes(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	for _, record := range t.Records() {
		name := record.name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s (%s)\n", record.path, name)

		if record.matchAs != "" {
			fmt.Fprintf(w, "  Alias of: %s\n", record.matchAs)
		}
		if record.redirect != nil {
			fmt.Fprintf(w, "  Redirect: %s\n", describeRedirect(record.redirect))
		}
		if views := record.viewNames(); len(views) > 0 {
			fmt.Fprintf(w, "  Views: %s\n", strings.Join(views, ", "))
		}
		if record.beforeEnter != nil {
			fmt.Fprintf(w, "  BeforeEnter: %s\n", funcName(record.beforeEnter))
		}
		if len(record.meta) > 0 {
			fmt.Fprintf(w, "  Meta: %v\n", record.meta)
		}
		if chain := formatMatch(record); len(chain) > 1 {
			for i, r := range chain {
				fmt.Fprintf(w, "  %02d: %s\n", i, r.path)
			}
		}
		fmt.Fprintln(w)
	}
}

func (r *RouteRecord) viewNames() []string {
	views := make([]string, 0, len(r.components))
	for view, component := range r.components {
		if component == nil {
			continue
		}
		views = append(views, view)
	}
	sort.Strings(views)
	return views
}

func describeRedirect(redirect any) string {
	switch v := redirect.(type) {
	case string:
		return v
	case Path:
		return string(v)
	case Location:
		return describeLocation(v)
	case *Location:
		if v == nil {
			return "<nil>"
		}
		return describeLocation(*v)
	default:
		return funcName(v)
	}
}

func describeLocation(loc Location) string {
	if loc.Name != "" {
		return "name:" + loc.Name
	}
	return loc.Path
}
