package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/securematch/internal/client/models"
)

// ProgressLine formats one progress entry as it is streamed.
func (p *Printer) ProgressLine(e models.ProgressEntry) {
	line := fmt.Sprintf("  %s %-9s %s", p.Dim(e.At.Format("15:04:05.000")), e.Stage, e.Message)
	if e.Stage == models.StageError {
		p.Error("%s", strings.TrimSpace(line))
		return
	}
	p.Print("%s", line)
}

// Progress prints a whole log.
func (p *Printer) Progress(invocation string, entries []models.ProgressEntry) {
	if len(entries) == 0 {
		p.Info("No search has been run yet.")
		return
	}
	p.Header("Invocation " + invocation)
	for _, e := range entries {
		p.ProgressLine(e)
	}
}

// Result renders a search outcome. External results never list records.
func (p *Printer) Result(v models.SearchResultView) error {
	label := models.MatchLabel(v)
	p.Header("Result (" + v.Role().Protocol() + ")")

	t := NewTable(p.out, []string{"metric", "value"})
	t.AddRow("match exists", p.Badge(label, v.MatchExists()))
	t.AddRow("total matches", fmt.Sprint(v.Matches()))
	t.AddRow("execution time", fmt.Sprintf("%d ms", v.ExecutionTimeMs()))

	switch r := v.(type) {
	case *models.ExternalResult:
		t.AddRow("truncated", yesNo(r.Truncated))
		t.AddRow("key version", fmt.Sprint(r.KeyVersionUsed))
		t.AddRow("searches last hour", fmt.Sprint(r.SearchesLastHour))
		return t.Render()
	case *models.InternalResult:
		t.AddRow("returned", fmt.Sprint(r.ReturnedCount))
		t.AddRow("truncated", yesNo(r.Truncated))
		if err := t.Render(); err != nil {
			return err
		}
		return p.records(r.Records)
	default:
		return t.Render()
	}
}

func (p *Printer) records(rs []models.Record) error {
	if len(rs) == 0 {
		return nil
	}
	cols := recordColumns(rs)
	p.Header("Records")
	t := NewTable(p.out, cols)
	for _, r := range rs {
		row := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := r[c]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		t.AddRow(row...)
	}
	return t.Render()
}

// recordColumns puts searchable fields first, then the rest alphabetically.
func recordColumns(rs []models.Record) []string {
	seen := map[string]bool{}
	var cols []string
	for _, f := range models.SearchableFields {
		for _, r := range rs {
			if _, ok := r[string(f)]; ok {
				cols = append(cols, string(f))
				seen[string(f)] = true
				break
			}
		}
	}
	var rest []string
	for _, r := range rs {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

// Auditors lists auditor records; active marks the current session.
func (p *Printer) Auditors(list []models.AuditorRecord, active string) error {
	if len(list) == 0 {
		p.Info("No auditors registered.")
		return nil
	}
	t := NewTable(p.out, []string{"id", "name", "key version", ""})
	for _, a := range list {
		mark := ""
		if a.ID == active {
			mark = "*"
		}
		t.AddRow(a.ID, a.Name, fmt.Sprint(a.ActiveKeyVersion), mark)
	}
	return t.Render()
}

// Dashboard prints the metrics page for role.
func (p *Printer) Dashboard(d *models.Dashboard, role models.Role) error {
	p.Header("System metrics")
	p.Print("role: %s  protocol: %s", role, role.Protocol())

	if len(d.System) == 0 {
		p.Info("No metrics available.")
	} else {
		t := NewTable(p.out, []string{"metric", "value"})
		for _, k := range d.System.Keys() {
			t.AddRow(k, fmt.Sprint(d.System[k]))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	if role.Can(models.CapMetricsFull) {
		p.Header("Auditors")
		return p.Auditors(d.Auditors, "")
	}
	return nil
}

// Capabilities prints what the role may do.
func (p *Printer) Capabilities(role models.Role) {
	caps := role.Capabilities()
	if len(caps) == 0 {
		p.Print("role %s: no operations available", role)
		return
	}
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	p.Print("role %s: %s", role, strings.Join(names, ", "))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
