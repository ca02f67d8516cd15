package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/report"
)

var numberColumns = []table.ColumnConfig{
	{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
}

func renderWeek(out io.Writer, w report.Week) {
	fmt.Fprintf(out, "Week %d (%s - %s)\n", w.CalendarWeek(), w.FirstDate(), w.LastDate())

	t := newTable(out)
	t.AppendHeader(table.Row{"Day", "Planned", "Should", "Worked", "Delta", "Locked"})
	for _, d := range w.Days() {
		t.AppendRow(table.Row{
			d.Date().Time().Format("Mon 2006-01-02"),
			hm(d.PlannedWorkingHours().Duration()),
			hm(d.ShouldWorkingHours().Duration()),
			hm(d.WorkDuration().Duration()),
			hm(d.Delta().Duration()),
			lockMark(d.Locked()),
		})
	}
	t.AppendFooter(table.Row{
		"Total",
		hm(w.PlannedWorkingHours().Duration()),
		hm(w.ShouldWorkingHours().Duration()),
		hm(w.WorkDuration().Duration()),
		hm(w.Delta().Duration()),
		w.WorkedHoursRatio().StringFixed(2),
	})
	t.Render()

	renderPersons(out, w.Days(), personTotals{
		planned:     w.PlannedWorkingHoursByPerson(),
		should:      w.ShouldWorkingHoursByPerson(),
		worked:      w.WorkDurationByPerson(),
		delta:       w.DeltaByPerson(),
		accumulated: w.AccumulatedOvertimeAtEnd(),
	})
}

func renderMonth(out io.Writer, m report.Month) {
	fmt.Fprintf(out, "%s %d\n", m.Month(), m.Year())

	t := newTable(out)
	t.AppendHeader(table.Row{"Week", "Planned", "Should", "Worked", "Delta", "Ratio"})
	var monthDays []report.Day
	for _, w := range m.WeeksInMonth() {
		monthDays = append(monthDays, w.Days()...)
		t.AppendRow(table.Row{
			fmt.Sprintf("CW %02d", w.CalendarWeek()),
			hm(w.PlannedWorkingHours().Duration()),
			hm(w.ShouldWorkingHours().Duration()),
			hm(w.WorkDuration().Duration()),
			hm(w.Delta().Duration()),
			w.WorkedHoursRatio().StringFixed(2),
		})
	}
	t.AppendFooter(table.Row{
		"Total",
		hm(m.PlannedWorkingHours().Duration()),
		hm(m.ShouldWorkingHours().Duration()),
		hm(m.WorkDuration().Duration()),
		hm(m.Delta().Duration()),
		m.WorkedHoursRatio().StringFixed(2),
	})
	t.Render()

	renderPersons(out, monthDays, personTotals{
		planned:     m.PlannedWorkingHoursByPerson(),
		should:      m.ShouldWorkingHoursByPerson(),
		worked:      m.WorkDurationByPerson(),
		delta:       m.DeltaByPerson(),
		accumulated: m.AccumulatedOvertimeAtEnd(),
	})
}

type personTotals struct {
	planned     map[core.PersonID]core.PlannedWorkingHours
	should      map[core.PersonID]core.ShouldWorkingHours
	worked      map[core.PersonID]core.WorkDuration
	delta       map[core.PersonID]report.DeltaWorkingHours
	accumulated map[core.PersonID]report.DeltaWorkingHours
}

func renderPersons(out io.Writer, reportDays []report.Day, totals personTotals) {
	names := map[core.PersonID]string{}
	for _, d := range reportDays {
		for _, id := range d.Persons() {
			if pd, ok := d.Person(id); ok && pd.Person.Name != "" {
				names[id] = pd.Person.Name
			}
		}
	}

	ids := make([]core.PersonID, 0, len(totals.planned))
	for id := range totals.planned {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	t := newTable(out)
	t.AppendHeader(table.Row{"Person", "Planned", "Should", "Worked", "Delta", "Overtime"})
	for _, id := range ids {
		name := names[id]
		if name == "" {
			name = string(id)
		}
		t.AppendRow(table.Row{
			name,
			hm(totals.planned[id].Duration()),
			hm(totals.should[id].Duration()),
			hm(totals.worked[id].Duration()),
			hm(totals.delta[id].Duration()),
			hm(totals.accumulated[id].Duration()),
		})
	}
	t.Render()
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs(numberColumns)
	return t
}

// hm formats a duration as H:MM, negative values with a leading minus.
func hm(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	minutes := int(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}

func lockMark(locked bool) string {
	if locked {
		return "yes"
	}
	return ""
}
