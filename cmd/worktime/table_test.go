package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/report"
)

func TestHM(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{90 * time.Minute, "1:30"},
		{-2*time.Hour - 5*time.Minute, "-2:05"},
		{40 * time.Hour, "40:00"},
		{29*time.Minute + 40*time.Second, "0:30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hm(tt.in), tt.in.String())
	}
}

func TestRenderWeek(t *testing.T) {
	// GIVEN: a week where one person worked 6 of 8 owed hours on Monday
	monday := core.NewDate(2024, time.January, 29)
	alice := core.Person{ID: "p1", Name: "Alice"}
	start := monday.AtTime(9, 0, time.UTC)

	reportDays := []report.Day{report.NewDay(monday, true, map[core.PersonID]report.PersonDay{
		"p1": {
			Person:  alice,
			Planned: core.PlannedWorkingHours(8 * time.Hour),
			Should:  core.ShouldWorkingHours(8 * time.Hour),
			Entries: []report.Entry{{Person: alice, Start: start, End: start.Add(6 * time.Hour)}},
		},
	})}
	for i := 1; i < 7; i++ {
		reportDays = append(reportDays, report.NewDay(monday.AddDays(i), false, nil))
	}

	// WHEN: rendering it
	var out bytes.Buffer
	renderWeek(&out, report.NewWeek(monday, reportDays))

	// THEN: days, totals and the person summary are printed
	s := out.String()
	assert.Contains(t, s, "Week 5 (2024-01-29 - 2024-02-04)")
	assert.Contains(t, s, "Mon 2024-01-29")
	assert.Contains(t, s, "Sun 2024-02-04")
	assert.Contains(t, s, "8:00")
	assert.Contains(t, s, "6:00")
	assert.Contains(t, s, "-2:00")
	assert.Contains(t, s, "0.75")
	assert.Contains(t, s, "yes")
	assert.Contains(t, s, "TOTAL")
	assert.Contains(t, s, "PERSON")
	assert.Contains(t, s, "Alice")
}

func TestRenderWeekWithoutPersons(t *testing.T) {
	monday := core.NewDate(2024, time.January, 29)
	var reportDays []report.Day
	for i := 0; i < 7; i++ {
		reportDays = append(reportDays, report.NewDay(monday.AddDays(i), false, nil))
	}

	var out bytes.Buffer
	renderWeek(&out, report.NewWeek(monday, reportDays))

	// headers and footers render upper-cased
	assert.NotContains(t, out.String(), "PERSON")
	assert.Contains(t, out.String(), "TOTAL")
}

func TestWeekCommand(t *testing.T) {
	// GIVEN: an empty database
	db := filepath.Join(t.TempDir(), "worktime.db")
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut

	// WHEN: printing a week for everyone
	err := app.Run([]string{"worktime", "--env", filepath.Join(t.TempDir(), "missing.env"), "--db", db, "week", "2024", "5"})

	// THEN: the empty week is rendered
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Week 5 (2024-01-29 - 2024-02-04)")
}

func TestWeekCommandUnknownPerson(t *testing.T) {
	db := filepath.Join(t.TempDir(), "worktime.db")
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}

	err := app.Run([]string{"worktime", "--db", db, "week", "2024", "5", "-p", "ghost"})

	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}
