/*
holiday.go - Public holiday import from JSON calendars

PURPOSE:
  Turns yearly holiday calendars into core.Holiday records and stores them
  for the federal states they apply to.

FORMAT:
  A file holds one calendar object or an array of them:

    {
      "year": 2024,
      "federal_states": ["GERMANY_BAYERN", "GERMANY_BADEN_WUERTTEMBERG"],
      "months": [
        {"month": 1, "days": "1,6"},
        {"month": 12, "days": "24*,25,26"}
      ],
      "names": {"01-01": "Neujahr", "01-06": "Heilige Drei Koenige"}
    }

  Days are comma separated. A "+" suffix marks a moved holiday and is
  ignored; a "*" suffix marks a shortened working day, which is not a
  public holiday and is skipped.

SEE ALSO:
  - store/sqlite/holidays.go: Persistence
  - cmd/worktime: import-holidays command
*/
package holiday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/worktime-engine/core"
)

// CalendarJSON is one year of holidays shared by a set of federal states.
type CalendarJSON struct {
	Year          int               `json:"year"`
	FederalStates []string          `json:"federal_states"`
	Months        []MonthJSON       `json:"months"`
	Names         map[string]string `json:"names"`
}

// MonthJSON lists the holidays of one month.
type MonthJSON struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// Parse reads calendars from r and expands them to one Holiday per state
// and day.
func Parse(r io.Reader) ([]core.Holiday, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays: %w", err)
	}

	var calendars []CalendarJSON
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &calendars)
	} else {
		var single CalendarJSON
		err = json.Unmarshal(trimmed, &single)
		calendars = []CalendarJSON{single}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal holidays: %w", err)
	}

	var holidays []core.Holiday
	for _, cal := range calendars {
		expanded, err := cal.Holidays()
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, expanded...)
	}
	return holidays, nil
}

// ParseFile reads calendars from a file.
func ParseFile(path string) ([]core.Holiday, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Holidays expands the calendar.
func (c CalendarJSON) Holidays() ([]core.Holiday, error) {
	if len(c.FederalStates) == 0 {
		return nil, fmt.Errorf("holidays of %d: no federal_states given", c.Year)
	}
	states := make([]core.FederalState, 0, len(c.FederalStates))
	for _, raw := range c.FederalStates {
		state, err := core.ParseFederalState(raw)
		if err != nil {
			return nil, fmt.Errorf("holidays of %d: %w", c.Year, err)
		}
		if state == core.FederalStateGlobal || state == core.FederalStateNone {
			return nil, fmt.Errorf("holidays of %d: %s cannot carry holidays", c.Year, state)
		}
		states = append(states, state)
	}

	var holidays []core.Holiday
	for _, month := range c.Months {
		for _, raw := range strings.Split(month.Days, ",") {
			raw = strings.TrimSpace(raw)
			raw = strings.TrimSuffix(raw, "+")
			if raw == "" || strings.HasSuffix(raw, "*") {
				continue
			}
			dayOfMonth, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", raw, month.Month, err)
			}
			date, err := dateOf(c.Year, month.Month, dayOfMonth)
			if err != nil {
				return nil, err
			}
			name := c.Names[fmt.Sprintf("%02d-%02d", month.Month, dayOfMonth)]
			for _, state := range states {
				holidays = append(holidays, core.Holiday{FederalState: state, Date: date, Name: name})
			}
		}
	}
	return holidays, nil
}

func dateOf(year, month, day int) (core.Date, error) {
	if month < 1 || month > 12 {
		return core.Date{}, &core.CalendarReferenceError{Reference: fmt.Sprintf("%d-%02d", year, month), Reason: "month must be between 1 and 12"}
	}
	date := core.NewDate(year, time.Month(month), day)
	if date.Month() != time.Month(month) || day < 1 {
		return core.Date{}, &core.CalendarReferenceError{Reference: fmt.Sprintf("%d-%02d-%02d", year, month, day), Reason: "day does not exist"}
	}
	return date, nil
}

// =============================================================================
// IMPORTER
// =============================================================================

// Writer stores holidays in one batch.
type Writer interface {
	SaveHolidays(ctx context.Context, holidays []core.Holiday) error
}

// Importer parses holiday files and stores their content.
type Importer struct {
	w   Writer
	log *logrus.Logger
}

// NewImporter wires an importer. A nil logger falls back to
// logrus.StandardLogger().
func NewImporter(w Writer, log *logrus.Logger) *Importer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Importer{w: w, log: log}
}

// Import stores the holidays read from r and returns how many were saved.
func (i *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	holidays, err := Parse(r)
	if err != nil {
		return 0, err
	}
	return i.save(ctx, holidays)
}

// ImportFile stores the holidays of a file.
func (i *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	holidays, err := ParseFile(path)
	if err != nil {
		return 0, err
	}
	n, err := i.save(ctx, holidays)
	if err != nil {
		return 0, err
	}
	i.log.WithFields(logrus.Fields{"file": path, "holidays": n}).Info("imported public holidays")
	return n, nil
}

func (i *Importer) save(ctx context.Context, holidays []core.Holiday) (int, error) {
	if len(holidays) == 0 {
		i.log.Warn("holiday import contained no holidays")
		return 0, nil
	}
	if err := i.w.SaveHolidays(ctx, holidays); err != nil {
		return 0, fmt.Errorf("save holidays: %w", err)
	}
	i.log.WithField("holidays", len(holidays)).Debug("saved public holidays")
	return len(holidays), nil
}
