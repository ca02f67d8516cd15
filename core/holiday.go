package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// FEDERAL STATE - Selects the public holiday rules that apply to a contract
// =============================================================================

// FederalState names a holiday region. FederalStateGlobal means "inherit the
// tenant-wide default"; FederalStateNone means "no public holidays at all".
type FederalState string

const (
	FederalStateGlobal FederalState = "GLOBAL"
	FederalStateNone   FederalState = "NONE"

	GermanyBadenWuerttemberg     FederalState = "GERMANY_BADEN_WUERTTEMBERG"
	GermanyBayern                FederalState = "GERMANY_BAYERN"
	GermanyBayernAugsburg        FederalState = "GERMANY_BAYERN_AUGSBURG"
	GermanyBerlin                FederalState = "GERMANY_BERLIN"
	GermanyBrandenburg           FederalState = "GERMANY_BRANDENBURG"
	GermanyBremen                FederalState = "GERMANY_BREMEN"
	GermanyHamburg               FederalState = "GERMANY_HAMBURG"
	GermanyHessen                FederalState = "GERMANY_HESSEN"
	GermanyMecklenburgVorpommern FederalState = "GERMANY_MECKLENBURG_VORPOMMERN"
	GermanyNiedersachsen         FederalState = "GERMANY_NIEDERSACHSEN"
	GermanyNordrheinWestfalen    FederalState = "GERMANY_NORDRHEIN_WESTFALEN"
	GermanyRheinlandPfalz        FederalState = "GERMANY_RHEINLAND_PFALZ"
	GermanySaarland              FederalState = "GERMANY_SAARLAND"
	GermanySachsen               FederalState = "GERMANY_SACHSEN"
	GermanySachsenAnhalt         FederalState = "GERMANY_SACHSEN_ANHALT"
	GermanySchleswigHolstein     FederalState = "GERMANY_SCHLESWIG_HOLSTEIN"
	GermanyThueringen            FederalState = "GERMANY_THUERINGEN"
	AustriaWien                  FederalState = "AUSTRIA_WIEN"
	SwitzerlandZuerich           FederalState = "SWITZERLAND_ZUERICH"
)

var knownFederalStates = map[FederalState]struct{}{
	FederalStateGlobal: {}, FederalStateNone: {},
	GermanyBadenWuerttemberg: {}, GermanyBayern: {}, GermanyBayernAugsburg: {},
	GermanyBerlin: {}, GermanyBrandenburg: {}, GermanyBremen: {}, GermanyHamburg: {},
	GermanyHessen: {}, GermanyMecklenburgVorpommern: {}, GermanyNiedersachsen: {},
	GermanyNordrheinWestfalen: {}, GermanyRheinlandPfalz: {}, GermanySaarland: {},
	GermanySachsen: {}, GermanySachsenAnhalt: {}, GermanySchleswigHolstein: {},
	GermanyThueringen: {}, AustriaWien: {}, SwitzerlandZuerich: {},
}

// ParseFederalState accepts any known state name, case-insensitively.
// The empty string means FederalStateGlobal.
func ParseFederalState(s string) (FederalState, error) {
	if s == "" {
		return FederalStateGlobal, nil
	}
	fs := FederalState(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownFederalStates[fs]; !ok {
		return "", fmt.Errorf("unknown federal state %q", s)
	}
	return fs, nil
}

// Resolve replaces FederalStateGlobal with the tenant default.
func (fs FederalState) Resolve(defaultState FederalState) FederalState {
	if fs == FederalStateGlobal || fs == "" {
		return defaultState
	}
	return fs
}

// =============================================================================
// HOLIDAY CALENDAR - Public holidays per federal state
// =============================================================================

// Holiday is one public holiday of one federal state.
type Holiday struct {
	ID           string
	FederalState FederalState
	Date         Date
	Name         string
}

// HolidayCalendar answers public holiday lookups. Implementations must be
// safe for concurrent reads.
type HolidayCalendar interface {
	IsPublicHoliday(date Date, state FederalState) bool
}

// NoHolidays is a calendar without any public holiday.
type NoHolidays struct{}

func (NoHolidays) IsPublicHoliday(Date, FederalState) bool { return false }

// HolidaySet is an in-memory HolidayCalendar built from Holiday records.
type HolidaySet struct {
	byState map[FederalState]map[Date]string
}

// NewHolidaySet indexes holidays by state and day.
func NewHolidaySet(holidays []Holiday) *HolidaySet {
	set := &HolidaySet{byState: make(map[FederalState]map[Date]string)}
	for _, h := range holidays {
		days, ok := set.byState[h.FederalState]
		if !ok {
			days = make(map[Date]string)
			set.byState[h.FederalState] = days
		}
		days[h.Date] = h.Name
	}
	return set
}

// IsPublicHoliday implements HolidayCalendar. FederalStateNone never has
// public holidays.
func (s *HolidaySet) IsPublicHoliday(date Date, state FederalState) bool {
	if s == nil || state == FederalStateNone {
		return false
	}
	_, ok := s.byState[state][date]
	return ok
}

// Name returns the holiday name, if any.
func (s *HolidaySet) Name(date Date, state FederalState) (string, bool) {
	if s == nil {
		return "", false
	}
	name, ok := s.byState[state][date]
	return name, ok
}
