// Package models defines the records flowing through the transit emissions pipeline
package models

import (
	"github.com/ntdcarbon/ntdcarbon/internal/structset"
)

const (
	emissionsTableName = "emissions"
	runsTableName      = "runs"
)

// TransitMode is the descriptive label of an NTD mode code.
type TransitMode string

// Recognized transit modes. Unrecognized mode codes recode to ModeUnknown.
const (
	ModeHeavyRail      TransitMode = "Heavy Rail"
	ModeMotorBus       TransitMode = "Motor Bus"
	ModeCommuterRail   TransitMode = "Commuter Rail"
	ModeLightRail      TransitMode = "Light Rail"
	ModeRapidBus       TransitMode = "Rapid Bus"
	ModeTrolleybus     TransitMode = "Trolleybus"
	ModeCableCar       TransitMode = "Cable Car"
	ModeStreetcar      TransitMode = "Streetcar"
	ModeVanpool        TransitMode = "Vanpool"
	ModeDemandResponse TransitMode = "Demand Response"
	ModeUnknown        TransitMode = "Unknown"
)

// AgencySize is the usage based size tier of an agency.
type AgencySize string

// Size tiers by annual unlinked passenger trips.
const (
	SizeSmall  AgencySize = "Small"
	SizeMedium AgencySize = "Medium"
	SizeLarge  AgencySize = "Large"
)

// FuelConsumption holds per fuel type consumption quantities for one
// (agency, mode) row. Combustion fuels are in gallons, electric propulsion
// in MWh. A missing quantity in the source workbook is zero here.
type FuelConsumption struct {
	Diesel     float64 `json:"diesel_gal"       sql:"diesel_gal"       sqlitetype:"real"`
	Gasoline   float64 `json:"gasoline_gal"     sql:"gasoline_gal"     sqlitetype:"real"`
	NaturalGas float64 `json:"natural_gas_gal"  sql:"natural_gas_gal"  sqlitetype:"real"`
	Propane    float64 `json:"propane_gal"      sql:"propane_gal"      sqlitetype:"real"`
	Bunker     float64 `json:"bunker_gal"       sql:"bunker_gal"       sqlitetype:"real"`
	Ethanol    float64 `json:"ethanol_gal"      sql:"ethanol_gal"      sqlitetype:"real"`
	Electric   float64 `json:"electric_mwh"     sql:"electric_mwh"     sqlitetype:"real"`
}

// Total returns consumption summed across every fuel column, electric included.
func (f FuelConsumption) Total() float64 {
	return f.Diesel + f.Gasoline + f.NaturalGas + f.Propane + f.Bunker + f.Ethanol + f.Electric
}

// Add returns the field wise sum of two consumption records.
func (f FuelConsumption) Add(o FuelConsumption) FuelConsumption {
	return FuelConsumption{
		Diesel:     f.Diesel + o.Diesel,
		Gasoline:   f.Gasoline + o.Gasoline,
		NaturalGas: f.NaturalGas + o.NaturalGas,
		Propane:    f.Propane + o.Propane,
		Bunker:     f.Bunker + o.Bunker,
		Ethanol:    f.Ethanol + o.Ethanol,
		Electric:   f.Electric + o.Electric,
	}
}

// ElectricityProfile describes the electric grid of one US state.
// Exactly one profile exists per state.
type ElectricityProfile struct {
	State         string  `json:"state"              sql:"state"              sqlitetype:"text"`
	StateCode     string  `json:"state_code"         sql:"state_code"         sqlitetype:"text"`
	CO2LbsPerMWh  float64 `json:"co2_lbs_per_mwh"    sql:"co2_lbs_per_mwh"    sqlitetype:"real"` // Grid emission rate in pounds CO2 per MWh generated
	PrimarySource string  `json:"primary_source"     sql:"primary_source"     sqlitetype:"text"` // Primary energy source of generation
	RetailPrice   float64 `json:"retail_price_mwh"   sql:"retail_price_mwh"   sqlitetype:"real"` // Average retail price in USD per MWh
	GenerationMWh float64 `json:"net_generation_mwh" sql:"net_generation_mwh" sqlitetype:"real"` // Net generation capacity in MWh
}

// EnergyRecord is the summed fuel consumption of one (agency, mode) pair.
type EnergyRecord struct {
	NTDID      string          `json:"ntd_id"      sql:"ntd_id"      sqlitetype:"text"`
	AgencyName string          `json:"agency_name" sql:"agency_name" sqlitetype:"text"`
	Mode       TransitMode     `json:"mode"        sql:"mode"        sqlitetype:"text"`
	Fuels      FuelConsumption `json:"fuels"       sql:"-"           sqlitetype:"-"`
}

// ServiceRecord is the annual service summary of one transit agency.
type ServiceRecord struct {
	NTDID          string  `json:"ntd_id"          sql:"ntd_id"          sqlitetype:"text"`
	AgencyName     string  `json:"agency_name"     sql:"agency_name"     sqlitetype:"text"`
	City           string  `json:"city"            sql:"city"            sqlitetype:"text"`
	StateCode      string  `json:"state_code"      sql:"state_code"      sqlitetype:"text"`
	UPT            int64   `json:"upt"             sql:"upt"             sqlitetype:"integer"` // Unlinked passenger trips
	PassengerMiles float64 `json:"passenger_miles" sql:"passenger_miles" sqlitetype:"real"`
}

// EmissionsRow is the final wide row of the pipeline, one per (agency, mode).
// Fuel quantities and per fuel emissions are kept flat so that struct tags
// can drive the sqlite column set and the CSV header.
type EmissionsRow struct {
	ID                  int64       `json:"-"                     sql:"id"                    sqlitetype:"integer not null primary key"`
	NTDID               string      `json:"ntd_id"                sql:"ntd_id"                sqlitetype:"text"`
	AgencyName          string      `json:"agency_name"           sql:"agency_name"           sqlitetype:"text"`
	City                string      `json:"city"                  sql:"city"                  sqlitetype:"text"`
	State               string      `json:"state"                 sql:"state"                 sqlitetype:"text"`
	StateCode           string      `json:"state_code"            sql:"state_code"            sqlitetype:"text"`
	Mode                TransitMode `json:"mode"                  sql:"mode"                  sqlitetype:"text"`
	UPT                 int64       `json:"upt"                   sql:"upt"                   sqlitetype:"integer"`
	PassengerMiles      float64     `json:"passenger_miles"       sql:"passenger_miles"       sqlitetype:"real"`
	DieselGal           float64     `json:"diesel_gal"            sql:"diesel_gal"            sqlitetype:"real"`
	GasolineGal         float64     `json:"gasoline_gal"          sql:"gasoline_gal"          sqlitetype:"real"`
	NaturalGasGal       float64     `json:"natural_gas_gal"       sql:"natural_gas_gal"       sqlitetype:"real"`
	PropaneGal          float64     `json:"propane_gal"           sql:"propane_gal"           sqlitetype:"real"`
	BunkerGal           float64     `json:"bunker_gal"            sql:"bunker_gal"            sqlitetype:"real"`
	EthanolGal          float64     `json:"ethanol_gal"           sql:"ethanol_gal"           sqlitetype:"real"`
	ElectricMWh         float64     `json:"electric_mwh"          sql:"electric_mwh"          sqlitetype:"real"`
	CO2LbsPerMWh        float64     `json:"co2_lbs_per_mwh"       sql:"co2_lbs_per_mwh"       sqlitetype:"real"`
	PrimarySource       string      `json:"primary_source"        sql:"primary_source"        sqlitetype:"text"`
	DieselEmissions     float64     `json:"diesel_emissions"      sql:"diesel_emissions"      sqlitetype:"real"`
	GasolineEmissions   float64     `json:"gasoline_emissions"    sql:"gasoline_emissions"    sqlitetype:"real"`
	NaturalGasEmissions float64     `json:"natural_gas_emissions" sql:"natural_gas_emissions" sqlitetype:"real"`
	PropaneEmissions    float64     `json:"propane_emissions"     sql:"propane_emissions"     sqlitetype:"real"`
	BunkerEmissions     float64     `json:"bunker_emissions"      sql:"bunker_emissions"      sqlitetype:"real"`
	EthanolEmissions    float64     `json:"ethanol_emissions"     sql:"ethanol_emissions"     sqlitetype:"real"`
	ElectricEmissions   float64     `json:"electric_emissions"    sql:"electric_emissions"    sqlitetype:"real"` // Derived from the state grid rate, not a fixed factor
	TotalEmissions      float64     `json:"total_emissions"       sql:"total_emissions"       sqlitetype:"real"` // Pounds CO2 across all components
	EmissionsPerUPT     float64     `json:"emissions_per_upt"     sql:"emissions_per_upt"     sqlitetype:"real"`
	EmissionsPerMile    float64     `json:"emissions_per_mile"    sql:"emissions_per_mile"    sqlitetype:"real"`
	AgencySize          AgencySize  `json:"agency_size"           sql:"agency_size"           sqlitetype:"text"`
	CarEmissions        float64     `json:"car_emissions"         sql:"car_emissions"         sqlitetype:"real"` // Hypothetical private car emissions for the same miles
	EmissionsAvoided    float64     `json:"emissions_avoided"     sql:"emissions_avoided"     sqlitetype:"real"` // May be negative when transit is dirtier than driving
	ElectricShare       float64     `json:"electric_share"        sql:"electric_share"        sqlitetype:"real"`
	ElectricShareOK     bool        `json:"electric_share_ok"     sql:"electric_share_ok"     sqlitetype:"integer"` // False when the share denominator was zero
}

// Fuels reassembles the consumption quantities of the row.
func (r EmissionsRow) Fuels() FuelConsumption {
	return FuelConsumption{
		Diesel:     r.DieselGal,
		Gasoline:   r.GasolineGal,
		NaturalGas: r.NaturalGasGal,
		Propane:    r.PropaneGal,
		Bunker:     r.BunkerGal,
		Ethanol:    r.EthanolGal,
		Electric:   r.ElectricMWh,
	}
}

// TableName returns the table which emissions rows are stored into.
func (EmissionsRow) TableName() string {
	return emissionsTableName
}

// TagNames returns a slice of all tag names.
func (r EmissionsRow) TagNames(tag string) []string {
	return structset.GetStructFieldTagValues(r, tag)
}

// TagMap returns a map of tags based on keyTag and valueTag. If keyTag is empty,
// field names are used as map keys.
func (r EmissionsRow) TagMap(keyTag string, valueTag string) map[string]string {
	return structset.GetStructFieldTagMap(r, keyTag, valueTag)
}

// Run records one pipeline execution and its diagnostics summary.
type Run struct {
	ID              int64  `json:"-"                 sql:"id"                sqlitetype:"integer not null primary key"`
	UUID            string `json:"uuid"              sql:"uuid"              sqlitetype:"text"`
	StartedAt       string `json:"started_at"        sql:"started_at"        sqlitetype:"text"`
	EndedAt         string `json:"ended_at"          sql:"ended_at"          sqlitetype:"text"`
	NumRows         int64  `json:"num_rows"          sql:"num_rows"          sqlitetype:"integer"`
	NumZeroFilled   int64  `json:"num_zero_filled"   sql:"num_zero_filled"   sqlitetype:"integer"`
	NumZeroEnergy   int64  `json:"num_zero_energy"   sql:"num_zero_energy"   sqlitetype:"integer"`
	NumZeroMiles    int64  `json:"num_zero_miles"    sql:"num_zero_miles"    sqlitetype:"integer"`
	NumUnknownModes int64  `json:"num_unknown_modes" sql:"num_unknown_modes" sqlitetype:"integer"`
	NumUndefined    int64  `json:"num_undefined"     sql:"num_undefined"     sqlitetype:"integer"`
	NumUnjoined     int64  `json:"num_unjoined"      sql:"num_unjoined"      sqlitetype:"integer"`
}

// TableName returns the table which runs are stored into.
func (Run) TableName() string {
	return runsTableName
}

// TagNames returns a slice of all tag names.
func (r Run) TagNames(tag string) []string {
	return structset.GetStructFieldTagValues(r, tag)
}
