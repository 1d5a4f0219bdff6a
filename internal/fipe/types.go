// Package fipe implements the vehicle price lookup pipeline: upstream access,
// response enrichment, cached lookups and cross-brand search.
package fipe

import (
	"strconv"
	"strings"
)

// VehicleType is one of the vehicle categories served by the pricing service.
type VehicleType string

// Supported vehicle types. Values are the upstream wire names.
const (
	Car        VehicleType = "carros"
	Motorcycle VehicleType = "motos"
	Truck      VehicleType = "caminhoes"
)

// AllVehicleTypes lists every vehicle type in search order.
var AllVehicleTypes = []VehicleType{Car, Motorcycle, Truck}

var vehicleTypeAliases = map[string]VehicleType{
	"carros":     Car,
	"car":        Car,
	"motos":      Motorcycle,
	"motorcycle": Motorcycle,
	"caminhoes":  Truck,
	"truck":      Truck,
}

// ParseVehicleType accepts the wire name or its English alias, case-insensitively.
func ParseVehicleType(s string) (VehicleType, error) {
	if t, ok := vehicleTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", ErrInvalidVehicleType
}

// Valid reports whether t belongs to the closed set.
func (t VehicleType) Valid() bool {
	switch t {
	case Car, Motorcycle, Truck:
		return true
	}
	return false
}

// String returns the wire name.
func (t VehicleType) String() string {
	return string(t)
}

// order returns the position of t in AllVehicleTypes.
func (t VehicleType) order() int {
	for i, v := range AllVehicleTypes {
		if v == t {
			return i
		}
	}
	return len(AllVehicleTypes)
}

// ValidVehicleTypes returns the wire names accepted by the API.
func ValidVehicleTypes() []string {
	out := make([]string, len(AllVehicleTypes))
	for i, t := range AllVehicleTypes {
		out[i] = t.String()
	}
	return out
}

// Operation identifies which upstream resource a lookup targets.
type Operation string

// Lookup operations.
const (
	OpTables Operation = "tabelas"
	OpBrands Operation = "marcas"
	OpModels Operation = "veiculos"
	OpPrice  Operation = "preco"
)

// MinFipeCodeLength is the shortest FIPE code accepted before calling upstream.
const MinFipeCodeLength = 6

// CurrentTable is the key segment used when no reference table is requested.
const CurrentTable = "current"

// LookupQuery describes a single upstream lookup. It is an immutable value.
type LookupQuery struct {
	Operation   Operation
	VehicleType VehicleType
	BrandCode   string
	FipeCode    string
	TableID     string
}

// TablesQuery builds the query listing reference tables.
func TablesQuery() LookupQuery {
	return LookupQuery{Operation: OpTables}
}

// BrandsQuery builds the query listing brands of a vehicle type.
func BrandsQuery(t VehicleType, tableID string) LookupQuery {
	return LookupQuery{Operation: OpBrands, VehicleType: t, TableID: strings.TrimSpace(tableID)}
}

// ModelsQuery builds the query listing models of a brand.
func ModelsQuery(t VehicleType, brandCode, tableID string) LookupQuery {
	return LookupQuery{
		Operation:   OpModels,
		VehicleType: t,
		BrandCode:   strings.TrimSpace(brandCode),
		TableID:     strings.TrimSpace(tableID),
	}
}

// PriceQuery builds the query for the price of a FIPE code.
func PriceQuery(fipeCode, tableID string) LookupQuery {
	return LookupQuery{
		Operation: OpPrice,
		FipeCode:  strings.TrimSpace(fipeCode),
		TableID:   strings.TrimSpace(tableID),
	}
}

// Validate checks the query without any I/O.
func (q LookupQuery) Validate() error {
	if q.TableID != "" {
		n, err := strconv.Atoi(q.TableID)
		if err != nil || n < 1 {
			return ErrInvalidReferenceTable
		}
	}

	switch q.Operation {
	case OpTables:
		return nil
	case OpBrands:
		if !q.VehicleType.Valid() {
			return ErrInvalidVehicleType
		}
	case OpModels:
		if !q.VehicleType.Valid() {
			return ErrInvalidVehicleType
		}
		if q.BrandCode == "" {
			return ErrInvalidBrandCode
		}
	case OpPrice:
		if len(q.FipeCode) < MinFipeCodeLength {
			return ErrInvalidCode
		}
	default:
		return ErrUnknownOperation
	}
	return nil
}

// Key returns the deterministic cache key for the query. Two queries share a
// key exactly when they target the same upstream resource; a missing
// reference table is the same as "current".
func (q LookupQuery) Key() string {
	parts := []string{"fipe", string(q.Operation)}

	switch q.Operation {
	case OpTables:
		return strings.Join(parts, ":")
	case OpBrands:
		parts = append(parts, string(q.VehicleType))
	case OpModels:
		parts = append(parts, string(q.VehicleType), q.BrandCode)
	case OpPrice:
		parts = append(parts, q.FipeCode)
	}

	table := q.TableID
	if table == "" {
		table = CurrentTable
	}
	parts = append(parts, table)

	return strings.Join(parts, ":")
}

// CodeOrType returns the most specific identifier of the query, for logging.
func (q LookupQuery) CodeOrType() string {
	switch {
	case q.FipeCode != "":
		return q.FipeCode
	case q.BrandCode != "":
		return q.BrandCode
	default:
		return string(q.VehicleType)
	}
}
