// Package por parses the caret-separated POR (point of reference) data file.
package por

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/efreeman/porsearch/internal/model"
)

// Field order of one POR line. Fields are separated by '^'; alternate names
// are pipe-separated "lang=value" pairs.
const (
	fieldIATA = iota
	fieldICAO
	fieldFAA
	fieldGeonameID
	fieldName
	fieldASCIIName
	fieldAltNames
	fieldLatitude
	fieldLongitude
	fieldFeatureClass
	fieldFeatureCode
	fieldCountryCode
	fieldContinentCode
	fieldAdmin1
	fieldAdmin2
	fieldTimeZone
	fieldPageRank
	fieldPORType
	fieldCityCode
	fieldCount
)

// ParseError describes a POR line that could not be turned into a Location.
// Parse errors are recoverable: the caller skips the line and counts it.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("por line %d: %s", e.Line, e.Reason)
}

// ParseLine parses one POR line into a Location. lineNo is 1-based and only
// used for error reporting.
func ParseLine(line string, lineNo int) (*model.Location, error) {
	fields := strings.Split(line, "^")
	if len(fields) < fieldCount {
		return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields))}
	}

	loc := &model.Location{
		Key: model.LocationKey{
			IATA: strings.TrimSpace(fields[fieldIATA]),
			ICAO: strings.TrimSpace(fields[fieldICAO]),
		},
		FAA:           strings.TrimSpace(fields[fieldFAA]),
		Name:          strings.TrimSpace(fields[fieldName]),
		ASCIIName:     strings.TrimSpace(fields[fieldASCIIName]),
		FeatureClass:  strings.TrimSpace(fields[fieldFeatureClass]),
		FeatureCode:   strings.TrimSpace(fields[fieldFeatureCode]),
		CountryCode:   strings.TrimSpace(fields[fieldCountryCode]),
		ContinentCode: strings.TrimSpace(fields[fieldContinentCode]),
		Admin1:        strings.TrimSpace(fields[fieldAdmin1]),
		Admin2:        strings.TrimSpace(fields[fieldAdmin2]),
		TimeZone:      strings.TrimSpace(fields[fieldTimeZone]),
		Type:          model.PORType(strings.TrimSpace(fields[fieldPORType])),
		CityCode:      strings.TrimSpace(fields[fieldCityCode]),
	}

	if raw := strings.TrimSpace(fields[fieldGeonameID]); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Reason: "geoname id is not numeric: " + raw}
		}
		loc.Key.GeonameID = id
	}
	if loc.Key.IsZero() {
		return nil, &ParseError{Line: lineNo, Reason: "empty location key (no iata, icao or geoname id)"}
	}

	lat, err := parseCoord(fields[fieldLatitude], 90)
	if err != nil {
		return nil, &ParseError{Line: lineNo, Reason: "latitude: " + err.Error()}
	}
	loc.Latitude = lat

	lon, err := parseCoord(fields[fieldLongitude], 180)
	if err != nil {
		return nil, &ParseError{Line: lineNo, Reason: "longitude: " + err.Error()}
	}
	loc.Longitude = lon

	if raw := strings.TrimSpace(fields[fieldPageRank]); raw != "" {
		rank, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Reason: "page rank is not numeric: " + raw}
		}
		if rank < 0 || rank > 1 {
			return nil, &ParseError{Line: lineNo, Reason: "page rank outside [0,1]: " + raw}
		}
		loc.PageRank = rank
	}

	loc.AltNames = parseAltNames(fields[fieldAltNames])
	return loc, nil
}

// parseAltNames splits the pipe-separated "lang=value" list. Entries without
// an '=' are kept as untagged names.
func parseAltNames(raw string) []model.AltName {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	names := make([]model.AltName, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if lang, name, ok := strings.Cut(p, "="); ok {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, model.AltName{Lang: strings.TrimSpace(lang), Name: name})
			}
			continue
		}
		names = append(names, model.AltName{Name: p})
	}
	return names
}

func parseCoord(raw string, bound float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %s", raw)
	}
	if v < -bound || v > bound {
		return 0, fmt.Errorf("outside [%g,%g]: %s", -bound, bound, raw)
	}
	return v, nil
}
