package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/efreeman/porsearch/internal/model"
)

// PORRepo mirrors indexed POR records into Postgres for key-based lookups.
type PORRepo struct {
	db *sql.DB
}

// NewPORRepo creates a PORRepo.
func NewPORRepo(db *sql.DB) *PORRepo {
	return &PORRepo{db: db}
}

const porColumns = `iata, icao, faa, geoname_id, name, ascii_name, alt_names,
	 latitude, longitude, feature_class, feature_code, country_code,
	 continent_code, admin1, admin2, timezone, page_rank, por_type,
	 city_code, doc_id`

// Insert stores one POR record. Records are keyed by doc ID; rebuilding the
// index overwrites the previous generation's row.
func (r *PORRepo) Insert(ctx context.Context, loc *model.Location) error {
	altNames, err := json.Marshal(loc.AltNames)
	if err != nil {
		return fmt.Errorf("encode alt names for %s: %w", loc.Key, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO por (`+porColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 ON CONFLICT (doc_id) DO UPDATE SET
		   iata = EXCLUDED.iata, icao = EXCLUDED.icao, faa = EXCLUDED.faa,
		   geoname_id = EXCLUDED.geoname_id, name = EXCLUDED.name,
		   ascii_name = EXCLUDED.ascii_name, alt_names = EXCLUDED.alt_names,
		   latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
		   feature_class = EXCLUDED.feature_class, feature_code = EXCLUDED.feature_code,
		   country_code = EXCLUDED.country_code, continent_code = EXCLUDED.continent_code,
		   admin1 = EXCLUDED.admin1, admin2 = EXCLUDED.admin2,
		   timezone = EXCLUDED.timezone, page_rank = EXCLUDED.page_rank,
		   por_type = EXCLUDED.por_type, city_code = EXCLUDED.city_code`,
		loc.Key.IATA, loc.Key.ICAO, loc.FAA, loc.Key.GeonameID, loc.Name,
		loc.ASCIIName, altNames, loc.Latitude, loc.Longitude,
		loc.FeatureClass, loc.FeatureCode, loc.CountryCode, loc.ContinentCode,
		loc.Admin1, loc.Admin2, loc.TimeZone, loc.PageRank, string(loc.Type),
		loc.CityCode, loc.DocID,
	)
	if err != nil {
		return fmt.Errorf("insert por %s: %w", loc.Key, err)
	}
	return nil
}

// Clear empties the mirror before a fresh fill.
func (r *PORRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE por`); err != nil {
		return fmt.Errorf("clear por mirror: %w", err)
	}
	return nil
}

// ListByIATA returns all records with the given IATA code.
func (r *PORRepo) ListByIATA(ctx context.Context, code string) ([]model.Location, error) {
	return r.list(ctx, `SELECT `+porColumns+` FROM por WHERE iata = upper($1) ORDER BY page_rank DESC, doc_id`, code)
}

// ListByICAO returns all records with the given ICAO code.
func (r *PORRepo) ListByICAO(ctx context.Context, code string) ([]model.Location, error) {
	return r.list(ctx, `SELECT `+porColumns+` FROM por WHERE icao = upper($1) ORDER BY page_rank DESC, doc_id`, code)
}

// ListByFAA returns all records with the given FAA code.
func (r *PORRepo) ListByFAA(ctx context.Context, code string) ([]model.Location, error) {
	return r.list(ctx, `SELECT `+porColumns+` FROM por WHERE faa = upper($1) ORDER BY page_rank DESC, doc_id`, code)
}

// ListByGeonameID returns the records with the given Geonames ID.
func (r *PORRepo) ListByGeonameID(ctx context.Context, id int64) ([]model.Location, error) {
	return r.list(ctx, `SELECT `+porColumns+` FROM por WHERE geoname_id = $1 ORDER BY doc_id`, id)
}

// CountPOR returns the number of mirrored records.
func (r *PORRepo) CountPOR(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM por`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count por: %w", err)
	}
	return n, nil
}

func (r *PORRepo) list(ctx context.Context, query string, arg any) ([]model.Location, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list por: %w", err)
	}
	defer rows.Close()

	var out []model.Location
	for rows.Next() {
		var loc model.Location
		var porType string
		var altNames []byte
		if err := rows.Scan(
			&loc.Key.IATA, &loc.Key.ICAO, &loc.FAA, &loc.Key.GeonameID,
			&loc.Name, &loc.ASCIIName, &altNames, &loc.Latitude, &loc.Longitude,
			&loc.FeatureClass, &loc.FeatureCode, &loc.CountryCode,
			&loc.ContinentCode, &loc.Admin1, &loc.Admin2, &loc.TimeZone,
			&loc.PageRank, &porType, &loc.CityCode, &loc.DocID,
		); err != nil {
			return nil, fmt.Errorf("scan por row: %w", err)
		}
		loc.Type = model.PORType(porType)
		if len(altNames) > 0 {
			if err := json.Unmarshal(altNames, &loc.AltNames); err != nil {
				return nil, fmt.Errorf("decode alt names: %w", err)
			}
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate por rows: %w", err)
	}
	return out, nil
}
