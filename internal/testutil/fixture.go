// Package testutil provides the seeded POR fixture shared by index and
// search tests, plus helpers for integration tests against real Postgres
// and Redis instances.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/efreeman/porsearch/internal/index"
)

// FixturePOR is a small POR extract covering the seeded query scenarios:
// typo correction, multi-destination slicing, code lookups, and accented
// names. One record per line, caret-separated.
const FixturePOR = `SFO^^^5391959^San Francisco^San Francisco^en=San Francisco^37.7749^-122.4194^P^PPLA2^US^NA^CA^075^America/Los_Angeles^0.70^C^SFO
SFO^KSFO^SFO^5391989^San Francisco International Airport^San Francisco International Airport^en=San Francisco International Airport^37.6189^-122.3750^S^AIRP^US^NA^CA^081^America/Los_Angeles^0.65^A^SFO
RIO^^^3451190^Rio de Janeiro^Rio de Janeiro^pt=Rio de Janeiro^-22.9068^-43.1729^P^PPLA^BR^SA^21^^America/Sao_Paulo^0.68^C^RIO
LAX^^^5368361^Los Angeles^Los Angeles^en=Los Angeles^34.0522^-118.2437^P^PPLA2^US^NA^CA^037^America/Los_Angeles^0.72^C^LAX
REK^^^3413829^Reykjavik^Reykjavik^is=Reykjavik^64.1355^-21.8954^P^PPLC^IS^EU^1^^Atlantic/Reykjavik^0.45^C^REK
^^08A^4830262^Chelsea Municipal Airport^Chelsea Municipal Airport^^32.3431^-86.6294^S^AIRP^US^NA^AL^^America/Chicago^0.01^A^
NCE^LFMN^^6299418^Nice Côte d'Azur^Nice Cote d'Azur^fr=Nice Cote d'Azur^43.6584^7.2159^S^AIRP^FR^EU^93^06^Europe/Paris^0.55^A^NCE
PAR^^^2988507^Paris^Paris^fr=Paris^48.8566^2.3522^P^PPLC^FR^EU^11^75^Europe/Paris^0.90^C^PAR
CDG^LFPG^^6269554^Paris Charles de Gaulle Airport^Paris Charles de Gaulle Airport^fr=Roissy Charles de Gaulle^49.0097^2.5479^S^AIRP^FR^EU^11^95^Europe/Paris^0.60^A^PAR
MAD^^^3117735^Madrid^Madrid^es=Madrid^40.4168^-3.7038^P^PPLC^ES^EU^29^^Europe/Madrid^0.85^C^MAD
`

// FixtureEntries is the number of indexable records in FixturePOR.
const FixtureEntries = 10

// WriteFixturePOR writes the fixture to a temp file and returns its path.
func WriteFixturePOR(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "por.csv")
	if err := os.WriteFile(path, []byte(FixturePOR), 0644); err != nil {
		t.Fatalf("write fixture por: %v", err)
	}
	return path
}

// BuildTestIndex builds a fresh index from the fixture in a temp directory
// and returns an open reader on it.
func BuildTestIndex(t *testing.T) *index.Reader {
	t.Helper()
	porPath := WriteFixturePOR(t)
	indexPath := filepath.Join(t.TempDir(), "porindex")

	stats, err := index.Build(context.Background(), porPath, indexPath, nil)
	if err != nil {
		t.Fatalf("build test index: %v", err)
	}
	if stats.Entries != FixtureEntries {
		t.Fatalf("expected %d fixture entries, indexed %d", FixtureEntries, stats.Entries)
	}

	reader, err := index.Open(indexPath)
	if err != nil {
		t.Fatalf("open test index: %v", err)
	}
	t.Cleanup(func() { reader.Close() })
	return reader
}
