// mkfixture writes a synthetic tumor extract for trying out naaccrconv.
// Rows are clustered by patient, as a registry export would be.
// Usage: go run ./cmd/mkfixture --out testdata/tumors.csv --patients 500
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/oleg578/swiftcsv"
	goparquet "github.com/parquet-go/parquet-go"
)

// fixtureRow is one tumor. Field tags double as the CSV header.
type fixtureRow struct {
	PatientIDNumber     string `parquet:"patientIdNumber"`
	RegistryID          string `parquet:"registryId"`
	NameLast            string `parquet:"nameLast"`
	NameFirst           string `parquet:"nameFirst"`
	Sex                 string `parquet:"sex"`
	DateOfBirth         string `parquet:"dateOfBirth"`
	TumorRecordNumber   string `parquet:"tumorRecordNumber"`
	PrimarySite         string `parquet:"primarySite"`
	Laterality          string `parquet:"laterality"`
	DateOfDiagnosis     string `parquet:"dateOfDiagnosis"`
	HistologicTypeIcdO3 string `parquet:"histologicTypeIcdO3"`
	BehaviorCodeIcdO3   string `parquet:"behaviorCodeIcdO3"`
	TextRemarks         string `parquet:"textRemarks"`
}

var header = []string{
	"patientIdNumber", "registryId", "nameLast", "nameFirst", "sex", "dateOfBirth",
	"tumorRecordNumber", "primarySite", "laterality", "dateOfDiagnosis",
	"histologicTypeIcdO3", "behaviorCodeIcdO3", "textRemarks",
}

func (r fixtureRow) record() []string {
	return []string{
		r.PatientIDNumber, r.RegistryID, r.NameLast, r.NameFirst, r.Sex, r.DateOfBirth,
		r.TumorRecordNumber, r.PrimarySite, r.Laterality, r.DateOfDiagnosis,
		r.HistologicTypeIcdO3, r.BehaviorCodeIcdO3, r.TextRemarks,
	}
}

var (
	lastNames  = []string{"Smith", "Garcia", "O'Brien", "Nguyen", "Kowalski", "Johnson", "Lee", "Müller"}
	firstNames = []string{"Ann", "José", "Li", "Mary", "Omar", "Paul", "Rosa", "Sam"}
	sites      = []string{"C500", "C509", "C619", "C341", "C180", "C443", "C739", "C649"}
	histology  = []string{"8500", "8140", "8070", "8720", "8260"}
	remarks    = []string{
		"",
		"",
		"screening mammogram, BI-RADS 5",
		"path report: margins < 1mm & LVI present",
		"initial dx elsewhere::records requested",
		`patient states "no prior cancer"`,
	}
)

func generate(rng *rand.Rand, patients, maxTumors int) []fixtureRow {
	var out []fixtureRow
	for p := 1; p <= patients; p++ {
		id := fmt.Sprintf("%08d", p)
		last := lastNames[rng.IntN(len(lastNames))]
		first := firstNames[rng.IntN(len(firstNames))]
		sex := []string{"1", "2"}[rng.IntN(2)]
		birthYear := 1930 + rng.IntN(70)
		dob := fmt.Sprintf("%04d%02d%02d", birthYear, 1+rng.IntN(12), 1+rng.IntN(28))

		n := 1 + rng.IntN(maxTumors)
		for t := 1; t <= n; t++ {
			site := sites[rng.IntN(len(sites))]
			lat := "0"
			if strings.HasPrefix(site, "C50") || strings.HasPrefix(site, "C34") || strings.HasPrefix(site, "C64") {
				lat = []string{"1", "2"}[rng.IntN(2)]
			}
			dxYear := birthYear + 30 + rng.IntN(60)
			if dxYear > 2024 {
				dxYear = 2024
			}
			out = append(out, fixtureRow{
				PatientIDNumber:     id,
				RegistryID:          "0000001234",
				NameLast:            last,
				NameFirst:           first,
				Sex:                 sex,
				DateOfBirth:         dob,
				TumorRecordNumber:   fmt.Sprintf("%02d", t),
				PrimarySite:         site,
				Laterality:          lat,
				DateOfDiagnosis:     fmt.Sprintf("%04d%02d%02d", dxYear, 1+rng.IntN(12), 1+rng.IntN(28)),
				HistologicTypeIcdO3: histology[rng.IntN(len(histology))],
				BehaviorCodeIcdO3:   "3",
				TextRemarks:         remarks[rng.IntN(len(remarks))],
			})
		}
	}
	return out
}

func writeCSV(w io.Writer, rows []fixtureRow) error {
	cw := swiftcsv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func writeParquet(w io.Writer, rows []fixtureRow) error {
	pw := goparquet.NewGenericWriter[fixtureRow](w)
	if _, err := pw.Write(rows); err != nil {
		return err
	}
	return pw.Close()
}

func main() {
	out := flag.String("out", "testdata/tumors.csv", "output path: .csv, .csv.gz or .parquet")
	patients := flag.Int("patients", 200, "number of patients")
	maxTumors := flag.Int("max-tumors", 3, "max tumors per patient")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *patients < 0 || *maxTumors < 1 {
		fmt.Fprintln(os.Stderr, "--patients must be >= 0 and --max-tumors >= 1")
		os.Exit(1)
	}

	rows := generate(rand.New(rand.NewPCG(*seed, *seed)), *patients, *maxTumors)

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	lower := strings.ToLower(*out)
	switch {
	case strings.HasSuffix(lower, ".parquet"):
		err = writeParquet(f, rows)
	case strings.HasSuffix(lower, ".gz"):
		zw := gzip.NewWriter(f)
		err = writeCSV(zw, rows)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	default:
		err = writeCSV(f, rows)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d tumors for %d patients to %s\n", len(rows), *patients, *out)
}
