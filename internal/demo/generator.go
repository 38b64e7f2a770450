package demo

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"

	"freightdash/internal/loader"
)

var ErrNoTenants = errors.New("at least one tenant is required")

// Raw statuses as they appear in TMS exports, casing and padding included.
var statuses = []string{"Booked", "dispatched", "in transit ", "IN TRANSIT", "Delivered", "delivered", "On Hold", "cancelled", ""}

var zones = []*time.Location{
	time.FixedZone("EDT", -4*3600),
	time.FixedZone("CDT", -5*3600),
	time.FixedZone("PDT", -7*3600),
}

type Options struct {
	Rows          int
	Tenants       []string
	Seed          int64
	DuplicateRate float64
	Start         time.Time
	// Progress receives a progress bar when set.
	Progress io.Writer
}

// Generate writes a workbook shaped like a TMS orders export: the columns the
// loader reads plus a few it ignores. Opts.Rows distinct orders are written;
// DuplicateRate adds re-exported copies of earlier orders on top.
func Generate(w io.Writer, opts Options) error {
	if len(opts.Tenants) == 0 {
		return ErrNoTenants
	}
	if opts.Rows < 0 {
		return fmt.Errorf("rows must not be negative, got %d", opts.Rows)
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	fake := faker.NewWithSeed(rand.NewSource(opts.Seed))

	pickups := companies(fake, 12)
	deliveries := companies(fake, 20)
	postcodes := make([]string, 25)
	for i := range postcodes {
		postcodes[i] = fake.Address().PostCode()
	}

	header := append([]string{"id", "createdAt"}, loader.RequiredColumns...)
	header = append(header, "weightLbs")
	rows := [][]string{header}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(opts.Rows,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("generating orders"),
		)
	}

	var written [][]string
	for i := 0; i < opts.Rows; i++ {
		created := opts.Start.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
		row := []string{
			fmt.Sprint(len(rows)),
			created.Format(time.RFC3339),
			fmt.Sprintf("SW-%d", 10000+i),
			pick(rng, statuses),
			pick(rng, opts.Tenants),
			pick(rng, pickups),
			pick(rng, deliveries),
			pick(rng, postcodes),
			eta(rng, created),
			fmt.Sprint(fake.IntBetween(50, 4000)),
		}
		rows = append(rows, row)
		written = append(written, row)

		if len(written) > 1 && rng.Float64() < opts.DuplicateRate {
			dup := append([]string(nil), written[rng.Intn(len(written)-1)]...)
			dup[0] = fmt.Sprint(len(rows))
			dup[3] = pick(rng, statuses)
			rows = append(rows, dup)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return loader.WriteWorkbook(w, rows)
}

func companies(fake faker.Faker, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fake.Company().Name()
	}
	return out
}

// eta renders mostly zoned timestamps, with some blanks and free text the
// loader has to tolerate.
func eta(rng *rand.Rand, created time.Time) string {
	switch p := rng.Float64(); {
	case p < 0.10:
		return ""
	case p < 0.15:
		return "TBD"
	default:
		t := created.Add(time.Duration(24+rng.Intn(24*7)) * time.Hour).Truncate(time.Minute)
		return t.In(zones[rng.Intn(len(zones))]).Format(time.RFC3339)
	}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
