package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	"DivScout/pkg/cache"
	xlogger "DivScout/pkg/logger"
)

// dividendWindow is the trailing period whose dividend events are summed into
// the "annual dividend" figure.
const dividendWindow = 365 * 24 * time.Hour

// Strategy is one provider in fallback priority order. FetchWindow is the
// calendar range requested from the provider; the trailing-365-day summation
// is applied to whatever comes back.
type Strategy struct {
	Provider    drepo.MarketData
	Source      models.DataSource
	FetchWindow func(now time.Time) (from, to time.Time)
}

// PrimaryStrategy requests exactly the trailing year.
func PrimaryStrategy(p drepo.MarketData) Strategy {
	return Strategy{
		Provider: p,
		Source:   models.SourcePrimary,
		FetchWindow: func(now time.Time) (time.Time, time.Time) {
			return now.Add(-dividendWindow), now
		},
	}
}

// FallbackStrategy requests a fixed two-year calendar range; the secondary
// provider's dividend endpoint wants explicit from/to dates.
func FallbackStrategy(p drepo.MarketData) Strategy {
	return Strategy{
		Provider: p,
		Source:   models.SourceFallback,
		FetchWindow: func(now time.Time) (time.Time, time.Time) {
			return now.AddDate(-2, 0, 0), now
		},
	}
}

// outcome tags a single strategy attempt: usable data, a well-formed empty
// answer, or a transport/payload failure. The orchestrator walks the strategy
// list until one yields data instead of using errors as control flow.
type outcome struct {
	record  *models.DividendRecord
	noData  bool
	failure error
}

// DividendFetcher resolves canonical dividend records across an ordered list
// of provider strategies with per-symbol isolation.
type DividendFetcher struct {
	strategies []Strategy
	cache      cache.Service
	cacheTTL   time.Duration
	metrics    drepo.Metrics
	audit      drepo.LookupAudit
	logger     *xlogger.Logger

	now func() time.Time
}

// NewDividendFetcher creates the orchestrator. cache and audit may be nil.
func NewDividendFetcher(strategies []Strategy, c cache.Service, ttl time.Duration, m drepo.Metrics, audit drepo.LookupAudit, l *xlogger.Logger) *DividendFetcher {
	return &DividendFetcher{
		strategies: strategies,
		cache:      c,
		cacheTTL:   ttl,
		metrics:    m,
		audit:      audit,
		logger:     l,
		now:        time.Now,
	}
}

// FetchDividendData resolves one canonical record per requested symbol.
// Symbols resolve concurrently; individual failures never abort siblings and
// the method itself never fails.
func (f *DividendFetcher) FetchDividendData(ctx context.Context, symbols []string) []models.DividendRecord {
	records := make([]models.DividendRecord, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			records[i] = f.fetchOne(ctx, sym)
		}(i, sym)
	}
	wg.Wait()

	return records
}

func (f *DividendFetcher) fetchOne(ctx context.Context, symbol string) models.DividendRecord {
	start := f.now()

	if f.cache != nil {
		var cached models.DividendRecord
		if err := f.cache.Get(ctx, recordKey(symbol), &cached); err == nil {
			f.metrics.RecordCacheLookup("hit")
			return cached
		}
		f.metrics.RecordCacheLookup("miss")
	}

	var lastReason string
	for _, s := range f.strategies {
		if !s.Provider.Configured() {
			continue
		}
		out := f.attempt(ctx, s, symbol)
		if out.record != nil {
			f.finish(ctx, *out.record, start)
			return *out.record
		}
		if out.noData {
			lastReason = fmt.Sprintf("%s returned no usable data", s.Provider.Name())
			f.logger.Debug("provider no data",
				xlogger.String("provider", s.Provider.Name()),
				xlogger.String("symbol", symbol),
			)
		} else {
			lastReason = fmt.Sprintf("%s request failed", s.Provider.Name())
			f.logger.Warn("provider failure",
				xlogger.String("provider", s.Provider.Name()),
				xlogger.String("symbol", symbol),
				xlogger.Error(out.failure),
			)
		}
	}

	reason := "no market data provider is configured"
	if lastReason != "" {
		reason = fmt.Sprintf("no dividend data available for %s: %s", symbol, lastReason)
	}
	rec := models.NoDataRecord(symbol, reason, f.now().UTC())
	f.finish(ctx, rec, start)
	return rec
}

// attempt runs one provider strategy: quote, profile and dividend history are
// fetched concurrently, then assembled into a canonical record.
func (f *DividendFetcher) attempt(ctx context.Context, s Strategy, symbol string) outcome {
	now := f.now()
	from, to := s.FetchWindow(now)

	var (
		quote   *models.Quote
		profile *models.Profile
		events  []models.DividendEvent

		quoteErr, profileErr, divErr error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		quote, quoteErr = s.Provider.Quote(ctx, symbol)
		f.metrics.RecordProviderRequest(s.Provider.Name(), "quote", outcomeLabel(quoteErr))
	}()
	go func() {
		defer wg.Done()
		profile, profileErr = s.Provider.Profile(ctx, symbol)
		f.metrics.RecordProviderRequest(s.Provider.Name(), "profile", outcomeLabel(profileErr))
	}()
	go func() {
		defer wg.Done()
		events, divErr = s.Provider.Dividends(ctx, symbol, from, to)
		f.metrics.RecordProviderRequest(s.Provider.Name(), "dividends", outcomeLabel(divErr))
	}()
	wg.Wait()

	if err := firstError(quoteErr, profileErr, divErr); err != nil {
		if errors.Is(err, drepo.ErrNoData) {
			return outcome{noData: true}
		}
		return outcome{failure: err}
	}

	annual := sumTrailingYear(events, now)
	yield := 0.0
	if annual > 0 && quote.Price > 0 {
		yield = annual / quote.Price * 100
	}

	// A record with no usable price, or with neither dividend amount nor
	// yield, is not meaningful and triggers fallback. This also rejects
	// non-payers with a valid price, matching the established behavior.
	if quote.Price <= 0 || (annual == 0 && yield == 0) {
		return outcome{noData: true}
	}

	rec := normalize(symbol, quote, profile, annual, yield, s.Source, now.UTC())
	return outcome{record: &rec}
}

func (f *DividendFetcher) finish(ctx context.Context, rec models.DividendRecord, start time.Time) {
	elapsed := f.now().Sub(start)
	f.metrics.RecordResolution(string(rec.Source))
	f.metrics.RecordFetchLatency(string(rec.Source), elapsed.Seconds())
	if rec.HasData {
		f.metrics.RecordLastPrice(rec.Symbol, rec.Price)
	}
	if f.audit != nil {
		f.audit.Record(drepo.LookupEvent{
			Timestamp: start.UTC(),
			Symbol:    rec.Symbol,
			Source:    string(rec.Source),
			Duration:  elapsed.Milliseconds(),
			OK:        rec.HasData,
		})
	}
	if f.cache != nil && rec.HasData {
		if err := f.cache.Set(ctx, recordKey(rec.Symbol), rec, f.cacheTTL); err != nil {
			f.logger.Warn("record cache set failed", xlogger.Error(err))
		}
	}
}

// normalize maps provider-neutral pieces onto the canonical record shape,
// substituting defaults for anything the provider left blank.
func normalize(symbol string, q *models.Quote, p *models.Profile, annual, yield float64, src models.DataSource, now time.Time) models.DividendRecord {
	rec := models.DividendRecord{
		Symbol:         symbol,
		Price:          q.Price,
		PreviousClose:  q.PreviousClose,
		Change:         q.Change,
		ChangePercent:  q.ChangePercent,
		AnnualDividend: annual,
		DividendYield:  yield,
		CompanyName:    symbol,
		Currency:       "USD",
		LastUpdated:    now,
		HasData:        true,
		Source:         src,
	}
	if p != nil {
		if p.CompanyName != "" {
			rec.CompanyName = p.CompanyName
		}
		if p.Currency != "" {
			rec.Currency = p.Currency
		}
	}
	return rec
}

// sumTrailingYear adds up dividend amounts dated within the trailing 365 days.
func sumTrailingYear(events []models.DividendEvent, now time.Time) float64 {
	cutoff := now.Add(-dividendWindow)
	var total float64
	for _, e := range events {
		if e.Date.After(cutoff) && !e.Date.After(now) {
			total += e.Amount
		}
	}
	return total
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, drepo.ErrNoData):
		return "no_data"
	default:
		return "error"
	}
}

func recordKey(symbol string) string {
	return "dividend:" + symbol
}
