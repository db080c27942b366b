// Package pipeline implements the normalization-and-reconciliation core:
// heterogeneous per-portal match and price listings in, one deduplicated,
// currency-normalized record set out.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/models"
	"github.com/worldcup26/hospitality/internal/pkg/rates"
	"github.com/worldcup26/hospitality/internal/portal"
)

// Options parameterize one pipeline run. All three knobs are fixed for the
// whole run; they are never inferred per record.
type Options struct {
	PriceMode    string   // config.PriceModeAll or config.PriceModeLowest
	CurrencyRule string   // config.CurrencyRulePortal or config.CurrencyRuleVenue
	Stages       []string // stage labels to keep; empty keeps everything
}

// Policy derives the reconciliation policy from the price mode: the full
// lounge menu is exported per portal (concatenate), while lowest-price mode
// collapses each match to the single cheapest portal.
func (o Options) Policy() MergePolicy {
	if o.PriceMode == config.PriceModeLowest {
		return PolicyLowestWins
	}
	return PolicyConcatenate
}

func (o Options) stageAllowed(stage string) bool {
	if len(o.Stages) == 0 {
		return true
	}
	for _, s := range o.Stages {
		if strings.EqualFold(s, stage) {
			return true
		}
	}
	return false
}

// PortalStats summarizes one portal's contribution to the run.
type PortalStats struct {
	Portal             string `json:"portal"`
	MatchesListed      int    `json:"matches_listed"`
	MatchesPriced      int    `json:"matches_priced"`
	OfferFetchFailures int    `json:"offer_fetch_failures"`
}

// ResultSet is the finished output of one run, handed to the exporter and
// the optional sinks. Not mutated afterwards.
type ResultSet struct {
	ScrapedAt time.Time
	Rates     rates.Snapshot
	Records   []models.Record
	Stats     []PortalStats
}

// Runner drives one end-to-end pipeline run.
type Runner struct {
	cfg    *config.Config
	client portal.Client
	rates  *rates.Provider
}

func NewRunner(cfg *config.Config, client portal.Client, provider *rates.Provider) *Runner {
	return &Runner{cfg: cfg, client: client, rates: provider}
}

// Run visits every configured portal strictly sequentially, normalizes and
// prices what it finds, and reconciles the accumulated records into the
// canonical set. Portal order comes from the config and decides
// reconciliation tie-breaks, so it must not be reordered.
func (r *Runner) Run(ctx context.Context) (*ResultSet, error) {
	start := time.Now()
	snap := r.rates.Fetch(ctx)

	opts := Options{
		PriceMode:    r.cfg.Scraper.PriceMode,
		CurrencyRule: r.cfg.Scraper.CurrencyRule,
		Stages:       r.cfg.Scraper.Stages,
	}

	var collected []models.Record
	var stats []PortalStats

	for _, p := range r.cfg.PortalList() {
		recs, st, err := r.runPortal(ctx, p, snap, opts)
		if err != nil {
			return nil, fmt.Errorf("portal %s: %w", p.Code, err)
		}
		collected = append(collected, recs...)
		stats = append(stats, st)
	}

	final := Reconcile(collected, opts.Policy())

	slog.Info("Pipeline run finished",
		"records", len(final),
		"price_mode", opts.PriceMode,
		"currency_rule", opts.CurrencyRule,
		"duration", time.Since(start))

	return &ResultSet{
		ScrapedAt: start.UTC(),
		Rates:     snap,
		Records:   final,
		Stats:     stats,
	}, nil
}

func (r *Runner) runPortal(ctx context.Context, p models.Portal, snap rates.Snapshot, opts Options) ([]models.Record, PortalStats, error) {
	st := PortalStats{Portal: p.Name}

	matches, err := r.client.ListMatches(ctx, p)
	if err != nil {
		return nil, st, err
	}

	var records []models.Record
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		if !opts.stageAllowed(m.Stage) {
			continue
		}
		st.MatchesListed++

		rawOffers, err := r.client.ListOffers(ctx, p, m)
		if err != nil {
			// One match's price detail failing is not fatal: the match is
			// excluded and the run moves on. Counted separately from genuine
			// sold-out listings so the two conditions stay distinguishable.
			st.OfferFetchFailures++
			slog.Warn("Offer fetch failed, excluding match",
				"portal", p.Code, "match_number", m.MatchNumber, "error", err)
			continue
		}

		rec, ok := Normalize(m, rawOffers, p, opts)
		if !ok {
			continue
		}

		selected := SelectOffers(rec.Offers, opts.PriceMode)
		if len(selected) == 0 {
			continue
		}

		records = append(records, priceRecord(rec, selected, snap, opts))
		st.MatchesPriced++
	}

	slog.Info("Portal processed",
		"portal", p.Code,
		"matches", st.MatchesListed,
		"priced", st.MatchesPriced,
		"offer_fetch_failures", st.OfferFetchFailures)

	return records, st, nil
}

// priceRecord fills in base-currency prices and the representative offer.
func priceRecord(rec models.Record, selected []models.Offer, snap rates.Snapshot, opts Options) models.Record {
	for i := range selected {
		selected[i].BasePrice = snap.ToBase(selected[i].Amount, selected[i].Currency)
	}

	// The representative price is the cheapest selected offer; in lowest
	// mode that is the only one left.
	rep, _ := LowestAvailable(selected)
	rec.LoungeTitle = rep.Title
	rec.Price = rep.Amount
	rec.Currency = rep.Currency
	rec.BasePrice = rep.BasePrice

	if opts.PriceMode == config.PriceModeAll {
		rec.Offers = selected
	} else {
		rec.Offers = nil
	}
	return rec
}
