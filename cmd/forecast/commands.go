package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"price-forecast/internal/app"
	"price-forecast/internal/backfill"
	"price-forecast/internal/model"
	"price-forecast/internal/stockdata"
)

func runBackfill(cmd *cobra.Command, args []string) error {
	pause, err := time.ParseDuration(backfillPause)
	if err != nil {
		return fmt.Errorf("bad --pause: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := app.Build(ctx, cfg, zl, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	if a.Store == nil {
		return errors.New("store.sqlite_path is not usable")
	}

	symbols := args
	if len(symbols) == 0 {
		symbols = a.Stocks.Symbols()
	}

	fetcher := stockdata.NewYahooFetcher(cfg.Yahoo.BaseURL, cfg.Yahoo.Proxy, cfg.Yahoo.Timeout)
	results, err := backfill.Run(ctx, fetcher, a.Store, symbols, backfill.Options{
		Mode:          backfillMode,
		Years:         cfg.Forecast.HistoryYears,
		RetryCount:    backfillRetry,
		RetryInterval: 10 * time.Second,
		Pause:         pause,
	}, zl)

	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tBARS\tFROM\tATTEMPTS\tERROR")
	failed := 0
	for _, r := range results {
		msg := ""
		if r.Err != nil {
			failed++
			msg = r.Err.Error()
		}
		p.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", r.Symbol, r.Bars, r.From.Format(model.DateLayout), r.Attempts, msg)
	}
	w.Flush()
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(results))
	}
	return nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	days := predictDays
	if days == 0 {
		days = cfg.Forecast.DefaultDaysAhead
	}

	ctx := cmd.Context()
	if t := cfg.Server.RequestTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	a, err := app.Build(ctx, cfg, zl, app.Options{Offline: predictOffline, Lookback: predictLookback})
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.Predictor.Predict(ctx, args[0], days)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()
	info := resp.StockInfo
	title := info.Symbol
	if info.Name != "" {
		title = fmt.Sprintf("%s (%s)", info.Name, info.Symbol)
	}
	p.Fprintf(out, "%s: %d data points, %s to %s\n\n", title, info.DataPoints, info.StartDate, info.EndDate)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "DATE\tPREDICTED CLOSE\t")
	for _, item := range resp.Predictions {
		p.Fprintf(w, "%s\t%.2f\t\n", item.Date, item.PredictedClose)
	}
	return w.Flush()
}

func runStocks(cmd *cobra.Command, args []string) error {
	keyword := ""
	if len(args) > 0 {
		keyword = args[0]
	}
	stocks := stockdata.NewStockList(cfg.Stocks).SearchStocks(keyword)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tTICKER\tNAME")
	for _, s := range stocks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Symbol, s.Ticker, s.Name)
	}
	return w.Flush()
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := app.Build(cmd.Context(), cfg, zl, app.Options{Offline: true})
	if err != nil {
		return err
	}
	defer a.Close()

	sums, err := a.Store.Summaries(cmd.Context())
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tBARS\tFIRST\tLAST")
	total := 0
	for _, s := range sums {
		total += s.Bars
		p.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Symbol, s.Bars, s.First.Format(model.DateLayout), s.Last.Format(model.DateLayout))
	}
	p.Fprintf(w, "TOTAL\t%d\t\t\n", total)
	return w.Flush()
}
