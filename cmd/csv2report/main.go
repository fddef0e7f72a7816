// Copyright 2021, 2026 Tamás Gulácsi. All rights reserved.

// Command csv2report builds a report workbook from CSV files.
//
//	csv2report -o report.xlsx [-intro intro.txt] [-chart label,value] sheet:title=file.csv ...
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/UNO-SOFT/xlreport"
	"github.com/UNO-SOFT/xlreport/chart"
	"github.com/UNO-SOFT/xlreport/pdf"
	"github.com/UNO-SOFT/xlreport/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return run(ctx, os.Args[1:])
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("csv2report", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagEnc := fs.String("charset", xlreport.EncName, "csv charset name")
	flagOut := fs.String("o", "", "output file name (.xlsx or .ods)")
	flagIntro := fs.String("intro", "", "file with the introduction lines")
	flagNumbers := fs.Bool("numbers", true, "convert number-looking cells to numbers")
	flagChart := fs.String("chart", "", "label,value columns of a bar chart after each table")
	flagNoCharts := fs.Bool("no-charts", false, "do not place images (charts and files)")
	flagPDF := fs.String("pdf", "", "also print the report to this PDF file")
	flagLandscape := fs.Bool("L", false, "landscape PDF orientation (default: portrait)")
	flagMaxWidth := fs.Float64("max-width", 50, "maximum column width")
	_ = fs.String("config", "", "config file (flag value pairs)")

	app := ffcli.Command{Name: "csv2report", FlagSet: fs,
		ShortUsage: "csv2report -o report.xlsx [flags] [sheet:][title=]file.csv ...",
		Options: []ff.Option{
			ff.WithEnvVarPrefix("CSV2REPORT"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
		},
		Exec: func(ctx context.Context, args []string) error {
			if *flagOut == "" {
				return errors.New("output file name (-o) is required")
			}
			if len(args) == 0 {
				return flag.ErrHelp
			}
			var rep xlreport.Report
			for _, arg := range args {
				if err := ctx.Err(); err != nil {
					return err
				}
				sheetName, title, fn := parseArg(arg)
				t, err := xlreport.ReadCSV(fn, *flagEnc, *flagNumbers)
				if err != nil {
					return fmt.Errorf("%q: %w", fn, err)
				}
				s := rep.Sheet(sheetName)
				if s == nil {
					s = rep.AddSheet(sheetName)
				}
				s.AddTable(title, t)
				logger.Debug("read", "file", fn, "sheet", sheetName, "title", title, "rows", len(t.Rows))
			}
			var intro []string
			if *flagIntro != "" {
				var err error
				if intro, err = readLines(*flagIntro); err != nil {
					return err
				}
			}
			var imageFuncs map[string]xlreport.ImageFunc
			if *flagChart != "" {
				labelCol, valueCol, ok := strings.Cut(*flagChart, ",")
				if !ok {
					return fmt.Errorf("-chart=%q: wanted label,value", *flagChart)
				}
				fn := barChart(labelCol, valueCol)
				imageFuncs = make(map[string]xlreport.ImageFunc, len(rep.Sheets))
				for _, s := range rep.Sheets {
					imageFuncs[s.Name] = fn
				}
			}

			opts := xlsx.DefaultOptions()
			opts.MaxColumnWidth = *flagMaxWidth
			opts.DisableCharts = *flagNoCharts
			opts.Logger = logger
			if err := xlsx.Generate(*flagOut, rep, intro, imageFuncs, opts); err != nil {
				return err
			}
			if *flagPDF == "" {
				return nil
			}
			b, err := pdf.Render(rep, intro, imageFuncs, pdf.Options{
				Landscape:     *flagLandscape,
				DisableCharts: *flagNoCharts,
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			return os.WriteFile(*flagPDF, b, 0o644)
		},
	}

	if err := app.Parse(args); err != nil {
		return err
	}
	return app.Run(ctx)
}

// parseArg splits "sheet:title=file.csv"; both sheet and title default to the
// file's base name without the .csv suffix.
func parseArg(arg string) (sheetName, title, fn string) {
	fn = arg
	if i := strings.IndexByte(fn, ':'); i >= 0 {
		sheetName, fn = fn[:i], fn[i+1:]
	}
	if i := strings.IndexByte(fn, '='); i >= 0 {
		title, fn = fn[:i], fn[i+1:]
	}
	base := strings.TrimSuffix(filepath.Base(fn), ".csv")
	if fn == "" || fn == "-" {
		base = "Sheet1"
	}
	if sheetName == "" {
		sheetName = base
	}
	if title == "" {
		title = base
	}
	return sheetName, title, fn
}

func readLines(fn string) ([]string, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var lines []string
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func barChart(labelCol, valueCol string) xlreport.ImageFunc {
	return func(t xlreport.Table, title string) ([]xlreport.Image, error) {
		b, err := chart.BarFromTable(t, title, labelCol, valueCol)
		if err != nil {
			return nil, err
		}
		return []xlreport.Image{xlreport.ChartImage{Chart: b}}, nil
	}
}
