package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/Aashish23092/paystub-extraction/client"
	"github.com/Aashish23092/paystub-extraction/config"
	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/service"
)

type options struct {
	inputs   []string
	password string
	strategy dto.Strategy
	asJSON   bool
	out      string
	workbook string
	tessdata string
	ocr      bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var ocr service.OCR
	if opts.ocr {
		tc := client.NewTesseractClient(opts.tessdata)
		defer tc.Close()
		ocr = tc
	}
	svc := service.NewPaystubService(ocr, service.NewPDFProcessor(), nil, service.Options{
		MaxFileSize: config.DefaultMaxFileSize,
		Strategy:    opts.strategy,
		OCREnabled:  opts.ocr,
	})

	if err := run(context.Background(), svc, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	fs := pflag.NewFlagSet("paystub", pflag.ContinueOnError)
	inputs := fs.StringArrayP("in", "i", nil, "Pay stub file to parse (repeatable)")
	password := fs.String("password", "", "Password for encrypted PDFs")
	strategy := fs.String("strategy", string(dto.StrategyAuto), "Extraction strategy: auto, positional or regex")
	asJSON := fs.Bool("json", false, "Print full results as JSON")
	out := fs.StringP("out", "o", "", "Write an xlsx report to this path")
	workbook := fs.String("workbook", "", "Existing xlsx report to extend (requires --out)")
	tessdata := fs.String("tessdata", config.DefaultTessdata, "Tesseract tessdata directory")
	ocr := fs.Bool("ocr", true, "OCR scanned pages and images")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: paystub --in stub.pdf [--in more.pdf] [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &options{
		inputs:   append(*inputs, fs.Args()...),
		password: *password,
		asJSON:   *asJSON,
		out:      *out,
		workbook: *workbook,
		tessdata: *tessdata,
		ocr:      *ocr,
	}
	if len(opts.inputs) == 0 {
		return nil, errors.New("at least one --in file is required")
	}
	if opts.workbook != "" && opts.out == "" {
		return nil, errors.New("--workbook requires --out")
	}

	s, err := dto.ParseStrategy(*strategy)
	if err != nil {
		return nil, err
	}
	opts.strategy = s
	return opts, nil
}

func run(ctx context.Context, svc *service.PaystubService, opts *options, w io.Writer) error {
	reqs := make([]*dto.ParseRequest, 0, len(opts.inputs))
	for _, path := range opts.inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		reqs = append(reqs, &dto.ParseRequest{
			Filename: filepath.Base(path),
			Data:     data,
			Password: opts.password,
			Strategy: opts.strategy,
		})
	}

	var batch *dto.BatchResponse
	if opts.out != "" {
		var existing []byte
		if opts.workbook != "" {
			var err error
			if existing, err = os.ReadFile(opts.workbook); err != nil {
				return fmt.Errorf("failed to read workbook: %w", err)
			}
		}
		book, b, err := svc.BuildReport(ctx, existing, reqs)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.out, book, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		batch = b
	} else {
		batch = svc.ParseBatch(ctx, reqs)
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	}
	return printSummary(w, batch)
}

func printSummary(w io.Writer, batch *dto.BatchResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tPAY DATE\tGROSS\tNET PAY\tSTRATEGY\tBALANCED")
	for _, r := range batch.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			r.Filename, r.Fields["regularPayRoll"], r.Fields["gross"], r.Fields["netPay"], r.Strategy, r.Reconciliation.Balanced)
	}
	for _, f := range batch.Failures {
		fmt.Fprintf(tw, "%s\tFAILED: %s\n", f.Filename, f.Error)
	}
	return tw.Flush()
}
