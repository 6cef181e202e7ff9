// Command csv2xlsx converts a CSV file into a spreadsheet, streaming rows so
// arbitrarily large inputs convert in constant memory.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"unicode"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sheetstream/go-xlsw/xlsw"
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
	fs := flag.NewFlagSet("csv2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagEnc := fs.String("charset", defaultEncName(), "csv charset name")
	flagOut := fs.String("o", "", "output file name (default input file + .xlsx)")
	flagSheet := fs.String("sheet", "Sheet1", "sheet name")
	flagNoHeader := fs.Bool("no-header", false, "treat the first record as data, not column headers")

	app := ffcli.Command{Name: "csv2xlsx", FlagSet: fs,
		ShortUsage: "csv2xlsx [flags] input.csv",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			cr, err := openCsv(args[0], *flagEnc)
			if err != nil {
				return err
			}
			defer cr.Close()

			out := *flagOut
			if out == "" && args[0] != "" && args[0] != "-" {
				out = args[0] + ".xlsx"
			}
			var w io.Writer = os.Stdout
			if out != "" && out != "-" {
				fh, err := os.Create(out)
				if err != nil {
					return err
				}
				defer fh.Close()
				w = fh
			}

			d, err := xlsw.New(w, xlsw.WithAppName("csv2xlsx"))
			if err != nil {
				return err
			}
			defer d.Close()

			header, err := d.Styles().Add("Header", xlsw.StyleDef{
				Font: &xlsw.Font{Bold: true},
			})
			if err != nil {
				return err
			}
			if err = d.OpenSheet(*flagSheet); err != nil {
				return err
			}

			n := 0
			for {
				record, err := cr.Read()
				if err != nil {
					if err == io.EOF {
						break
					}
					return fmt.Errorf("read csv record %d: %w", n+1, err)
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				n++
				if n == 1 && !*flagNoHeader {
					if err = writeHeader(d, record, header); err != nil {
						return err
					}
					continue
				}
				if err = writeRecord(d, record); err != nil {
					return fmt.Errorf("row %d: %w", n, err)
				}
			}
			logger.Debug("converted", "rows", n, "output", out)

			if err = d.CloseSheet(); err != nil {
				return err
			}
			return d.Close()
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

func writeHeader(d *xlsw.Document, record []string, style int) error {
	if err := d.BeginRow(); err != nil {
		return err
	}
	for _, s := range record {
		if err := d.WriteString(s, xlsw.WithCellStyle(style)); err != nil {
			return err
		}
	}
	if err := d.EndRow(); err != nil {
		return err
	}
	last := xlsw.ColumnLetters(len(record))
	return d.SetAutoFilter("A1:" + last + "1")
}

// writeRecord emits one CSV record, keeping number-shaped fields numeric.
func writeRecord(d *xlsw.Document, record []string) error {
	if err := d.BeginRow(); err != nil {
		return err
	}
	for i, s := range record {
		var err error
		if f, perr := strconv.ParseFloat(s, 64); perr == nil && s != "" {
			err = d.WriteNumber(f)
		} else {
			err = d.WriteString(s)
		}
		if err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
	}
	return d.EndRow()
}

func defaultEncName() string {
	name := os.Getenv("LANG")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = strings.ToLower(name[i+1:])
	}
	if name == "" {
		name = "utf-8"
	}
	return name
}

func getEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

type csvReadCloser struct {
	*csv.Reader
	io.Closer
}

// openCsv opens fn ("" or "-" means stdin), decoding from encName and
// sniffing the field separator from the first kilobyte.
func openCsv(fn, encName string) (csvReadCloser, error) {
	enc, err := getEncoding(encName)
	if err != nil {
		return csvReadCloser{}, err
	}
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		if fh, err = os.Open(fn); err != nil {
			return csvReadCloser{}, err
		}
	}
	r := io.ReadCloser(fh)
	if enc != nil {
		r = struct {
			io.Reader
			io.Closer
		}{enc.NewDecoder().Reader(r), r}
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		return csvReadCloser{}, err
	}
	sep := rune(',')
	for _, r := range string(b) {
		if r == '"' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		sep = r
		break
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	return csvReadCloser{cr, r}, nil
}
