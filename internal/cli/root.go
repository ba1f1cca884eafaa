// Package cli implements lotmatch, an offline runner for the matcher and the
// clusterer over a lot spreadsheet.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/fileio"
)

type lotFlags struct {
	path       string
	contentCol string
	amountCol  string
	headerRow  int
	threshold  float64
}

func (f *lotFlags) register(cmd *cobra.Command, defThreshold float64) {
	fl := cmd.Flags()
	fl.StringVarP(&f.path, "lots", "l", "", "lot list (.csv, .tsv, .xls, .xlsx or .txt, one lot per line)")
	fl.StringVar(&f.contentCol, "content-col", "", "lot text column; alternatives via | (default: "+fileio.DefaultContentColumns+")")
	fl.StringVar(&f.amountCol, "amount-col", "", "amount column; alternatives via |")
	fl.IntVar(&f.headerRow, "header-row", 1, "1-based header row")
	fl.Float64VarP(&f.threshold, "threshold", "t", defThreshold, "similarity threshold in [0, 1]")
	_ = cmd.MarkFlagRequired("lots")
}

func (f *lotFlags) validate() error {
	if f.threshold < 0 || f.threshold > 1 {
		return invalidArgsError(
			fmt.Sprintf("--threshold %.2f is outside [0, 1]", f.threshold),
			"lotmatch match --lots lots.csv --threshold 0.5 \"сообщение\"",
		)
	}
	if f.headerRow < 1 {
		return invalidArgsError("--header-row is 1-based")
	}
	return nil
}

// load читает лоты; id — номер строки в файле, начиная с 1.
func (f *lotFlags) load() ([]model.Lot, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, inputError(f.path, err)
	}
	defer file.Close()

	rows, err := fileio.ReadLots(file, f.path, fileio.LotMapping{
		ContentKey: f.contentCol,
		AmountKey:  f.amountCol,
		HeaderRow:  f.headerRow,
	})
	if err != nil {
		return nil, inputError(f.path, err)
	}
	lots := make([]model.Lot, len(rows))
	for i, r := range rows {
		lots[i] = model.NewLot(i+1, r.Content, r.Amount)
	}
	return lots, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lotmatch",
		Short: "Match donation messages to auction lots offline",
		Long: "lotmatch runs the donation matcher and the similar-lot clusterer against a lot\n" +
			"list exported from a spreadsheet. Output is JSON on stdout.",
		Example: `  lotmatch match --lots lots.csv "на сигму"
  lotmatch match --lots lots.xlsx --header-row 2 - < messages.txt
  lotmatch group --lots lots.csv --threshold 0.6`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newMatchCmd(), newGroupCmd())
	return root
}

func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Run executes lotmatch with args and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		cliErr := classify(err)
		fmt.Fprintln(stderr, cliErr.text())
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
