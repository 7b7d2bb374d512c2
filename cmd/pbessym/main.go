// Command pbessym detects symmetries within a PBES model file. Given a
// permutation it checks that single permutation; otherwise it runs full
// discovery and prints the first verified symmetry.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/symlab/pbessym"
	"github.com/symlab/pbessym/perm"
	"github.com/symlab/pbessym/quotient"
	"github.com/symlab/pbessym/srf"
)

var (
	permText string
	gapPath  string
	verbose  bool

	rootCmd = &cobra.Command{
		Use:   "pbessym [flags] MODEL",
		Short: "Determines symmetries within a given PBES",
		Long: `Detects symmetries within the PBES model in MODEL and writes the result
to stdout. MODEL is a YAML document holding the equation system in simple
recursive form together with its control flow graphs; use - for stdin.`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&permText, "permutation", "y", "",
		"check whether PERMUTATION (e.g. \"[0->1, 1->0]\") is a symmetry for the PBES")
	rootCmd.Flags().StringVar(&gapPath, "gap", "",
		"path to the GAP binary; reduces the initial instantiation to the minimal representative of its orbit under the verified symmetry")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"narrate the search phases on stderr")
}

func main() {
	color.NoColor = color.NoColor ||
		(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pbessym: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// A malformed permutation aborts before any search begins.
	var pi perm.Permutation
	if permText != "" {
		var err error
		pi, err = perm.Parse(permText)
		if err != nil {
			return err
		}
	}

	model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	sym, err := pbessym.New(model)
	if err != nil {
		return err
	}
	if verbose {
		sym.Logf = func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	yes := color.New(color.FgGreen)
	no := color.New(color.FgRed)

	if permText != "" && pi.Len() > 0 {
		if sym.CheckPermutation(pi) {
			yes.Fprintln(cmd.OutOrStdout(), "true")
			return reduceInit(cmd, sym, pi)
		}
		no.Fprintln(cmd.OutOrStdout(), "false")
		return nil
	}

	found, ok := sym.Run()
	if !ok {
		no.Fprintln(cmd.OutOrStdout(), "No symmetry found.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Found symmetry: %s\n", yes.Sprint(found))
	return reduceInit(cmd, sym, found)
}

// reduceInit hands the initial instantiation to the group-theory engine
// and prints its minimal orbit representative. Without --gap, or when the
// model declares no initial instantiation, this is a no-op.
func reduceInit(cmd *cobra.Command, sym *pbessym.Symmetry, pi perm.Permutation) error {
	init := sym.PBES().Init
	if gapPath == "" || init.Name == "" {
		return nil
	}
	eng, err := quotient.Start(pi, len(sym.PBES().Parameters), gapPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	reduced, err := eng.Apply(init)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Canonical initial instantiation: %s\n", reduced)
	return nil
}

func loadModel(path string) (*srf.Model, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	m, err := srf.Load(r)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	return m, nil
}
