// Package cmd implements the idb1 command line.
package cmd

import (
	"io"
	"os"

	"github.com/pion/logging"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags.
type rootOptions struct {
	verbose bool
}

// loggerFactory returns the factory for the codec. Verbose output raises
// the level to debug; otherwise PION_LOG_* environment settings apply.
func (o *rootOptions) loggerFactory(w io.Writer) logging.LoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	f.Writer = w
	if o.verbose {
		f.DefaultLogLevel = logging.LogLevelDebug
	}
	return f
}

// NewRootCommand creates the idb1 command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "idb1",
		Short: "Read or create ICAO barcode datastructures",
		Long: `Reads or creates barcodes compliant with the ICAO Datastructure for Barcode.

'enc' builds a barcode from an INI description; 'dec' decodes a barcode and
reports the signature status. Input is read from a file or standard input.`,
		Version:      "1.0.0",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(newEncCommand(opts))
	root.AddCommand(newDecCommand(opts))
	return root
}

// Execute runs the idb1 command line.
func Execute() error {
	return NewRootCommand().Execute()
}

// readInput reads the named file, or standard input when args is empty.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
