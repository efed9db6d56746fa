package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/backkem/idb/pkg/config"
	"github.com/backkem/idb/pkg/crypto"
	"github.com/backkem/idb/pkg/idb"
	"github.com/spf13/cobra"
)

type encOptions struct {
	privateKey         string
	certificate        string
	includeCertificate bool
	output             string
}

func newEncCommand(root *rootOptions) *cobra.Command {
	opts := &encOptions{}

	cmd := &cobra.Command{
		Use:   "enc [description.ini]",
		Short: "Build a barcode from an INI description",
		Long: `Build a barcode from an INI description.

Signed barcodes need --private-key and --certificate (DER or PEM). The
certificate reference and signing date are computed from them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnc(cmd, args, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.privateKey, "private-key", "k", "", "Signer private key file (SEC1 or PKCS#8)")
	cmd.Flags().StringVarP(&opts.certificate, "certificate", "c", "", "Signer certificate file (X.509 or public key)")
	cmd.Flags().BoolVar(&opts.includeCertificate, "include-certificate", false, "Embed the signer certificate (overrides the description)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "Output format (text, json, yaml)")

	return cmd
}

func runEnc(cmd *cobra.Command, args []string, root *rootOptions, opts *encOptions) error {
	if err := checkOutput(opts.output, outputText, outputJSON, outputYAML); err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}

	var loadOpts config.Options
	if len(args) > 0 && args[0] != "-" {
		loadOpts.BaseDir = filepath.Dir(args[0])
	}
	desc, err := config.Load(data, loadOpts)
	if err != nil {
		return err
	}

	buildOpts := desc.BuildOptions()
	if cmd.Flags().Changed("include-certificate") {
		buildOpts.IncludeCertificate = opts.includeCertificate
	}
	if desc.Flags.Signed {
		if err := loadSigningMaterial(&buildOpts, opts); err != nil {
			return err
		}
	}

	codec := idb.NewCodec(idb.Config{LoggerFactory: root.loggerFactory(cmd.ErrOrStderr())})
	barcode, err := codec.Build(desc.Block, buildOpts)
	if err != nil {
		return err
	}

	return writeBarcode(cmd.OutOrStdout(), opts.output, barcode)
}

// loadSigningMaterial reads the key files named by the flags. Missing flags
// are left for the codec to report.
func loadSigningMaterial(buildOpts *idb.BuildOptions, opts *encOptions) error {
	if opts.privateKey != "" {
		data, err := os.ReadFile(opts.privateKey)
		if err != nil {
			return fmt.Errorf("failed to read private key: %w", err)
		}
		if buildOpts.PrivateKey, err = crypto.LoadPrivateKey(data); err != nil {
			return fmt.Errorf("failed to load private key %s: %w", opts.privateKey, err)
		}
	}
	if opts.certificate != "" {
		data, err := os.ReadFile(opts.certificate)
		if err != nil {
			return fmt.Errorf("failed to read certificate: %w", err)
		}
		buildOpts.Certificate = data
	}
	return nil
}
