package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"

	"github.com/backkem/idb/pkg/crypto"
	"github.com/backkem/idb/pkg/idb"
	"github.com/spf13/cobra"
)

// ErrSignatureNotValid is returned by dec --require-valid when the signature
// did not verify.
var ErrSignatureNotValid = errors.New("signature is not valid")

type decOptions struct {
	certificate  string
	requireValid bool
	output       string
}

func newDecCommand(root *rootOptions) *cobra.Command {
	opts := &decOptions{}

	cmd := &cobra.Command{
		Use:   "dec [barcode.txt]",
		Short: "Decode a barcode",
		Long: `Decode a barcode and print its structure.

The signature is verified with --certificate if given, otherwise with the
embedded signer certificate. A signature that does not verify is reported
on stderr; with --require-valid it also fails the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDec(cmd, args, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.certificate, "certificate", "c", "", "Verification certificate or public key file")
	cmd.Flags().BoolVar(&opts.requireValid, "require-valid", false, "Fail unless the signature verifies")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputYAML, "Output format (json, yaml)")

	return cmd
}

func runDec(cmd *cobra.Command, args []string, root *rootOptions, opts *decOptions) error {
	if err := checkOutput(opts.output, outputJSON, outputYAML); err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to read barcode: %w", err)
	}

	var parseOpts idb.ParseOptions
	if opts.certificate != "" {
		if parseOpts.PublicKey, err = loadPublicKey(opts.certificate); err != nil {
			return err
		}
	}

	codec := idb.NewCodec(idb.Config{LoggerFactory: root.loggerFactory(cmd.ErrOrStderr())})
	result, err := codec.Parse(bytes.TrimSpace(data), parseOpts)
	if err != nil {
		return err
	}

	if err := writeResult(cmd.OutOrStdout(), opts.output, result); err != nil {
		return err
	}

	if result.SignatureStatus == idb.SignatureInvalid {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: signature is invalid: %v\n", result.SignatureError)
	}
	if opts.requireValid && result.SignatureStatus != idb.SignatureValid {
		return fmt.Errorf("%w: %s", ErrSignatureNotValid, result.SignatureStatus)
	}
	return nil
}

func loadPublicKey(path string) (*ecdsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	pub, err := crypto.LoadPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate %s: %w", path, err)
	}
	return pub, nil
}
