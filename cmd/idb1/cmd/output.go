package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/backkem/idb/pkg/idb"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func checkOutput(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// document is the printed form of a decoded barcode. Binary values are hex.
type document struct {
	Flags     flagsDocument     `json:"flags" yaml:"flags"`
	Content   contentDocument   `json:"content" yaml:"content"`
	Signature signatureDocument `json:"signature" yaml:"signature"`
}

type flagsDocument struct {
	Signed     bool `json:"signed" yaml:"signed"`
	Compressed bool `json:"compressed" yaml:"compressed"`
}

type contentDocument struct {
	Header            headerDocument  `json:"header" yaml:"header"`
	Message           messageDocument `json:"message" yaml:"message"`
	SignerCertificate string          `json:"signer_certificate,omitempty" yaml:"signer_certificate,omitempty"`
	SignatureData     string          `json:"signature_data,omitempty" yaml:"signature_data,omitempty"`
}

type headerDocument struct {
	CountryIdentifier     string `json:"country_identifier" yaml:"country_identifier"`
	SignatureAlgorithm    string `json:"signature_algorithm,omitempty" yaml:"signature_algorithm,omitempty"`
	CertificateReference  string `json:"certificate_reference,omitempty" yaml:"certificate_reference,omitempty"`
	SignatureCreationDate string `json:"signature_creation_date,omitempty" yaml:"signature_creation_date,omitempty"`
}

type messageDocument struct {
	MRZTD1 string `json:"mrz_td1,omitempty" yaml:"mrz_td1,omitempty"`
	MRZTD3 string `json:"mrz_td3,omitempty" yaml:"mrz_td3,omitempty"`
	CAN    string `json:"can,omitempty" yaml:"can,omitempty"`
	Photo  string `json:"photo,omitempty" yaml:"photo,omitempty"`
}

type signatureDocument struct {
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newDocument(r *idb.Result) *document {
	msg := r.Message
	doc := &document{
		Flags: flagsDocument{Signed: r.Flags.Signed, Compressed: r.Flags.Compressed},
		Content: contentDocument{
			Header: headerDocument{CountryIdentifier: msg.Header.CountryIdentifier},
			Message: messageDocument{
				MRZTD1: msg.Fields.MRZTD1,
				MRZTD3: msg.Fields.MRZTD3,
				CAN:    msg.Fields.CAN,
				Photo:  hex.EncodeToString(msg.Fields.Photo),
			},
			SignerCertificate: hex.EncodeToString(msg.SignerCertificate),
			SignatureData:     hex.EncodeToString(msg.Signature),
		},
		Signature: signatureDocument{Status: r.SignatureStatus.String()},
	}
	if sig := msg.Header.Signature; sig != nil {
		doc.Content.Header.SignatureAlgorithm = sig.Algorithm.String()
		doc.Content.Header.CertificateReference = hex.EncodeToString(sig.CertificateReference[:])
		doc.Content.Header.SignatureCreationDate = sig.CreationDate
	}
	if r.SignatureError != nil {
		doc.Signature.Error = r.SignatureError.Error()
	}
	return doc
}

func writeResult(w io.Writer, format string, r *idb.Result) error {
	return encode(w, format, newDocument(r))
}

func writeBarcode(w io.Writer, format string, barcode []byte) error {
	if format == outputText {
		_, err := fmt.Fprintln(w, string(barcode))
		return err
	}
	return encode(w, format, map[string]string{"barcode": string(barcode)})
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case outputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
