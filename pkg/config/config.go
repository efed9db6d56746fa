// Package config loads barcode descriptions from INI text.
//
// A description is a list of section-less keys:
//
//	signed = true
//	compressed = false
//	country_identifier = US
//	signature_algorithm = sha256
//	include_certificate = true
//	mrz_td1 = I<USA...
//	mrz_td3 = P<USA...
//	can = 123456
//	photo = face.jpg
//
// Only country_identifier is required. The photo value is a file path;
// relative paths resolve against the directory of the description.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/backkem/idb/pkg/idb"
	"gopkg.in/ini.v1"
)

// Description keys.
const (
	KeySigned             = "signed"
	KeyCompressed         = "compressed"
	KeyCountryIdentifier  = "country_identifier"
	KeySignatureAlgorithm = "signature_algorithm"
	KeyIncludeCertificate = "include_certificate"
	KeyMRZTD1             = "mrz_td1"
	KeyMRZTD3             = "mrz_td3"
	KeyCAN                = "can"
	KeyPhoto              = "photo"
)

// computedKeys are header and trailer values derived while building. They
// cannot be supplied by a description.
var computedKeys = map[string]bool{
	"certificate_reference":   true,
	"signature_creation_date": true,
	"signer_certificate":      true,
	"signature_data":          true,
}

var knownKeys = map[string]bool{
	KeySigned:             true,
	KeyCompressed:         true,
	KeyCountryIdentifier:  true,
	KeySignatureAlgorithm: true,
	KeyIncludeCertificate: true,
	KeyMRZTD1:             true,
	KeyMRZTD3:             true,
	KeyCAN:                true,
	KeyPhoto:              true,
}

// Description errors
var (
	ErrSyntax        = errors.New("config: malformed description")
	ErrUnknownKey    = errors.New("config: unknown key")
	ErrComputedValue = errors.New("config: value is computed at build time")
	ErrInvalidBool   = errors.New("config: invalid boolean")
	ErrPhoto         = errors.New("config: cannot read photo")
)

// Description is a barcode to build.
type Description struct {
	Flags idb.Flags

	// Algorithm is the signature_algorithm value, empty if not given.
	Algorithm string

	// IncludeCertificate requests the signer certificate be embedded.
	IncludeCertificate bool

	Block idb.SignableBlock
}

// Options controls how a description is loaded.
type Options struct {
	// BaseDir resolves a relative photo path. Empty means the working
	// directory.
	BaseDir string

	// ReadFile reads the photo file. If nil, os.ReadFile is used.
	ReadFile func(name string) ([]byte, error)
}

// LoadFile reads the description at path. A relative photo path resolves
// against the directory of path.
func LoadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data, Options{BaseDir: filepath.Dir(path)})
}

// Load parses a description.
//
// Problems with the description are reported as *idb.ConfigError naming the
// offending key.
func Load(data []byte, opts Options) (*Description, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	if err := checkKeys(f); err != nil {
		return nil, err
	}

	sec := f.Section("")
	d := &Description{}

	if d.Flags.Signed, err = boolKey(sec, KeySigned); err != nil {
		return nil, err
	}
	if d.Flags.Compressed, err = boolKey(sec, KeyCompressed); err != nil {
		return nil, err
	}
	if d.IncludeCertificate, err = boolKey(sec, KeyIncludeCertificate); err != nil {
		return nil, err
	}

	if d.Algorithm = sec.Key(KeySignatureAlgorithm).String(); d.Algorithm != "" {
		if _, err := idb.ParseSignatureAlgorithm(d.Algorithm); err != nil {
			return nil, &idb.ConfigError{Option: KeySignatureAlgorithm, Err: err}
		}
	}

	country := sec.Key(KeyCountryIdentifier).String()
	if country == "" {
		return nil, &idb.ConfigError{Option: KeyCountryIdentifier, Err: idb.ErrMissingCountry}
	}
	d.Block.Header.CountryIdentifier = country

	d.Block.Fields.MRZTD1 = sec.Key(KeyMRZTD1).String()
	d.Block.Fields.MRZTD3 = sec.Key(KeyMRZTD3).String()
	d.Block.Fields.CAN = sec.Key(KeyCAN).String()

	if path := sec.Key(KeyPhoto).String(); path != "" {
		if d.Block.Fields.Photo, err = readPhoto(path, opts); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// BuildOptions returns the options of d without key material.
func (d *Description) BuildOptions() idb.BuildOptions {
	return idb.BuildOptions{
		Flags:              d.Flags,
		Algorithm:          d.Algorithm,
		IncludeCertificate: d.IncludeCertificate,
	}
}

// checkKeys rejects sections, computed values and unknown keys. The first
// offending key in name order is reported.
func checkKeys(f *ini.File) error {
	for _, sec := range f.Sections() {
		names := sec.KeyStrings()
		sort.Strings(names)
		for _, name := range names {
			switch {
			case sec.Name() != ini.DefaultSection:
				return &idb.ConfigError{Option: sec.Name() + "." + name, Err: ErrUnknownKey}
			case computedKeys[name]:
				return &idb.ConfigError{Option: name, Err: ErrComputedValue}
			case !knownKeys[name]:
				return &idb.ConfigError{Option: name, Err: ErrUnknownKey}
			}
		}
	}
	return nil
}

func boolKey(sec *ini.Section, name string) (bool, error) {
	if !sec.HasKey(name) {
		return false, nil
	}
	v, err := sec.Key(name).Bool()
	if err != nil {
		return false, &idb.ConfigError{Option: name, Err: fmt.Errorf("%w: %q", ErrInvalidBool, sec.Key(name).String())}
	}
	return v, nil
}

func readPhoto(path string, opts Options) ([]byte, error) {
	if !filepath.IsAbs(path) && opts.BaseDir != "" {
		path = filepath.Join(opts.BaseDir, path)
	}
	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	data, err := readFile(path)
	if err != nil {
		return nil, &idb.ConfigError{Option: KeyPhoto, Err: fmt.Errorf("%w: %v", ErrPhoto, err)}
	}
	return data, nil
}
