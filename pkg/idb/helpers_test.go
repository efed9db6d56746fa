package idb

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"strings"
	"testing"
	"time"
)

// fixedNow is the signing date used by test codecs.
var fixedNow = time.Date(2025, time.October, 2, 12, 0, 0, 0, time.UTC)

func newTestCodec() *Codec {
	return NewCodec(Config{Now: func() time.Time { return fixedNow }})
}

// testSigner is a P-256 key with a self-signed certificate.
type testSigner struct {
	key         *ecdsa.PrivateKey
	certificate []byte
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "Document Signer", Country: []string{"US"}},
		NotBefore:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:     time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("CreateCertificate failed: %v", err)
	}
	return &testSigner{key: priv, certificate: der}
}

func (s *testSigner) buildOptions(flags Flags) BuildOptions {
	return BuildOptions{
		Flags:              flags,
		PrivateKey:         s.key,
		Certificate:        s.certificate,
		IncludeCertificate: true,
	}
}

// mrz pads each line with '<' to width and joins them.
func mrz(width int, lines ...string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString(strings.Repeat("<", width-len(line)))
	}
	return sb.String()
}

var (
	testMRZTD1 = mrz(30,
		"P<USDOE<<JOHN",
		"8001014M3001012USA",
		"DOE<<JOHN<EDWARD",
	)
	testMRZTD3 = mrz(44,
		"P<UTOERIKSSON<<ANNA<MARIA",
		"L898902C36UTO7408122F1204159ZE184226B<<<<<10",
	)
)

func testBlock() SignableBlock {
	return SignableBlock{
		Header: Header{CountryIdentifier: "US"},
		Fields: FieldSet{
			MRZTD1: testMRZTD1,
			CAN:    "123456",
			Photo:  []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'},
		},
	}
}
