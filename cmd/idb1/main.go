// idb1 reads and creates ICAO barcode datastructures ("NDB1").
//
// Usage:
//
//	idb1 enc [description.ini] [--private-key key.pem --certificate cert.pem]
//	idb1 dec [barcode.txt] [--certificate cert.pem] [--require-valid]
//
// Both subcommands read standard input when no file is given.
//
// Example:
//
//	idb1 enc passport.ini --private-key ds.key --certificate ds.crt | idb1 dec
package main

import (
	"os"

	"github.com/backkem/idb/cmd/idb1/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
