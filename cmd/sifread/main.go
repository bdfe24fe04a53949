// Command sifread loads csv, json, parquet and avro files into DataFrames and
// displays, counts, queries or converts them.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
