// Package avro reads and writes avro object container files
package avro
