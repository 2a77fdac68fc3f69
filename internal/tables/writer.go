package tables

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/snappy"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// codecFor maps a config codec name to a parquet compression codec.
func codecFor(name string) (parquet.WriterOption, error) {
	switch name {
	case "", "snappy":
		return parquet.Compression(&snappy.Codec{}), nil
	case "zstd":
		return parquet.Compression(&zstd.Codec{}), nil
	default:
		return nil, fmt.Errorf("unsupported parquet compression: %s", name)
	}
}

// Encode writes rows as a parquet file and returns its bytes.
func Encode[T any](rows []T, compression string) ([]byte, error) {
	codec, err := codecFor(compression)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf, codec)
	for off := 0; off < len(rows); {
		n, err := w.Write(rows[off:])
		if err != nil {
			return nil, fmt.Errorf("write parquet rows: %w", err)
		}
		off += n
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Checksum returns a sha256-prefixed hex digest of an encoded file,
// logged alongside uploads for downstream verification.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Decode reads all rows from a parquet file. Tests use this to verify
// what Encode produced.
func Decode[T any](data []byte) ([]T, error) {
	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}
	return rows, nil
}
