// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"tkfalign/internal/jsonlutil"
	"tkfalign/pkg/api"
)

// StartBatchJSONLWriter streams each batch result as one JSON line (v1).
func StartBatchJSONLWriter(out io.Writer, bufSize int) (chan<- api.BatchResultV1, <-chan error) {
	return jsonlutil.Start[api.BatchResultV1](out, bufSize,
		func(enc *json.Encoder, r api.BatchResultV1) error {
			return enc.Encode(r)
		},
		IsBrokenPipe,
	)
}
