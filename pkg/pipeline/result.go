package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

// MarshalResult encodes a result as indented JSON.
func MarshalResult(res *Result) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

// WriteResultFile writes a result as JSON to path.
func WriteResultFile(res *Result, path string) error {
	data, err := MarshalResult(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadResultFile loads a result written by [WriteResultFile]. Durations are
// restored from their millisecond fields.
func ReadResultFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, lerrors.Wrap(lerrors.ErrCodeNotFound, err, "result file %s", path)
	}
	if err != nil {
		return nil, err
	}
	res, err := UnmarshalResult(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

// UnmarshalResult decodes a result encoded by [MarshalResult].
func UnmarshalResult(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode result")
	}
	res.TotalExecutionTime = fromMillis(res.TotalExecutionTimeMs)
	for i := range res.Diagnostics {
		res.Diagnostics[i].ExecutionTime = fromMillis(res.Diagnostics[i].ExecutionTimeMs)
	}
	return &res, nil
}

func fromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
