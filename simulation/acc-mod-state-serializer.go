package simulation

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// SaveAccumulativeModelState writes the metrics series as little-endian
// binary compressed with lz4:
//
//	int32 steps, int32 keys, keys x (int32 len, bytes), steps x keys x float64
func SaveAccumulativeModelState(path string, state *AccumulativeModelState) error {
	var buf bytes.Buffer

	steps := int32(len(state.Values))
	if steps == 0 {
		return fmt.Errorf("empty metrics series")
	}
	keys := int32(len(state.Keys))
	if keys == 0 {
		return fmt.Errorf("metrics series has no keys")
	}

	// dimensions
	binary.Write(&buf, binary.LittleEndian, steps)
	binary.Write(&buf, binary.LittleEndian, keys)

	for _, k := range state.Keys {
		binary.Write(&buf, binary.LittleEndian, int32(len(k)))
		buf.WriteString(k)
	}

	for i, row := range state.Values {
		if len(row) != len(state.Keys) {
			return fmt.Errorf("row %d has %d values for %d keys", i, len(row), len(state.Keys))
		}
		binary.Write(&buf, binary.LittleEndian, row)
	}

	// lz4
	var out bytes.Buffer
	w := lz4.NewWriter(&out)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return os.WriteFile(path, out.Bytes(), 0644)
}

// LoadAccumulativeModelState reads a file written by SaveAccumulativeModelState
func LoadAccumulativeModelState(path string) (*AccumulativeModelState, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lz4.NewReader(bytes.NewReader(raw))); err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	reader := bytes.NewReader(buf.Bytes())

	var steps, keys int32
	if err := binary.Read(reader, binary.LittleEndian, &steps); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.LittleEndian, &keys); err != nil {
		return nil, err
	}
	if steps < 0 || keys <= 0 {
		return nil, fmt.Errorf("corrupt header: %d steps, %d keys", steps, keys)
	}
	// each key takes at least its length prefix, each value 8 bytes
	if need := int64(keys)*4 + int64(steps)*int64(keys)*8; need > int64(reader.Len()) {
		return nil, fmt.Errorf("corrupt header: %d steps, %d keys need %d bytes, %d left", steps, keys, need, reader.Len())
	}

	state := &AccumulativeModelState{
		Keys:   make([]string, keys),
		Values: make([][]float64, steps),
	}
	for i := range state.Keys {
		var n int32
		if err := binary.Read(reader, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		if n < 0 || int(n) > reader.Len() {
			return nil, fmt.Errorf("corrupt key length %d", n)
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(reader, name); err != nil {
			return nil, err
		}
		state.Keys[i] = string(name)
	}

	for i := range state.Values {
		state.Values[i] = make([]float64, keys)
		if err := binary.Read(reader, binary.LittleEndian, state.Values[i]); err != nil {
			return nil, fmt.Errorf("reading step %d: %w", i, err)
		}
	}

	return state, nil
}
