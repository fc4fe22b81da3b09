package model

import "github.com/vmihailenco/msgpack/v5"

// DumpSnapshot encodes a snapshot for transfer to a renderer
func DumpSnapshot(s *Snapshot) ([]byte, error) {
	return msgpack.Marshal(s)
}

// LoadSnapshot decodes a snapshot produced by DumpSnapshot
func LoadSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
