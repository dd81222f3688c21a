package fileutil

import (
	"encoding/json"
	"os"
)

func PrintJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// EncodeJSON marshals value with two-space indentation and a trailing
// newline, the canonical form for every artifact this tool persists.
func EncodeJSON(value any) ([]byte, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
