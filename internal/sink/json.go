package sink

import (
	"encoding/json"
	"io"

	"housemembers/internal/models"
)

// WriteJSON writes members as an indented JSON array with optional fields inlined.
func WriteJSON(w io.Writer, members []models.Member) error {
	if members == nil {
		members = []models.Member{}
	}

	data, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return err
	}

	data = append(data, '\n')

	_, err = w.Write(data)

	return err
}
