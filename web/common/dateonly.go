package common

import (
	"encoding/json"
	"fmt"
	"time"
)

type DateOnly struct {
	time.Time
}

const dateLayout = "2006-01-02" // yyyy-MM-dd

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	// b is a quoted string like `"2025-10-29"`
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalParam(s)
}

// UnmarshalParam lets gin bind query and form values like ?desde=2025-10-29.
func (d *DateOnly) UnmarshalParam(s string) error {
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("fecha inválida %q, se espera AAAA-MM-DD", s)
	}

	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(dateLayout))
}
