package apiclient

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"rwooga-storefront/internal/domain"
)

// ID is a resource identifier the remote API may send as a number or string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(s)
	return nil
}

// MarshalJSON emits numeric ids as JSON numbers, which the remote API expects
// in request bodies.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Amount is a price in whole currency units. The remote API may send it as a
// number or a decimal string ("15000.00"); fractions are rounded. Negative,
// non-finite and implausibly large values are rejected.
type Amount int64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if s == "" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	if math.IsNaN(f) || f < 0 || f > float64(domain.MaxPrice) {
		return fmt.Errorf("amount %q: out of range", s)
	}
	*a = Amount(math.Round(f))
	return nil
}

// Label is a display value the remote API may send as a string, a number or
// an object carrying a name.
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Name     string `json:"name"`
			FullName string `json:"full_name"`
			Slug     string `json:"slug"`
			ID       ID     `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		for _, v := range []string{obj.Name, obj.FullName, obj.Slug, string(obj.ID)} {
			if v != "" {
				*l = Label(v)
				return nil
			}
		}
		*l = ""
		return nil
	}
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("label: %w", err)
	}
	*l = Label(s)
	return nil
}

func scalarString(data []byte) (string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// listPage is the paginated envelope some list endpoints return.
type listPage[T any] struct {
	Results []T `json:"results"`
}

func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []T{}, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var page listPage[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []T{}, nil
	}
	return page.Results, nil
}
