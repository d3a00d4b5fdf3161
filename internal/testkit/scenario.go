package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one HTTP request and what its response must contain. A
// scenario file holds a JSON array of them, run in order against the same
// handler so later steps see earlier writes:
//
//	[
//	  {
//	    "name": "add to cart",
//	    "as": "shopper",
//	    "requestMethod": "POST",
//	    "requestUrl": "/api/cart-items",
//	    "body": {"product_id": "{{product}}", "quantity": 2},
//	    "expectedCode": 201,
//	    "expect": {"data.quantity": 2}
//	  }
//	]
//
// "{{name}}" placeholders in the URL and body are replaced from the vars
// passed to RunFile. A quoted placeholder that is the whole JSON string is
// replaced with the raw value, so ids stay numbers.
type Scenario struct {
	Name          string                 `json:"name"`
	As            string                 `json:"as"`
	RequestMethod string                 `json:"requestMethod"`
	RequestURL    string                 `json:"requestUrl"`
	Body          json.RawMessage        `json:"body"`
	Headers       map[string]string      `json:"headers"`
	ExpectedCode  int                    `json:"expectedCode"`
	Expect        map[string]interface{} `json:"expect"`
	ExpectAbsent  []string               `json:"expectAbsent"`
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// LoadScenarios reads a JSON array of scenarios.
func LoadScenarios(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var out []*Scenario
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	for i, s := range out {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %q scenario %d: %w", abs, i, err)
		}
	}
	return out, nil
}

// expand substitutes {{var}} placeholders.
func expand(in string, vars map[string]string) string {
	for k, v := range vars {
		in = strings.ReplaceAll(in, `"{{`+k+`}}"`, v)
		in = strings.ReplaceAll(in, "{{"+k+"}}", v)
	}
	return in
}
