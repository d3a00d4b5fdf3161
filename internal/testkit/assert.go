package testkit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, s *Scenario, got int, body []byte) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch\nbody: %s", s.Name, body)
}

// AssertJSONPaths checks each "a.b.0.c" path of Expect against the decoded
// response, and that every ExpectAbsent path is missing. Numbers compare
// as float64, the way encoding/json decodes them.
func AssertJSONPaths(t *testing.T, s *Scenario, body []byte) {
	t.Helper()

	var doc interface{}
	if !assert.NoError(t, json.Unmarshal(body, &doc), "[%s] response is not valid JSON\nbody: %s", s.Name, body) {
		return
	}

	for path, want := range s.Expect {
		got, ok := Lookup(doc, path)
		if !assert.True(t, ok, "[%s] %s: missing in response\nbody: %s", s.Name, path, body) {
			continue
		}
		assert.Equal(t, normalise(want), got, "[%s] %s", s.Name, path)
	}
	for _, path := range s.ExpectAbsent {
		_, ok := Lookup(doc, path)
		assert.False(t, ok, "[%s] %s: expected to be absent", s.Name, path)
	}
}

// Lookup walks a decoded JSON document along a dot path. Numeric segments
// index arrays; "#" yields the array length.
func Lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			if seg == "#" {
				cur = float64(len(node))
				continue
			}
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func normalise(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out interface{}
	_ = json.Unmarshal(data, &out)
	return out
}
