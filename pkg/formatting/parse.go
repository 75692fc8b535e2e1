package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content is not JSON, bare or fenced.
var ErrParseFailed = errors.New("failed to parse json payload")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Parse decodes content into T. If content is not bare JSON, the first
// markdown code fence is tried instead.
func Parse[T any](content string) (T, error) {
	var out T
	content = strings.TrimSpace(content)

	err := json.Unmarshal([]byte(content), &out)
	if err == nil {
		return out, nil
	}

	if m := fencePattern.FindStringSubmatch(content); m != nil {
		var fenced T
		if ferr := json.Unmarshal([]byte(m[1]), &fenced); ferr == nil {
			return fenced, nil
		}
	}

	return out, fmt.Errorf("%w: %v", ErrParseFailed, err)
}
