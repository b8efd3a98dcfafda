// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

const jsonInstruction = "반드시 아래 JSON 스키마를 따르는 JSON 객체 하나만 응답하세요. JSON 외의 설명이나 마크다운은 쓰지 마세요.\n\n"

// Schema returns the JSON schema of T as used in structured prompts.
func Schema[T any]() ([]byte, error) {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	var zero T
	schema := reflector.Reflect(&zero)
	schema.Version = ""
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON schema: %w", err)
	}
	return b, nil
}

// Structured asks the model for a JSON value of type T. The schema of T is
// appended to the system prompt; the response is extracted, repaired when
// truncated, validated against the schema and decoded. Any failure counts
// as a failed attempt and is retried.
func Structured[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T

	schemaJSON, err := Schema[T]()
	if err != nil {
		return out, err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return out, fmt.Errorf("compiling JSON schema: %w", err)
	}

	req.System = strings.TrimSpace(req.System + "\n\n" + jsonInstruction + string(schemaJSON))
	req.JSON = true

	err = c.retry(ctx, req.Model, func() error {
		text, err := c.complete(ctx, req)
		if err != nil {
			return err
		}
		v, err := decode[T](text, schema)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func decode[T any](text string, schema *gojsonschema.Schema) (T, error) {
	var v T
	raw := ExtractJSON(text)
	if raw == "" {
		return v, errors.New("no JSON object in response")
	}
	if !json.Valid([]byte(raw)) {
		raw = RepairJSON(raw)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return v, fmt.Errorf("parsing JSON response: %w", err)
	}
	if !result.Valid() {
		var sb strings.Builder
		sb.WriteString("JSON validation failed:")
		for _, e := range result.Errors() {
			fmt.Fprintf(&sb, "\n- %s", e)
		}
		return v, errors.New(sb.String())
	}

	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("decoding JSON response: %w", err)
	}
	return v, nil
}

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)(?:```|$)")

// ExtractJSON returns the JSON document in a model response: the content of
// the first fenced block if any, from the first '{' or '[' up to its
// matching close. A document that never closes is returned to the end of
// the text so RepairJSON can finish it. It returns "" when there is none.
func ExtractJSON(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil && strings.ContainsAny(m[1], "{[") {
		text = m[1]
	}
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	if end := closingIndex(text, start); end >= 0 {
		return text[start : end+1]
	}
	return strings.TrimSpace(text[start:])
}

// closingIndex returns the index of the bracket that closes the one at
// start, or -1.
func closingIndex(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// RepairJSON completes a JSON document cut off mid-stream: an open string
// is closed, a dangling object key (with or without its colon) and a
// trailing comma are dropped, and open objects and arrays are closed in
// order.
func RepairJSON(s string) string {
	s = strings.TrimSpace(s)

	var stack []byte
	inString, escaped := false, false
	expectKey, pendingKey := false, false
	keyStart := -1

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
			if expectKey {
				keyStart, pendingKey, expectKey = i, true, false
			} else {
				pendingKey = false
			}
		case '{':
			stack = append(stack, '}')
			expectKey, pendingKey = true, false
		case '[':
			stack = append(stack, ']')
			expectKey, pendingKey = false, false
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			expectKey, pendingKey = false, false
		case ',':
			expectKey = len(stack) > 0 && stack[len(stack)-1] == '}'
			pendingKey = false
		case ':', ' ', '\t', '\n', '\r':
		default:
			pendingKey = false
		}
	}

	out := s
	switch {
	case pendingKey:
		out = s[:keyStart]
	case inString:
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	}
	out = strings.TrimRight(out, " \t\r\n")
	out = strings.TrimSuffix(out, ",")

	var sb strings.Builder
	sb.WriteString(out)
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteByte(stack[i])
	}
	return sb.String()
}
