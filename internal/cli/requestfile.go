package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/tansive/redditreader/internal/readerskill/api"
	"github.com/tansive/redditreader/internal/readerskill/config"
)

const accessTokenPath = "context.System.apiAccessToken"

// ParseRequestFile reads request envelopes from a JSON file or a
// multi-document YAML file, one request per document. {{ .ENV.NAME }}
// placeholders are expanded first.
func ParseRequestFile(filename string) ([][]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data = replaceTabsWithSpaces(data)

	data, err = config.Preprocess(data, filepath.Dir(filename))
	if err != nil {
		return nil, err
	}

	docs, err := ParseMultiYAMLFromBytes(data)
	if err != nil {
		return nil, err
	}

	requests := make([][]byte, 0, len(docs))
	for i, doc := range docs {
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		requests = append(requests, b)
	}
	return requests, nil
}

// ParseMultiYAMLFromBytes parses byte data containing multiple YAML documents.
// JSON input is a single document. Numbers keep their source text as strings,
// so an unquoted version: 1.0 stays "1.0"; request envelopes have no numeric
// fields.
func ParseMultiYAMLFromBytes(data []byte) ([]map[string]any, error) {
	// If data is empty or contains only whitespace or only --- separators, return empty slice
	content := strings.TrimSpace(string(data))
	if len(content) == 0 || strings.Trim(content, "- \n\t") == "" {
		return []map[string]any{}, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var result []map[string]any

	for {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		numbersAsStrings(&node)

		var doc map[string]any
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		// Skip empty documents (common with trailing ---)
		if len(doc) > 0 {
			result = append(result, doc)
		}
	}

	return result, nil
}

func numbersAsStrings(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && (n.Tag == "!!int" || n.Tag == "!!float") {
		n.Tag = "!!str"
	}
	for _, c := range n.Content {
		numbersAsStrings(c)
	}
}

// DecodeRequest unmarshals a JSON request, replacing the catalog access
// token when one is given.
func DecodeRequest(raw []byte, accessToken string) (*api.RequestEnvelope, error) {
	if accessToken != "" {
		var err error
		raw, err = sjson.SetBytes(raw, accessTokenPath, accessToken)
		if err != nil {
			return nil, fmt.Errorf("unable to set access token: %w", err)
		}
	}

	env := &api.RequestEnvelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return env, nil
}

// YAML forbids tabs for indentation.
func replaceTabsWithSpaces(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte("\t"), []byte("  "))
}
