package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"agencycheck/internal/modules/journal/domain"
	journalout "agencycheck/internal/modules/journal/port/out"
	apperrors "agencycheck/internal/platform/errors"
)

// LegacyJSONReader reads journal dumps exported from the previous document
// database. Accepted shapes: a list of documents, an object holding such a
// list under "entries" or "practiceEntries", or an object keyed by document id.
type LegacyJSONReader struct{}

func NewLegacyJSONReader() journalout.LegacyReader {
	return LegacyJSONReader{}
}

func (LegacyJSONReader) Read(_ context.Context, path string) ([]domain.Entry, []domain.ImportIssue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read legacy dump: %w", err)
	}
	docs, err := splitDocuments(raw)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.Entry, 0, len(docs))
	issues := []domain.ImportIssue{}
	for _, doc := range docs {
		if firstString(doc.fields, "id", "_id") == "" && doc.key != "" {
			doc.fields["id"] = doc.key
		}
		entry, err := decodeDocument(doc.fields)
		if err != nil {
			issues = append(issues, domain.ImportIssue{Ref: doc.ref(), Reason: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, issues, nil
}

type legacyDoc struct {
	key    string
	pos    int
	fields map[string]any
}

func (d legacyDoc) ref() string {
	if id := firstString(d.fields, "id", "_id"); id != "" {
		return id
	}
	return "#" + strconv.Itoa(d.pos)
}

func splitDocuments(raw []byte) ([]legacyDoc, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("%w: decode legacy dump: %v", apperrors.ErrInvalidInput, err)
	}

	switch x := top.(type) {
	case []any:
		return fromList(x), nil
	case map[string]any:
		for _, key := range []string{"entries", "practiceEntries"} {
			if list, ok := x[key].([]any); ok {
				return fromList(list), nil
			}
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]legacyDoc, 0, len(keys))
		for i, k := range keys {
			if fields, ok := x[k].(map[string]any); ok {
				out = append(out, legacyDoc{key: k, pos: i, fields: fields})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: legacy dump must be a list or an object", apperrors.ErrInvalidInput)
	}
}

func fromList(items []any) []legacyDoc {
	out := make([]legacyDoc, 0, len(items))
	for i, item := range items {
		if fields, ok := item.(map[string]any); ok {
			out = append(out, legacyDoc{pos: i, fields: fields})
		}
	}
	return out
}
