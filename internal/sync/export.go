package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	QuestionCount int       `json:"question_count"`
	AnswerCount   int       `json:"answer_count"`
	CommentCount  int       `json:"comment_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes the whole Link Registry as JSONL to w: a header, then
// one "links" record per question sorted by question ID.
func ExportJSONL(ctx context.Context, s store.LinkRegistry, w io.Writer) error {
	sets, err := s.ListLinks(ctx)
	if err != nil {
		return fmt.Errorf("list links: %w", err)
	}

	sort.Slice(sets, func(i, j int) bool {
		return sets[i].QuestionID < sets[j].QuestionID
	})

	h := header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
	}
	for _, set := range sets {
		h.QuestionCount++
		h.AnswerCount += len(set.Answers)
		h.CommentCount += len(set.Comments)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for _, set := range sets {
		if err := enc.Encode(record{Type: "links", Data: set}); err != nil {
			return fmt.Errorf("encode links of %s: %w", set.QuestionID, err)
		}
	}
	return nil
}

// ReadJSONL parses an export produced by ExportJSONL and returns its link
// sets. Unknown record types are skipped.
func ReadJSONL(r io.Reader) ([]*model.LinkSet, error) {
	dec := json.NewDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Type != "header" || h.Version != "1" {
		return nil, fmt.Errorf("unsupported export: type=%q version=%q", h.Type, h.Version)
	}

	var sets []*model.LinkSet
	for {
		var rec struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := dec.Decode(&rec); err == io.EOF {
			return sets, nil
		} else if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(sets)+1, err)
		}
		if rec.Type != "links" {
			continue
		}
		var set model.LinkSet
		if err := json.Unmarshal(rec.Data, &set); err != nil {
			return nil, fmt.Errorf("decode links: %w", err)
		}
		sets = append(sets, &set)
	}
}

// peekHeader decodes the header line of an export.
func peekHeader(data []byte) (header, bool) {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	var h header
	if err := json.Unmarshal(line, &h); err != nil || h.Type != "header" {
		return header{}, false
	}
	return h, true
}
