// Package bigquery provides an alternate build_dictionary source: a
// word list pulled from a BigQuery table instead of a local wordlist
// file, grounded on Eyas-xwgen's getWords query pattern.
package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"peeler.dev/peeler/internal/dictionary"
)

// Source queries a BigQuery table for dictionary words.
type Source struct {
	client   *bigquery.Client
	dataset  string
	table    string
	location string
}

// New opens a BigQuery client scoped to projectID. Close must be called
// when the source is no longer needed.
func New(ctx context.Context, projectID, dataset, table, location string) (*Source, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	if location == "" {
		location = "US"
	}
	return &Source{client: client, dataset: dataset, table: table, location: location}, nil
}

func (s *Source) Close() error { return s.client.Close() }

// Words queries `dataset.table` for every row's word_key column and
// returns the raw strings, one per row. The caller feeds the result into
// dictionary.Build the same way a wordlist file's lines would be.
func (s *Source) Words(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT word_key FROM `%s.%s`", s.dataset, s.table)
	q := s.client.Query(query)
	q.Location = s.location

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var words []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}
		word, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		words = append(words, word)
	}
	return words, nil
}

// BuildDictionary queries Words and builds a *dictionary.Dictionary from
// the result, an alternate implementation of build_dictionary (spec
// §4.1) backed by BigQuery instead of a local file.
func (s *Source) BuildDictionary(ctx context.Context) (*dictionary.Dictionary, error) {
	words, err := s.Words(ctx)
	if err != nil {
		return nil, err
	}
	return dictionary.Build(strings.NewReader(strings.Join(words, "\n")))
}
