package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"gopkg.in/yaml.v3"
)

// ColumnMapping names the CSV header that feeds each submission field.
type ColumnMapping struct {
	Title       string `yaml:"title"`
	Content     string `yaml:"content"`
	URL         string `yaml:"url"`
	PublishDate string `yaml:"publish_date"`
}

type mappingFile struct {
	Columns ColumnMapping `yaml:"columns"`
}

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Title:       "title",
		Content:     "content",
		URL:         "url",
		PublishDate: "publish_date",
	}
}

// LoadColumnMapping decodes a YAML mapping; unset columns keep their defaults.
func LoadColumnMapping(r io.Reader) (ColumnMapping, error) {
	f := mappingFile{Columns: DefaultColumnMapping()}
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return ColumnMapping{}, fmt.Errorf("decode column mapping: %w", err)
	}
	m := f.Columns.normalize()
	if err := m.Validate(); err != nil {
		return ColumnMapping{}, err
	}
	return m, nil
}

func LoadColumnMappingFile(path string) (ColumnMapping, error) {
	if path == "" {
		return DefaultColumnMapping(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return ColumnMapping{}, fmt.Errorf("open column mapping: %w", err)
	}
	defer file.Close()
	return LoadColumnMapping(file)
}

func (m ColumnMapping) Validate() error {
	if m.Title == "" {
		return errors.New("column mapping: title column is required")
	}
	if m.Content == "" {
		return errors.New("column mapping: content column is required")
	}
	return nil
}

func (m ColumnMapping) normalize() ColumnMapping {
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return ColumnMapping{
		Title:       lower(m.Title),
		Content:     lower(m.Content),
		URL:         lower(m.URL),
		PublishDate: lower(m.PublishDate),
	}
}

// Map turns a record into a submission. Missing optional columns are left
// empty; required fields are validated by the service.
func (m ColumnMapping) Map(r Record) trust.Submission {
	return trust.Submission{
		Title:       r[m.Title],
		Content:     r[m.Content],
		URL:         r[m.URL],
		PublishDate: r[m.PublishDate],
	}
}
