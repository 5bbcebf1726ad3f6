package memstore

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yanizio/seoedge/internal/content"
)

// fixtureFile is the on-disk YAML layout.  Structured documents and tenant
// settings are written as nested YAML and re-encoded to JSON so the engine
// sees exactly what the SQL store would return.
type fixtureFile struct {
	Tenants []struct {
		content.Tenant `yaml:",inline"`
		Settings       map[string]any `yaml:"settings"`
	} `yaml:"tenants"`
	Domains     []content.CustomDomain `yaml:"domains"`
	Connections []struct {
		ID          string `yaml:"id"`
		DomainID    string `yaml:"domain_id"`
		ContentType string `yaml:"content_type"`
		ContentID   string `yaml:"content_id"`
		Path        string `yaml:"path"`
		IsHomepage  bool   `yaml:"is_homepage"`
	} `yaml:"connections"`
	Websites []content.Website `yaml:"websites"`
	Pages    []struct {
		content.Page `yaml:",inline"`
		Content      any `yaml:"content"`
	} `yaml:"pages"`
	Funnels []content.Funnel `yaml:"funnels"`
	Steps   []struct {
		content.Step `yaml:",inline"`
		Content      any `yaml:"content"`
	} `yaml:"steps"`
	CourseAreas []content.CourseArea `yaml:"course_areas"`
}

// Load reads a YAML fixture file and returns a ready Store.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memstore: read %s: %w", path, err)
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("memstore: %s: %w", path, err)
	}
	return New(d), nil
}

// Parse decodes YAML fixtures into Data.
func Parse(raw []byte) (Data, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Data{}, err
	}

	d := Data{
		Domains:     f.Domains,
		Websites:    f.Websites,
		Funnels:     f.Funnels,
		CourseAreas: f.CourseAreas,
	}
	for _, t := range f.Tenants {
		ten := t.Tenant
		if t.Settings != nil {
			js, err := json.Marshal(t.Settings)
			if err != nil {
				return Data{}, fmt.Errorf("tenant %s settings: %w", ten.ID, err)
			}
			ten.Settings = js
		}
		d.Tenants = append(d.Tenants, ten)
	}
	for _, c := range f.Connections {
		kind, err := content.ParseKind(c.ContentType)
		if err != nil {
			return Data{}, fmt.Errorf("connection %s: %w", c.ID, err)
		}
		d.Connections = append(d.Connections, content.Connection{
			ID:         c.ID,
			DomainID:   c.DomainID,
			Kind:       kind,
			ContentID:  c.ContentID,
			Path:       c.Path,
			IsHomepage: c.IsHomepage,
		})
	}
	for _, p := range f.Pages {
		page := p.Page
		js, err := encodeDoc(p.Content)
		if err != nil {
			return Data{}, fmt.Errorf("page %s content: %w", page.ID, err)
		}
		page.Content = js
		d.Pages = append(d.Pages, page)
	}
	for _, s := range f.Steps {
		step := s.Step
		js, err := encodeDoc(s.Content)
		if err != nil {
			return Data{}, fmt.Errorf("step %s content: %w", step.ID, err)
		}
		step.Content = js
		d.Steps = append(d.Steps, step)
	}
	return d, nil
}

func encodeDoc(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(v)
}
