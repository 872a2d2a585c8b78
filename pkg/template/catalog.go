// Package template holds the built-in catalog of workflow templates and turns
// a template into a new, unsaved workflow.
package template

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dukex/flowdesk/pkg/models"
	"gopkg.in/yaml.v3"
)

// AllCategories matches every template when used as a category filter.
const AllCategories = "All"

var ErrTemplateNotFound = errors.New("template not found")

//go:embed catalog.yaml
var builtin []byte

type Template struct {
	ID          string        `json:"id"          yaml:"id"`
	Name        string        `json:"name"        yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Category    string        `json:"category"    yaml:"category"`
	Popularity  string        `json:"popularity"  yaml:"popularity"`
	Nodes       []models.Node `json:"nodes"       yaml:"-"`
	Edges       []models.Edge `json:"edges"       yaml:"-"`
}

type templateNode struct {
	ID   string          `yaml:"id"`
	Type models.NodeType `yaml:"type"`
	X    float64         `yaml:"x"`
	Y    float64         `yaml:"y"`
	Data map[string]any  `yaml:"data"`
}

type templateEdge struct {
	ID           string `yaml:"id"`
	Source       string `yaml:"source"`
	Target       string `yaml:"target"`
	SourceHandle string `yaml:"sourceHandle"`
}

type catalogFile struct {
	Templates []struct {
		Template `yaml:",inline"`

		Nodes []templateNode `yaml:"nodes"`
		Edges []templateEdge `yaml:"edges"`
	} `yaml:"templates"`
}

// Catalog is an immutable, ordered set of templates.
type Catalog struct {
	templates []Template
}

// NewCatalog loads the built-in templates.
func NewCatalog() (*Catalog, error) {
	return Parse(builtin)
}

// Parse reads a YAML catalog document. Template ids must be unique and every
// edge must connect nodes of its own template.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}

	catalog := &Catalog{templates: make([]Template, 0, len(file.Templates))}
	seen := map[string]struct{}{}

	for _, entry := range file.Templates {
		tmpl := entry.Template
		if tmpl.ID == "" || tmpl.Name == "" {
			return nil, fmt.Errorf("template %q: id and name are required", tmpl.ID)
		}

		if _, dup := seen[tmpl.ID]; dup {
			return nil, fmt.Errorf("template %q is defined twice", tmpl.ID)
		}

		seen[tmpl.ID] = struct{}{}
		nodeIDs := map[string]struct{}{}

		for _, n := range entry.Nodes {
			nodeIDs[n.ID] = struct{}{}
			tmpl.Nodes = append(tmpl.Nodes, models.Node{
				ID:       n.ID,
				Type:     n.Type,
				Position: models.Position{X: n.X, Y: n.Y},
				Data:     n.Data,
			})
		}

		for _, e := range entry.Edges {
			for _, endpoint := range []string{e.Source, e.Target} {
				if _, ok := nodeIDs[endpoint]; !ok {
					return nil, fmt.Errorf("template %q edge %q references unknown node %q", tmpl.ID, e.ID, endpoint)
				}
			}

			tmpl.Edges = append(tmpl.Edges, models.Edge{
				ID:           e.ID,
				Source:       e.Source,
				Target:       e.Target,
				SourceHandle: e.SourceHandle,
				Type:         "custom",
				Animated:     true,
			})
		}

		catalog.templates = append(catalog.templates, tmpl)
	}

	return catalog, nil
}

// Categories returns AllCategories followed by the distinct template
// categories in catalog order.
func (c *Catalog) Categories() []string {
	categories := []string{AllCategories}

	for _, tmpl := range c.templates {
		if !slices.Contains(categories, tmpl.Category) {
			categories = append(categories, tmpl.Category)
		}
	}

	return categories
}

// List returns the templates in the category whose name or description
// contains search, ignoring case. An empty category or AllCategories matches
// any category, and an empty search matches everything.
func (c *Catalog) List(category, search string) []Template {
	search = strings.ToLower(search)
	matches := []Template{}

	for _, tmpl := range c.templates {
		if category != "" && category != AllCategories && tmpl.Category != category {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(tmpl.Name), search) &&
			!strings.Contains(strings.ToLower(tmpl.Description), search) {
			continue
		}

		matches = append(matches, tmpl.clone())
	}

	return matches
}

func (c *Catalog) Get(id string) (*Template, error) {
	index := slices.IndexFunc(c.templates, func(t Template) bool { return t.ID == id })
	if index < 0 {
		return nil, fmt.Errorf("template %s: %w", id, ErrTemplateNotFound)
	}

	tmpl := c.templates[index].clone()

	return &tmpl, nil
}

// Instantiate builds an unsaved workflow named "<template> Copy" from the
// template. Trigger nodes carrying a triggerType become workflow triggers; a
// schedule trigger takes its cron expression from triggerConfig.
func (t *Template) Instantiate() *models.Workflow {
	tmpl := t.clone()
	workflow := &models.Workflow{
		Name:        tmpl.Name + " Copy",
		Description: tmpl.Description,
		Nodes:       tmpl.Nodes,
		Edges:       tmpl.Edges,
		Triggers:    []models.Trigger{},
	}

	for _, node := range tmpl.Nodes {
		if node.Type != models.NodeTypeTrigger {
			continue
		}

		kind, _ := node.Data["triggerType"].(string)
		if kind == "" {
			continue
		}

		label, _ := node.Data["label"].(string)
		trigger := models.Trigger{ID: node.ID, Type: models.TriggerType(kind), Name: label}

		if expr, ok := node.Data["triggerConfig"].(string); ok && trigger.Type == models.TriggerTypeSchedule {
			trigger.Config = map[string]any{models.CronConfigKey: expr}
		}

		workflow.Triggers = append(workflow.Triggers, trigger)
	}

	return workflow
}

func (t Template) clone() Template {
	nodes := make([]models.Node, len(t.Nodes))
	for i, node := range t.Nodes {
		nodes[i] = node.Clone()
	}

	edges := make([]models.Edge, len(t.Edges))
	for i, edge := range t.Edges {
		edges[i] = edge.Clone()
	}

	t.Nodes = nodes
	t.Edges = edges

	return t
}
