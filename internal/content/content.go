// Package content holds the static portfolio data rendered by the site.
package content

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var portfolioYAML []byte

type Portfolio struct {
	Profile        Profile         `yaml:"profile"`
	Skills         []SkillGroup    `yaml:"skills"`
	Certifications []Certification `yaml:"certifications"`
	Experience     []Job           `yaml:"experience"`
	Projects       []Project       `yaml:"projects"`
	Education      []Degree        `yaml:"education"`
}

type Profile struct {
	Name      string `yaml:"name"`
	Initials  string `yaml:"initials"`
	Headline  string `yaml:"headline"`
	Summary   string `yaml:"summary"`
	Location  string `yaml:"location"`
	Email     string `yaml:"email"`
	HeroImage string `yaml:"hero_image"`
	Links     []Link `yaml:"links"`
}

type Link struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
	Href  string `yaml:"href"`
}

type SkillGroup struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type Certification struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type Job struct {
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Location     string   `yaml:"location"`
	Period       string   `yaml:"period"`
	Achievements []string `yaml:"achievements"`
}

type Project struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Tech        string `yaml:"tech"`
	Details     string `yaml:"details"`
}

// TechList splits the comma separated tech line into tags.
func (p Project) TechList() []string {
	parts := lo.Map(strings.Split(p.Tech, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}

// Uses reports whether tech is one of the project's tags, ignoring case.
func (p Project) Uses(tech string) bool {
	return lo.ContainsBy(p.TechList(), func(t string) bool {
		return strings.EqualFold(t, tech)
	})
}

type Degree struct {
	Degree     string `yaml:"degree"`
	School     string `yaml:"school"`
	Location   string `yaml:"location"`
	Period     string `yaml:"period"`
	GPA        string `yaml:"gpa"`
	Coursework string `yaml:"coursework"`
}

// Parse decodes a portfolio document and checks that project slugs are
// present and unique.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	for _, pr := range p.Projects {
		if pr.Slug == "" {
			return nil, fmt.Errorf("parse portfolio: project %q has no slug", pr.Title)
		}
	}
	if dup := lo.FindDuplicatesBy(p.Projects, func(pr Project) string { return pr.Slug }); len(dup) > 0 {
		return nil, fmt.Errorf("parse portfolio: duplicate project slug %q", dup[0].Slug)
	}
	return &p, nil
}

var (
	loadOnce sync.Once
	loaded   *Portfolio
	loadErr  error
)

// Load returns the embedded portfolio, parsed once per process.
func Load() (*Portfolio, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(portfolioYAML)
	})
	return loaded, loadErr
}

// Project looks a project up by slug.
func (p *Portfolio) Project(slug string) (Project, bool) {
	return lo.Find(p.Projects, func(pr Project) bool { return pr.Slug == slug })
}

// ProjectsUsing filters projects by tech tag. An empty tag returns all.
func (p *Portfolio) ProjectsUsing(tech string) []Project {
	if tech == "" {
		return p.Projects
	}
	return lo.Filter(p.Projects, func(pr Project, _ int) bool { return pr.Uses(tech) })
}

// Tech returns every distinct tech tag across projects, sorted.
func (p *Portfolio) Tech() []string {
	all := lo.Uniq(lo.FlatMap(p.Projects, func(pr Project, _ int) []string {
		return pr.TechList()
	}))
	sort.Strings(all)
	return all
}
