package content

import "strings"

// Category classifies a project entry
type Category string

const (
	CategoryPackage Category = "package"
	CategoryWebsite Category = "website"
)

// Stat is a headline figure such as "5.6+ Years Experience"
type Stat struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Label string `yaml:"label" json:"label" validate:"required"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// ExperienceEntry is one job in the experience timeline
type ExperienceEntry struct {
	Role        string   `yaml:"role" json:"role" validate:"required"`
	Company     string   `yaml:"company" json:"company" validate:"required"`
	Period      string   `yaml:"period" json:"period" validate:"required"`
	Description []string `yaml:"description" json:"description" validate:"min=1,dive,required"`
	Stack       []string `yaml:"stack" json:"stack" validate:"dive,required"`
}

// ProjectEntry is one card in the project showcase
type ProjectEntry struct {
	Name        string   `yaml:"name" json:"name" validate:"required"`
	Category    Category `yaml:"category" json:"category" validate:"required,oneof=package website"`
	Label       string   `yaml:"label" json:"label"`
	Description string   `yaml:"description" json:"description" validate:"required"`
	Tags        []string `yaml:"tags" json:"tags" validate:"dive,required"`
	DemoURL     string   `yaml:"demo_url,omitempty" json:"demo_url,omitempty" validate:"omitempty,url"`
	GitHubURL   string   `yaml:"github_url,omitempty" json:"github_url,omitempty" validate:"omitempty,url"`
	NpmURL      string   `yaml:"npm_url,omitempty" json:"npm_url,omitempty" validate:"omitempty,url"`
	Image       string   `yaml:"image,omitempty" json:"image,omitempty"`
}

// ProjectLink is a rendered outbound link of a project card
type ProjectLink struct {
	Kind  string // demo, github or npm
	Label string
	URL   string
	Aria  string
}

// Links returns the URLs that are present, in demo, github, npm order
func (p ProjectEntry) Links() []ProjectLink {
	var links []ProjectLink
	if p.DemoURL != "" {
		links = append(links, ProjectLink{Kind: "demo", Label: "Live Demo", URL: p.DemoURL,
			Aria: "View live demo of " + p.Name})
	}
	if p.GitHubURL != "" {
		links = append(links, ProjectLink{Kind: "github", Label: "GitHub", URL: p.GitHubURL,
			Aria: "View source code of " + p.Name + " on GitHub"})
	}
	if p.NpmURL != "" {
		links = append(links, ProjectLink{Kind: "npm", Label: "NPM Package", URL: p.NpmURL,
			Aria: "View " + p.Name + " package on NPM"})
	}
	return links
}

// Actionable reports whether the card has at least one link to follow
func (p ProjectEntry) Actionable() bool {
	return p.DemoURL != "" || p.GitHubURL != "" || p.NpmURL != ""
}

// SkillGroup is a labelled list of skills
type SkillGroup struct {
	Category string   `yaml:"category" json:"category" validate:"required"`
	Skills   []string `yaml:"skills" json:"skills" validate:"min=1,dive,required"`
}

// NavLink points at an in-page section
type NavLink struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	Href  string `yaml:"href" json:"href" validate:"required,startswith=#,min=2"`
}

// ID is the section id the link targets
func (l NavLink) ID() string {
	return strings.TrimPrefix(l.Href, "#")
}

// SocialLink is a contact card in the footer
type SocialLink struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	Href  string `yaml:"href" json:"href" validate:"required"`
	Icon  string `yaml:"icon" json:"icon"`
}

// ResumeAsset describes the embedded resume document
type ResumeAsset struct {
	Path         string `yaml:"path" json:"path" validate:"required,startswith=/"`
	DownloadName string `yaml:"download_name" json:"download_name" validate:"required"`
	ViewerParams string `yaml:"viewer_params" json:"viewer_params"`
}

// Profile is everything the page renders
type Profile struct {
	Name        string            `yaml:"name" json:"name" validate:"required"`
	Initials    string            `yaml:"initials" json:"initials"`
	Title       string            `yaml:"title" json:"title" validate:"required"`
	Description string            `yaml:"description" json:"description"`
	Keywords    []string          `yaml:"keywords" json:"keywords"`
	Location    string            `yaml:"location" json:"location"`
	Email       string            `yaml:"email" json:"email" validate:"omitempty,email"`
	Available   string            `yaml:"available" json:"available"`
	Roles       []string          `yaml:"roles" json:"roles" validate:"min=1,dive,required"`
	Tagline     string            `yaml:"tagline" json:"tagline"`
	AboutTitle  string            `yaml:"about_title" json:"about_title"`
	AboutAccent string            `yaml:"about_accent" json:"about_accent"`
	Bio         []string          `yaml:"bio" json:"bio"`
	CodeLines   []string          `yaml:"code_lines" json:"code_lines"`
	HeroStats   []Stat            `yaml:"hero_stats" json:"hero_stats" validate:"dive"`
	AboutStats  []Stat            `yaml:"about_stats" json:"about_stats" validate:"dive"`
	Experience  []ExperienceEntry `yaml:"experience" json:"experience" validate:"dive"`
	Projects    []ProjectEntry    `yaml:"projects" json:"projects" validate:"dive"`
	SkillGroups []SkillGroup      `yaml:"skill_groups" json:"skill_groups" validate:"dive"`
	Socials     []SocialLink      `yaml:"socials" json:"socials" validate:"dive"`
	NavLinks    []NavLink         `yaml:"nav_links" json:"nav_links" validate:"min=1,dive"`
	Resume      ResumeAsset       `yaml:"resume" json:"resume"`
}

// HeroID is the id of the first section, which maps to no active link
const HeroID = "hero"

// SectionIDs returns hero followed by every nav target, in document order
func (p *Profile) SectionIDs() []string {
	ids := make([]string, 0, len(p.NavLinks)+1)
	ids = append(ids, HeroID)
	for _, l := range p.NavLinks {
		ids = append(ids, l.ID())
	}
	return ids
}

// ResumeViewerSrc is the url the inline viewer embeds
func (p *Profile) ResumeViewerSrc() string {
	if p.Resume.ViewerParams == "" {
		return p.Resume.Path
	}
	return p.Resume.Path + "#" + strings.TrimPrefix(p.Resume.ViewerParams, "#")
}
