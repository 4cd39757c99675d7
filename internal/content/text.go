package content

var (
	Tagline = `Frontend Developer with 5.6+ years of experience building scalable web applications. Specialized in design systems, token-driven UI architecture, and reusable component libraries.`

	BioIntro = `I am <strong>Nibin Kurian</strong>, a Frontend Developer and UI Engineer with <strong>5.6+ years</strong> of experience
	building scalable web applications using <strong>React, Next.js, and SASS</strong>.`

	BioApproach = `I specialize in <strong>Design Systems</strong> and <strong>token-driven UI architecture</strong>.
	My approach combines visual excellence from Figma with technical rigor, resulting in
	performant component libraries that improve project maintainability.`

	BioPerformance = `I have a proven track record of optimizing frontend performance, successfully raising
	Lighthouse scores from <strong>60 to 95</strong> for large-scale applications.`

	TokVista = `An open-source package that transforms Figma design tokens into interactive visual documentation.
	Built with AI-assisted development, featuring copy-ready CSS variables and a live interactive playground.`
)

// Default returns the authored portfolio content
func Default() *Profile {
	return &Profile{
		Name:        "Nibin Kurian",
		Initials:    "NK",
		Title:       "Nibin Kurian – UI Engineer & Design Systems",
		Description: "UI Engineer specializing in Design Systems, Component Libraries, and scalable frontend architecture. Based in Kottayam, Kerala.",
		Keywords:    []string{"UI Engineer", "Frontend Developer", "Design Systems", "Component Libraries", "Next.js", "SCSS", "Kottayam", "Kerala"},
		Location:    "Kottayam, Kerala, India",
		Email:       "nibhinkurian@example.com",
		Available:   "Available for new opportunities",
		Roles:       []string{"Frontend Developer", "UI Engineer", "Design System Architect"},
		Tagline:     Tagline,
		AboutTitle:  "Engineer by profession,",
		AboutAccent: "designer by heart.",
		Bio:         []string{BioIntro, BioApproach, BioPerformance},
		CodeLines: []string{
			"export default {",
			"  name: 'Nibin Kurian',",
			"  location: 'Kottayam, IN',",
			"  expertise: ['UI Engineering', 'Design System Architect'],",
			"  focus: 'Scale & Performance',",
			"  stack: ['Next.js', 'GSAP', 'SASS'],",
			"  mindset: 'Design-to-Code Excellence',",
			"};",
		},
		HeroStats: []Stat{
			{Value: "5.6+", Label: "Years Experience"},
			{Value: "80+", Label: "Projects Delivered"},
			{Value: "95+", Label: "Lighthouse Score"},
		},
		AboutStats: []Stat{
			{Value: "5.6+ Years", Label: "Experience", Icon: "clock"},
			{Value: "Kottayam, Kerala", Label: "Location", Icon: "pin"},
			{Value: "Design Systems", Label: "Focus", Icon: "target"},
			{Value: "React / Next.js", Label: "Platform", Icon: "zap"},
		},
		Experience: []ExperienceEntry{
			{
				Role:    "Frontend Developer / UI Engineer",
				Company: "Quintet Solutions",
				Period:  "Aug 2023 – Present",
				Description: []string{
					"Architected a scalable, token-driven design system using Figma tokens via a GitHub pipeline.",
					"Developed and maintained a reusable React/Next.js component library in Storybook.",
					"Structured scalable SCSS architecture for large-scale applications, reducing conflicts.",
					"Optimized frontend performance (Lighthouse), improving scores from 60 to 95.",
					"Collaborated in Agile/Sprint environments using ClickUp, Linear, and Slack.",
				},
				Stack: []string{"Next.js", "TypeScript", "SCSS", "Storybook", "Figma Tokens"},
			},
			{
				Role:    "UI/UX Developer",
				Company: "Intersmart Solutions",
				Period:  "Aug 2022 – Aug 2023",
				Description: []string{
					"Delivered 50+ fully responsive static and e-commerce websites.",
					"Built high-fidelity UI layouts using HTML5, CSS3, SASS.",
					"Implemented interactive animations using GSAP.",
					"Ensured mobile-first responsive design across all devices.",
				},
				Stack: []string{"HTML5", "SASS", "GSAP", "Responsive Design"},
			},
			{
				Role:    "UI/UX Developer",
				Company: "Pentacodes IT Solutions",
				Period:  "Jan 2022 – Aug 2022",
				Description: []string{
					"Delivered 20+ static and e-commerce projects.",
					"Introduced SASS-based styling architecture replacing traditional CSS.",
					"Implemented Git version control workflow within the frontend team.",
				},
				Stack: []string{"SASS", "Git", "E-commerce UI"},
			},
			{
				Role:    "UI/UX Developer",
				Company: "Pemmin Dyad",
				Period:  "Aug 2021 – Dec 2021",
				Description: []string{
					"Delivered 10+ projects including in-house tools.",
					"Optimized existing web applications under senior mentorship.",
				},
				Stack: []string{"UI Optimization", "Web Tools"},
			},
			{
				Role:    "Junior Web Developer",
				Company: "Medizome Healthlink India",
				Period:  "July 2020 – July 2021",
				Description: []string{
					"Assisted in web development projects and maintaining company websites.",
					"Recognized twice as Best Employee of the Month.",
				},
				Stack: []string{"Web Maintenance", "Frontend Basics"},
			},
		},
		Projects: []ProjectEntry{
			{
				Name:        "TokVista",
				Category:    CategoryPackage,
				Label:       "Open Source NPM Package",
				Description: TokVista,
				Tags:        []string{"Design Tokens", "Figma", "React", "Storybook", "NPM"},
				DemoURL:     "https://nibin-org.github.io/tokvista",
				GitHubURL:   "https://github.com/nibin-org/tokvista",
				NpmURL:      "https://npmjs.com/package/tokvista",
			},
		},
		SkillGroups: []SkillGroup{
			{Category: "Core Frontend", Skills: []string{"HTML5", "CSS3", "SASS/SCSS", "TailwindCSS", "Next.js", "GSAP"}},
			{Category: "Design & UI", Skills: []string{"Figma", "Storybook", "Component Libraries", "Visual Excellence"}},
			{Category: "Workflow & Tools", Skills: []string{"Git", "GitHub", "Lighthouse optimization", "Vercel", "UI Architecture"}},
		},
		Socials: []SocialLink{
			{Label: "Email", Href: "mailto:nibhinkurian@example.com", Icon: "mail"},
			{Label: "LinkedIn", Href: "https://www.linkedin.com/in/nibin-kurian", Icon: "linkedin"},
			{Label: "GitHub", Href: "https://github.com/nibin-org", Icon: "github"},
		},
		NavLinks: []NavLink{
			{Label: "About", Href: "#about"},
			{Label: "Skills", Href: "#skills"},
			{Label: "Experience", Href: "#experience"},
			{Label: "Projects", Href: "#projects"},
			{Label: "Contact", Href: "#contact"},
		},
		Resume: ResumeAsset{
			Path:         "/resume.pdf",
			DownloadName: "Nibin_Kurian_Resume.pdf",
			ViewerParams: "view=FitH&toolbar=0&navpanes=0&scrollbar=0",
		},
	}
}
