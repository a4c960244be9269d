package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/seed"
	"folio/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type portfolioFlags struct {
	title, slug, kind, status  string
	short, bio, image, gallery string
	live, github, demo, docs   string
	tech, challenges, duration string
	start, end                 string
	features                   []string
	featured, hidden           bool
	order                      int
}

func (f *portfolioFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "Project title")
	fs.StringVar(&f.slug, "slug", "", "URL slug (derived from the title when empty)")
	fs.StringVar(&f.kind, "type", string(models.TypeWebApp), "Project type")
	fs.StringVar(&f.status, "status", string(models.StatusCompleted), "Project status")
	fs.StringVar(&f.short, "short", "", "Short description")
	fs.StringVar(&f.bio, "bio", "", "Long description")
	fs.StringVar(&f.image, "image", "", "Featured image path or URL")
	fs.StringVar(&f.gallery, "gallery", "", "Comma-separated gallery image paths")
	fs.StringVar(&f.live, "live-url", "", "Live site URL")
	fs.StringVar(&f.github, "github-url", "", "Source repository URL")
	fs.StringVar(&f.demo, "demo-url", "", "Demo URL")
	fs.StringVar(&f.docs, "docs-url", "", "Documentation URL")
	fs.StringVar(&f.tech, "tech", "", "Comma-separated technologies")
	fs.StringArrayVar(&f.features, "feature", nil, "Key feature (repeatable)")
	fs.StringVar(&f.challenges, "challenges", "", "Challenges and solutions")
	fs.StringVar(&f.duration, "duration", "", "Project duration, e.g. \"3 months\"")
	fs.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD, empty clears)")
	fs.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD, empty clears)")
	fs.BoolVar(&f.featured, "featured", false, "Show in the featured block")
	fs.BoolVar(&f.hidden, "hidden", false, "Hide from the public listing")
	fs.IntVar(&f.order, "order", 0, "Sort order among entries with the same featured flag")
}

// apply overlays the flags the user actually set onto in.
func (f *portfolioFlags) apply(cmd *cobra.Command, in *service.PortfolioInput) error {
	set := cmd.Flags().Changed
	date := func(name string, dst **time.Time, v string) error {
		if !set(name) {
			return nil
		}
		if v == "" {
			*dst = nil
			return nil
		}
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
		}
		*dst = &t
		return nil
	}
	if err := date("start", &in.StartDate, f.start); err != nil {
		return err
	}
	if err := date("end", &in.EndDate, f.end); err != nil {
		return err
	}
	str := func(name string, dst *string, v string) {
		if set(name) {
			*dst = v
		}
	}
	str("title", &in.Title, f.title)
	str("slug", &in.Slug, f.slug)
	str("type", &in.Type, f.kind)
	str("status", &in.Status, f.status)
	str("short", &in.ShortDescription, f.short)
	str("bio", &in.Bio, f.bio)
	str("image", &in.FeaturedImage, f.image)
	str("gallery", &in.GalleryImages, f.gallery)
	str("live-url", &in.LiveURL, f.live)
	str("github-url", &in.GithubURL, f.github)
	str("demo-url", &in.DemoURL, f.demo)
	str("docs-url", &in.DocumentationURL, f.docs)
	str("tech", &in.Technologies, f.tech)
	str("challenges", &in.Challenges, f.challenges)
	str("duration", &in.Duration, f.duration)
	if set("feature") {
		in.KeyFeatures = strings.Join(f.features, "\n")
	}
	if set("featured") {
		in.IsFeatured = f.featured
	}
	if set("hidden") {
		public := !f.hidden
		in.IsPublic = &public
	}
	if set("order") {
		in.SortOrder = f.order
	}
	return nil
}

func inputFromEntry(p *models.Portfolio) service.PortfolioInput {
	public := p.IsPublic
	return service.PortfolioInput{
		Title:            p.Title,
		Slug:             p.Slug,
		Type:             string(p.Type),
		ShortDescription: p.ShortDescription,
		Bio:              p.Bio,
		FeaturedImage:    p.FeaturedImage,
		GalleryImages:    p.GalleryImages,
		LiveURL:          p.LiveURL,
		GithubURL:        p.GithubURL,
		DemoURL:          p.DemoURL,
		DocumentationURL: p.DocumentationURL,
		Technologies:     p.Technologies,
		KeyFeatures:      p.KeyFeatures,
		Challenges:       p.Challenges,
		Status:           string(p.Status),
		Duration:         p.Duration,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		IsFeatured:       p.IsFeatured,
		IsPublic:         &public,
		SortOrder:        p.SortOrder,
	}
}

func portfolioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Manage portfolio entries",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every entry, including hidden ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.portfolio.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tSLUG\tTYPE\tSTATUS\tFEATURED\tPUBLIC\tORDER\tTITLE")
			for _, p := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%t\t%d\t%s\n",
					p.ID, p.Slug, p.Type.Label(), p.Status.Label(), p.IsFeatured, p.IsPublic, p.SortOrder, clip(p.Title, 40))
			}
			return tw.Flush()
		},
	}

	createFlags := &portfolioFlags{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := service.PortfolioInput{Type: createFlags.kind, Status: createFlags.status}
			if err := createFlags.apply(cmd, &in); err != nil {
				return err
			}
			p, err := a.portfolio.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d (%s)\n", p.ID, p.Slug)
			return nil
		},
	}
	createFlags.bind(create)
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("short")

	updateFlags := &portfolioFlags{}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.portfolio.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			in := inputFromEntry(current)
			if err := updateFlags.apply(cmd, &in); err != nil {
				return err
			}
			p, err := a.portfolio.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d (%s)\n", p.ID, p.Slug)
			return nil
		},
	}
	updateFlags.bind(update)

	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create entries from a YAML list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var fixtures []seed.PortfolioFixture
			if err := yaml.Unmarshal(raw, &fixtures); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			for _, f := range fixtures {
				p, err := a.portfolio.Create(cmd.Context(), f.Input())
				if err != nil {
					return fmt.Errorf("import %q: %w", f.Title, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d (%s)\n", p.ID, p.Slug)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.portfolio.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entry %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, importCmd, del)
	return cmd
}
