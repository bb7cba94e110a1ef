package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/vidlib/internal/culler"
	"github.com/nikbrunner/vidlib/internal/exporter"
	"github.com/nikbrunner/vidlib/internal/importer"
	"github.com/nikbrunner/vidlib/internal/model"
)

func assetsDir(dataDir string) string {
	return filepath.Join(dataDir, "assets")
}

func (c *cli) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export the storefront as static HTML",
		Long: `Renders every category as a storefront page. Defaults to
~/Downloads/vidlib-storefront-YYYY-MM-DD.html.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				if outputPath, err = exporter.DefaultExportPath(); err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
			}

			st, err := c.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			lib, err := st.Load()
			if err != nil {
				return fmt.Errorf("load library: %w", err)
			}
			sess, err := c.sessionContext()
			if err != nil {
				return err
			}

			page := exporter.ExportHTML(lib, exporter.Options{Sort: c.defaultSort(), Session: sess})
			if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, []byte(page), 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d videos in %d categories to %s\n",
				len(lib.Videos), len(lib.Categories()), outputPath)
			return nil
		},
	}
}

func (c *cli) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import videos from a storefront HTML export",
		Long:  `Videos whose id already exists in their category are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			videos, err := importer.ParseStorefront(file)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			st, err := c.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			lib, err := st.Load()
			if err != nil {
				return fmt.Errorf("load library: %w", err)
			}

			added, skipped := 0, 0
			for _, v := range videos {
				if v.ID == "" {
					v.ID = model.GenerateUUID()
				}
				if lib.GetVideoByID(v.Category, v.ID) != nil {
					skipped++
					continue
				}
				lib.Videos = append(lib.Videos, v)
				added++
			}

			if err := st.Save(lib); err != nil {
				return fmt.Errorf("save library: %w", err)
			}
			c.logger.Info("Imported storefront", zap.String("file", args[0]), zap.Int("added", added), zap.Int("skipped", skipped))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d videos", added)
			if skipped > 0 {
				fmt.Fprintf(out, " (%d duplicates skipped)", skipped)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func (c *cli) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the starter videos and events",
		Long:  `Adds the starter mental-health videos and events. Records already present are left alone.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			lib, err := st.Load()
			if err != nil {
				return fmt.Errorf("load library: %w", err)
			}

			videos, events := 0, 0
			for _, v := range model.SeedVideos() {
				if lib.GetVideoByID(v.Category, v.ID) == nil {
					lib.Videos = append(lib.Videos, v)
					videos++
				}
			}
			for _, e := range model.SeedEvents() {
				if lib.GetEventByID(e.ID) == nil {
					lib.Events = append(lib.Events, e)
					events++
				}
			}

			if err := st.Save(lib); err != nil {
				return fmt.Errorf("save library: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d videos, %d events\n", videos, events)
			return nil
		},
	}
}

func (c *cli) newCheckThumbsCmd() *cobra.Command {
	var removeDead bool

	cmd := &cobra.Command{
		Use:   "check-thumbs",
		Short: "Check the thumbnail URLs of a category",
		Long: `Requests every thumbnail URL in the category concurrently and groups
videos into healthy, dead, unreachable and placeholder (no thumbnail).

Concurrency, timeout and excluded domains come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, st, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			stderr := cmd.ErrOrStderr()
			results := culler.CheckThumbnails(cmd.Context(), store.Snapshot(), culler.Options{
				Concurrency:    c.cfg.CheckConcurrency,
				Timeout:        c.cfg.CheckTimeout(),
				ExcludeDomains: c.cfg.CullExcludeDomains,
				OnProgress: func(completed, total int) {
					fmt.Fprintf(stderr, "\rChecking thumbnails %d/%d", completed, total)
				},
			})
			if len(results) > 0 {
				fmt.Fprintln(stderr)
			}

			out := cmd.OutOrStdout()
			groups := culler.Group(results)
			for _, status := range []culler.Status{culler.Dead, culler.Unreachable, culler.Placeholder} {
				for _, r := range groups[status] {
					fmt.Fprintf(out, "%-11s %s  %s", status, r.Video.ID, r.Video.Title)
					if r.Error != "" {
						fmt.Fprintf(out, "  (%s)", r.Error)
					}
					fmt.Fprintln(out)
				}
			}
			fmt.Fprintf(out, "%d healthy, %d dead, %d unreachable, %d placeholder\n",
				len(groups[culler.Healthy]), len(groups[culler.Dead]),
				len(groups[culler.Unreachable]), len(groups[culler.Placeholder]))

			if !removeDead {
				return nil
			}
			for _, r := range groups[culler.Dead] {
				if err := store.Remove(cmd.Context(), r.Video.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Removed %d videos with dead thumbnails\n", len(groups[culler.Dead]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&removeDead, "remove-dead", false, "delete videos whose thumbnail is gone (404/410)")
	return cmd
}
