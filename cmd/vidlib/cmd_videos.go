package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/vidlib/internal/catalog"
	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/picker"
	"github.com/nikbrunner/vidlib/internal/search"
	"github.com/nikbrunner/vidlib/internal/storage"
)

func (c *cli) newListCmd() *cobra.Command {
	var sortName, term string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the videos in a category",
		Long: `Lists the videos in the active category, filtered by --search and
ordered by --sort (featured, date, hot, length, duration).

Hidden videos are listed and marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := c.defaultSort()
			if sortName != "" {
				var err error
				if key, err = search.ParseSortKey(sortName); err != nil {
					return err
				}
			}

			store, st, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			view := catalog.NewView(store, key)
			defer view.Close()
			view.SetSearchTerm(term)

			writeVideos(cmd.OutOrStdout(), view.Items())
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortName, "sort", "s", "", "sort key (default from config)")
	cmd.Flags().StringVarP(&term, "search", "q", "", "only titles containing this text")
	return cmd
}

// writeVideos prints videos as an aligned table.
func writeVideos(out io.Writer, videos []model.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(out, "No videos")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, v := range videos {
		mark := " "
		if v.Featured {
			mark = "*"
		}
		flags := ""
		if !v.Visible {
			flags = "(hidden)"
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\t$%.2f\t%s\n", v.ID, mark, v.Title, v.Length, v.Price, flags)
	}
	w.Flush()
}

// videoFlags holds the flags shared by add and edit.
type videoFlags struct {
	title         string
	thumbnail     string
	thumbnailFile string
	length        string
	price         float64
	featured      bool
	hidden        bool
}

func (f *videoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "video title")
	cmd.Flags().StringVar(&f.thumbnail, "thumbnail", "", "thumbnail URL (empty shows a placeholder)")
	cmd.Flags().StringVar(&f.thumbnailFile, "thumbnail-file", "", "upload a local image as the thumbnail")
	cmd.Flags().StringVarP(&f.length, "length", "l", "", "length as MM:SS or HH:MM:SS")
	cmd.Flags().Float64VarP(&f.price, "price", "p", 0, "price in dollars")
	cmd.Flags().BoolVar(&f.featured, "featured", false, "mark as featured")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "hide from the storefront")
	cmd.MarkFlagsMutuallyExclusive("thumbnail", "thumbnail-file")
}

// resolveThumbnail uploads --thumbnail-file when given and returns the URL to store.
func (c *cli) resolveThumbnail(cmd *cobra.Command, f *videoFlags) (string, error) {
	if f.thumbnailFile == "" {
		return f.thumbnail, nil
	}

	file, err := os.Open(f.thumbnailFile)
	if err != nil {
		return "", fmt.Errorf("open thumbnail: %w", err)
	}
	defer file.Close()

	var assets storage.AssetUploader = storage.NewFileAssets(assetsDir(c.dataDir))
	url, err := assets.UploadAsset(cmd.Context(), f.thumbnailFile, file)
	if err != nil {
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}
	return url, nil
}

func (c *cli) newAddCmd() *cobra.Command {
	var f videoFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a video to a category",
		Example: `  vidlib add -t "Understanding Anxiety" -l 45:00 -p 19.99 --featured
  vidlib add -c other -t "Sleep Basics" --thumbnail-file ./sleep.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			thumbnail, err := c.resolveThumbnail(cmd, &f)
			if err != nil {
				return err
			}

			store, st, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			video, err := store.Add(cmd.Context(), model.VideoInput{
				Title:        f.title,
				ThumbnailURL: thumbnail,
				Length:       f.length,
				Price:        f.price,
				Featured:     f.featured,
				Visible:      !f.hidden,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", video.ID, video.Title)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func (c *cli) newEditCmd() *cobra.Command {
	var f videoFlags
	var visible bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a video",
		Long:  `Only the flags given are changed; everything else is kept.`,
		Example: `  vidlib edit 2 --price 29.99
  vidlib edit 3 --visible`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.VideoPatch
			flags := cmd.Flags()

			if flags.Changed("title") {
				patch.Title = &f.title
			}
			if flags.Changed("thumbnail") || flags.Changed("thumbnail-file") {
				thumbnail, err := c.resolveThumbnail(cmd, &f)
				if err != nil {
					return err
				}
				patch.ThumbnailURL = &thumbnail
			}
			if flags.Changed("length") {
				patch.Length = &f.length
			}
			if flags.Changed("price") {
				patch.Price = &f.price
			}
			if flags.Changed("featured") {
				patch.Featured = &f.featured
			}
			if flags.Changed("hidden") {
				v := !f.hidden
				patch.Visible = &v
			}
			if flags.Changed("visible") {
				patch.Visible = &visible
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change, pass at least one field flag")
			}

			store, st, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			video, err := store.Edit(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %s\n", video.ID, video.Title)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&visible, "visible", false, "show on the storefront")
	cmd.MarkFlagsMutuallyExclusive("hidden", "visible")
	return cmd
}

func (c *cli) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a video (no undo)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, st, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			video, ok := store.Get(args[0])
			if !ok {
				return model.NotFoundError("video", args[0])
			}
			if err := store.Remove(cmd.Context(), video.ID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", video.ID, video.Title)
			return nil
		},
	}
}

func (c *cli) newFeatureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feature <id>",
		Short: "Toggle whether a video is featured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, st, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			video, err := store.ToggleFeatured(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			state := "Unfeatured"
			if video.Featured {
				state = "Featured"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", state, video.ID, video.Title)
			return nil
		},
	}
}

func (c *cli) newHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <id>",
		Short: "Toggle whether a video is hidden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, st, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			video, err := store.ToggleVisible(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			state := "Hidden"
			if video.Visible {
				state = "Visible"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", state, video.ID, video.Title)
			return nil
		},
	}
}

func (c *cli) newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search titles across all categories",
		Long: `Ranks every video title against the query. A single match is printed
directly; several matches open a picker.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			st, err := c.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			lib, err := st.Load()
			if err != nil {
				return fmt.Errorf("load library: %w", err)
			}

			results := search.FuzzySearchVideos(lib.Videos, query)
			out := cmd.OutOrStdout()

			if len(results) == 0 {
				fmt.Fprintf(out, "No videos found for '%s'\n", query)
				return nil
			}

			selected := results[0].Video
			if len(results) > 1 {
				program := tea.NewProgram(picker.New(results, query),
					tea.WithContext(cmd.Context()),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.ErrOrStderr()))
				finalModel, err := program.Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}

				finalPicker := finalModel.(picker.Picker)
				if finalPicker.Cancelled() {
					return nil
				}
				selected = finalPicker.SelectedVideo()
			}

			if selected == nil {
				return nil
			}
			writeVideoDetails(out, selected)
			return nil
		},
	}
}

func writeVideoDetails(out io.Writer, v *model.Video) {
	fmt.Fprintf(out, "%s\n", v.Title)
	fmt.Fprintf(out, "  id:        %s\n", v.ID)
	fmt.Fprintf(out, "  category:  %s\n", v.Category)
	fmt.Fprintf(out, "  length:    %s\n", v.Length)
	fmt.Fprintf(out, "  price:     $%.2f\n", v.Price)
	fmt.Fprintf(out, "  featured:  %t\n", v.Featured)
	fmt.Fprintf(out, "  visible:   %t\n", v.Visible)
	if v.ThumbnailURL != "" {
		fmt.Fprintf(out, "  thumbnail: %s\n", v.ThumbnailURL)
	}
}
