package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"videomix/internal/api"
	"videomix/internal/catalog"
	"videomix/internal/config"
	"videomix/internal/pipeline"
	"videomix/internal/store"
	"videomix/internal/taskconfig"
)

var rootCmd = &cobra.Command{
	Use:   "videomix",
	Short: "Short-form marketing video composition service",
	Long: `videomix renders short-form marketing videos from validated task
configurations: media clips are fitted to a derived geometry, chained with
transitions, subtitled, mixed with narration and BGM, and encoded to MP4.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP render service",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Load()
		cat := catalog.New()

		var st store.Store
		if settings.MongoURI != "" {
			ms, err := store.NewMongoStore(context.Background(), settings.MongoURI, settings.MongoDB)
			if err != nil {
				return fmt.Errorf("connecting to mongo: %w", err)
			}
			defer ms.Close(context.Background())
			st = ms
			log.Println("task store: mongodb")
		} else {
			st = store.NewMemoryStore()
			log.Println("task store: in-memory (set MONGODB_URI for persistence)")
		}

		manager := pipeline.NewManager(cat, st, settings.OutputDir, settings.TempDir, settings.Workers)
		server := api.NewServer(cat, st, manager, settings.UploadDir)

		log.Printf("listening on %s", settings.Addr)
		return server.Router().Run(settings.Addr)
	},
}

var (
	renderConfigPath string
	renderScript     string
	renderNarration  string
	renderBGM        string
	renderMedia      []string
	renderOutputDir  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a single task from a config file and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req taskconfig.Request
		if renderConfigPath != "" {
			data, err := os.ReadFile(renderConfigPath)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parsing config: %w", err)
			}
		}

		cat := catalog.New()
		cfg, err := taskconfig.Validate(req, cat)
		if err != nil {
			return err
		}

		st := store.NewMemoryStore()
		manager := pipeline.NewManager(cat, st, renderOutputDir, os.TempDir(), 1)
		snap := manager.Submit(cfg, pipeline.Inputs{
			Script:        renderScript,
			NarrationPath: renderNarration,
			MediaPaths:    renderMedia,
			BGMPath:       renderBGM,
		})
		log.Printf("task %s submitted", snap.ID)
		manager.Wait()

		rec, err := st.Get(context.Background(), snap.ID)
		if err != nil {
			return err
		}
		if rec.Status != string(pipeline.StatusCompleted) {
			return fmt.Errorf("render failed: %s", rec.ErrorMessage)
		}
		log.Printf("output: %s (%.1fs)", rec.OutputPath, rec.OutputDuration)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderConfigPath, "config", "c", "", "task config JSON file")
	renderCmd.Flags().StringVar(&renderScript, "script", "", "script text for subtitles")
	renderCmd.Flags().StringVar(&renderNarration, "narration", "", "narration audio file")
	renderCmd.Flags().StringVar(&renderBGM, "bgm", "", "background music file")
	renderCmd.Flags().StringSliceVarP(&renderMedia, "media", "m", nil, "media files, repeatable")
	renderCmd.Flags().StringVarP(&renderOutputDir, "output", "o", "output", "output directory")
	renderCmd.MarkFlagRequired("narration")
	renderCmd.MarkFlagRequired("media")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
