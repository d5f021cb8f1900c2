package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the index when the corpus changes",
		Long:  `Watch the rule corpus file and rebuild the similarity index whenever it changes.`,
		RunE:  makeWatchRunner(a),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching changes")
	return cmd
}

func makeWatchRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")

		corpusPath := a.ws.CorpusPath(a.cfg)
		if _, err := os.Stat(corpusPath); os.IsNotExist(err) {
			return fmt.Errorf("corpus not found: %s", corpusPath)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory: editors replace files, which drops a watch on
		// the file itself.
		if err := watcher.Add(filepath.Dir(corpusPath)); err != nil {
			return fmt.Errorf("watch corpus directory: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", corpusPath)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-cmd.Context().Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != filepath.Clean(corpusPath) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if pending {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
				}
				timer.Reset(debounce)
				pending = true

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)

			case <-timer.C:
				pending = false
				if err := a.engine.Rebuild(cmd.Context()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "rebuild: %v\n", err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Index rebuilt at %s.\n", time.Now().Format(time.TimeOnly))
			}
		}
	}
}
