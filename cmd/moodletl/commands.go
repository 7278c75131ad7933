package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ZaguanLabs/moodletl"
	"github.com/ZaguanLabs/moodletl/cache"
	"github.com/ZaguanLabs/moodletl/provider"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <path>",
		Short: "Write the translatable strings of a course or question bank",
		Long: `Writes every translatable string to the strings file. When the file
already exists, the strings added and removed since it was written are
reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, err := cache.ReadStringsFile(a.cfg.StringsFile)
			hadPrevious := err == nil
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			p, err := a.pipeline(args[0], nil, nil)
			if err != nil {
				return err
			}
			strings, err := p.Extract()
			if err != nil {
				return fmt.Errorf("extract failed: %w", err)
			}
			cmd.Printf("Extracted %d strings to %s\n", len(strings), a.cfg.StringsFile)

			if hadPrevious {
				stats := moodletl.DiffStrings(previous, strings).Stats()
				cmd.Printf("  Added:     %d\n", stats.Added)
				cmd.Printf("  Removed:   %d\n", stats.Removed)
				cmd.Printf("  Unchanged: %d\n", stats.Unchanged)
			}
			return nil
		},
	}
}

func newTranslateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate",
		Short: "Translate the strings file into the cache",
		Long: `Translates every string of the strings file that is not cached yet.
The cache is written after every provider request, so an interrupted run
loses at most one batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strings, err := cache.ReadStringsFile(a.cfg.StringsFile)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			translator, closeOutput, err := a.newTranslator(store)
			if err != nil {
				return err
			}

			result, err := translator.Translate(cmd.Context(), strings)
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}
			if err := closeOutput(); err != nil {
				return err
			}

			cmd.Printf("Translated %d new strings (%d cached, %d requests)\n",
				result.TranslatedCount, result.CachedCount, result.Batches)
			return store.Flush()
		},
	}
}

func newApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <path>",
		Short: "Write bilingual documents using the cached translations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateTarget(); err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := a.pipeline(args[0], nil, store)
			if err != nil {
				return err
			}
			applier, err := p.Apply(a.cfg.TargetLang, a.cfg.SourceLang)
			if err != nil {
				return fmt.Errorf("apply failed: %w", err)
			}

			cmd.Printf("Rewrote %d elements (%d skipped) into %s\n",
				applier.Rewritten(), applier.Skipped(), a.cfg.OutputDir)
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <path>",
		Short: "Extract, translate and apply in one go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			translator, closeOutput, err := a.newTranslator(store)
			if err != nil {
				return err
			}

			p, err := a.pipeline(args[0], translator, store)
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := closeOutput(); err != nil {
				return err
			}

			cmd.Printf("Done: %d strings, %d translated, %d cached\n",
				result.Strings, result.Translation.TranslatedCount, result.Translation.CachedCount)
			cmd.Printf("  Rewritten: %d elements\n", result.Rewritten)
			cmd.Printf("  Skipped:   %d elements\n", result.Skipped)
			return store.Flush()
		},
	}
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Move translations between cache backends",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write the cache as a JSON translations file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := cache.ExportToFile(args[0], store); err != nil {
				return err
			}
			n, err := cache.Len(store)
			if err != nil {
				return err
			}
			cmd.Printf("Exported %d translations to %s\n", n, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Add the translations of a JSON file to the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := cache.ImportFromFile(args[0], store)
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d translations (%d skipped)\n", result.Imported, result.Skipped)
			return store.Flush()
		},
	})

	return cmd
}

func newUsageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show the DeepL character usage of the billing period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Provider != "deepl" {
				return errors.New("usage is only available for the deepl provider")
			}
			key, err := a.cfg.ResolveDeepLKey()
			if err != nil {
				return err
			}
			timeout, err := a.cfg.DeepLTimeout()
			if err != nil {
				return err
			}

			p := provider.NewDeepLProvider(provider.DeepLConfig{
				AuthKey: key,
				BaseURL: a.cfg.DeepL.BaseURL,
				Timeout: timeout,
				Logger:  a.logger,
			})
			usage, err := p.Usage(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Characters: %d of %d\n", usage.CharacterCount, usage.CharacterLimit)
			return nil
		},
	}
}
