/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/taste-tools/internal/store"
	"github.com/ademuri/taste-tools/internal/taste"
)

var profileFormats = []string{"yaml", "json", "table"}

type ProfileConfig struct {
	DbPath    string
	User      string
	RulesPath string
	Format    string
	Save      bool
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Builds a taste profile from annotated tracks",
	Long: `Aggregates every annotated top track of the user into a taste profile:
audio physics, genres, emotional/cognitive/somatic moods, language, a few
representative artists and the ranked listening intents.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags("user"); err != nil {
			return err
		}
		if format := viper.GetString("format"); !slices.Contains(profileFormats, format) {
			return fmt.Errorf("invalid --format %q, want yaml, json or table", format)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := ProfileConfig{
			DbPath:    viper.GetString("database"),
			User:      viper.GetString("user"),
			RulesPath: viper.GetString("rules"),
			Format:    viper.GetString("format"),
			Save:      viper.GetBool("save"),
		}

		err := runProfile(config, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building profile: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	var format string
	profileCmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml, json or table")
	viper.BindPFlag("format", profileCmd.Flags().Lookup("format"))

	var save bool
	profileCmd.Flags().BoolVar(&save, "save", false, "Store the profile so email-profile can send it")
	viper.BindPFlag("save", profileCmd.Flags().Lookup("save"))
}

func runProfile(config ProfileConfig, out io.Writer) error {
	engine, err := loadEngine(config.RulesPath)
	if err != nil {
		return err
	}

	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	user := strings.ToLower(config.User)
	profile, err := buildProfile(db, user, engine)
	if err != nil {
		return err
	}

	if config.Save {
		body, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
		id, err := db.SaveProfile(user, body)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved profile %s\n", id)
	}

	return writeProfile(out, profile, config.Format)
}

// buildProfile aggregates the user's stored annotations.
func buildProfile(db *store.Store, user string, engine taste.Engine) (taste.TasteProfile, error) {
	corpus, skipped, err := db.GetAnnotations(user)
	if err != nil {
		return taste.TasteProfile{}, err
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d unreadable annotations\n", skipped)
	}
	if len(corpus) == 0 {
		fmt.Fprintf(os.Stderr, "No annotated tracks for %q, run update and annotate first\n", user)
	}

	profile, err := engine.BuildProfile(corpus)
	if err != nil {
		return taste.TasteProfile{}, fmt.Errorf("aggregating: %w", err)
	}
	return profile, nil
}

func writeProfile(w io.Writer, p taste.TasteProfile, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
	case "table":
		for _, name := range []string{"summary", "genres", "intents", "artists"} {
			action, err := getActionFromName(name)
			if err != nil {
				return err
			}
			analysis, err := action.GetResults(p)
			if err != nil {
				return fmt.Errorf("getting results for %s: %w", action.GetName(), err)
			}
			fmt.Fprintf(w, "%s:\n%s\n", action.GetName(), analysis)
		}
	default:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
		return encoder.Close()
	}
	return nil
}
