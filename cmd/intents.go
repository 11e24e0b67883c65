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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/taste-tools/internal/taste"
)

var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "Prints the ranked listening intents",
	Long: `Builds the taste profile and prints only its listening intents. With
--explain, also prints the mood tags and example tracks behind each one.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return requireFlags("user")
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := printIntents(viper.GetString("database"), viper.GetString("user"), viper.GetString("rules"), viper.GetBool("explain"), os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(intentsCmd)

	var explain bool
	intentsCmd.Flags().BoolVar(&explain, "explain", false, "Print the evidence behind each intent")
	viper.BindPFlag("explain", intentsCmd.Flags().Lookup("explain"))
}

func printIntents(dbPath, user, rulesPath string, explain bool, out io.Writer) error {
	engine, err := loadEngine(rulesPath)
	if err != nil {
		return err
	}
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := buildProfile(db, strings.ToLower(user), engine)
	if err != nil {
		return err
	}

	analysis, err := IntentsAnalyzer{}.GetResults(profile)
	if err != nil {
		return err
	}
	fmt.Fprint(out, analysis)

	if explain {
		for _, intent := range profile.IntentsRanked {
			writeEvidence(out, intent)
		}
	}
	return nil
}

func writeEvidence(out io.Writer, intent taste.Intent) {
	fmt.Fprintf(out, "\n%s (score %s):\n", intent.Name, formatWeight(intent.Score))
	axes := []struct {
		name string
		tags []taste.TagEvidence
	}{
		{"emotional", intent.Evidence.Emotional},
		{"cognitive", intent.Evidence.Cognitive},
		{"somatic", intent.Evidence.Somatic},
	}
	for _, axis := range axes {
		for _, tag := range axis.tags {
			examples := make([]string, len(tag.Examples))
			for i, t := range tag.Examples {
				examples[i] = t.String()
			}
			fmt.Fprintf(out, "  %s %s %s: %s\n", axis.name, tag.Tag, formatWeight(tag.Weight), strings.Join(examples, "; "))
		}
	}
	c := intent.PhysicsConstraints
	fmt.Fprintf(out, "  physics: energy=%s tempo=%s danceability=%s vocals=%s texture=%s\n",
		c.Energy, c.Tempo, c.Danceability, c.Vocals, c.Texture)
}
