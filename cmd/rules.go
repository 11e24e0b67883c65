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
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/taste-tools/internal/taste"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Prints the intent rule table",
	Long: `Prints the intent rule table in YAML. With --rules, the file is
validated and printed back; otherwise the built-in table is printed, which
is a good starting point for a custom one.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(viper.GetString("rules"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := engine.Rules.WriteYAML(os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

// loadEngine returns the default engine, with its rule table replaced by
// the one at rulesPath if set.
func loadEngine(rulesPath string) (taste.Engine, error) {
	engine := taste.DefaultEngine()
	if rulesPath == "" {
		return engine, nil
	}

	path, err := homedir.Expand(rulesPath)
	if err != nil {
		return engine, err
	}
	f, err := os.Open(path)
	if err != nil {
		return engine, fmt.Errorf("opening rules: %w", err)
	}
	defer f.Close()

	engine.Rules, err = taste.LoadRules(f)
	if err != nil {
		return engine, fmt.Errorf("%s: %w", path, err)
	}
	if err := engine.Validate(); err != nil {
		return engine, fmt.Errorf("%s: %w", path, err)
	}
	return engine, nil
}
