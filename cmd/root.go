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

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/taste-tools/internal/store"
)

var cfgFile string
var lastFmApiKey string
var lastFmSecret string
var lastFmUser string
var databasePath string
var openAIApiKey string
var openAIModel string
var sendgridApiKey string
var rulesPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taste-tools",
	Short: "Builds a music taste profile from last.fm listening data",
	Long: `Fetches a user's top tracks from last.fm, annotates each track with a
language model, and aggregates the annotations into a taste profile:
language, audio physics, genre, three mood axes and derived listening
intents.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.taste-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&lastFmApiKey, "api_key", "", "", "last.fm API key")
	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api_key"))

	rootCmd.PersistentFlags().StringVarP(
		&lastFmSecret, "secret", "", "", "last.fm secret")
	viper.BindPFlag("secret", rootCmd.PersistentFlags().Lookup("secret"))

	rootCmd.PersistentFlags().StringVarP(
		&lastFmUser, "user", "u", "", "last.fm username to act on")
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./taste.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(&openAIApiKey, "openai_api_key", "", "OpenAI API key, used to annotate tracks")
	viper.BindPFlag("openai_api_key", rootCmd.PersistentFlags().Lookup("openai_api_key"))

	rootCmd.PersistentFlags().StringVar(&openAIModel, "model", "gpt-5-mini", "Model used to annotate tracks")
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))

	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "YAML intent rule table (default is the built-in table)")
	viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".taste-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".taste-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// requireFlags fails with cobra's wording for the first empty setting.
func requireFlags(names ...string) error {
	for _, name := range names {
		if viper.GetString(name) == "" {
			return fmt.Errorf("required flag(s) %q not set", name)
		}
	}
	return nil
}

func openStore(dbPath string) (*store.Store, error) {
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}
