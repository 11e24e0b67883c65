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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ademuri/taste-tools/internal/annotation"
	"github.com/ademuri/taste-tools/internal/store"
)

type AnnotateConfig struct {
	DbPath    string
	User      string
	Limit     int
	BatchSize int
}

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotates stored top tracks with a language model",
	Long: `Asks the model to describe each charted track that has no annotation
yet (audio physics, genres, mood tags and language) and stores the answer.
Run update first.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return requireFlags("user", "openai_api_key")
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := AnnotateConfig{
			DbPath:    viper.GetString("database"),
			User:      viper.GetString("user"),
			Limit:     viper.GetInt("annotate_limit"),
			BatchSize: viper.GetInt("batch"),
		}

		client := annotation.NewOpenAIClient(
			viper.GetString("openai_api_key"),
			viper.GetString("model"),
			annotation.WithLimiter(rate.NewLimiter(rate.Every(2*time.Second), 1)),
		)

		err := runAnnotate(config, client)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	var limit int
	annotateCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tracks to annotate, default is all")
	viper.BindPFlag("annotate_limit", annotateCmd.Flags().Lookup("limit"))

	var batch int
	annotateCmd.Flags().IntVar(&batch, "batch", annotation.DefaultBatchSize, "Songs per model request")
	viper.BindPFlag("batch", annotateCmd.Flags().Lookup("batch"))
}

// modelAnnotator is an Annotator that knows which model it asks.
type modelAnnotator interface {
	annotation.Annotator
	Model() string
}

func runAnnotate(config AnnotateConfig, annotator modelAnnotator) error {
	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	annotated, failed, err := annotateTracks(context.Background(), db, annotator, config, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Printf("Annotated %d tracks", annotated)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	return nil
}

// annotateTracks annotates the user's unannotated tracks batch by batch. A
// batch that fails is reported to errOut and left for the next run.
func annotateTracks(ctx context.Context, db *store.Store, annotator modelAnnotator, config AnnotateConfig, errOut io.Writer) (annotated, failed int, err error) {
	keys, err := db.GetTracksNeedingAnnotation(strings.ToLower(config.User), config.Limit)
	if err != nil {
		return 0, 0, err
	}
	if len(keys) == 0 {
		fmt.Printf("All tracks are annotated\n")
		return 0, 0, nil
	}

	batches := annotation.BatchSongs(keys, config.BatchSize)
	for i, batch := range batches {
		songs := make([]string, len(batch))
		for j, key := range batch {
			songs[j] = key.String()
		}

		results, err := annotator.Annotate(ctx, songs)
		if err == nil && len(results) != len(batch) {
			err = fmt.Errorf("got %d annotations for %d songs", len(results), len(batch))
		}
		if err != nil {
			fmt.Fprintf(errOut, "Batch %d of %d failed: %v\n", i+1, len(batches), err)
			failed += len(batch)
			continue
		}

		for j, key := range batch {
			raw, err := json.Marshal(results[j])
			if err != nil {
				return annotated, failed, fmt.Errorf("encoding annotation for %s: %w", key, err)
			}
			err = db.SaveAnnotation(key, annotator.Model(), raw)
			if err != nil {
				return annotated, failed, fmt.Errorf("saving annotation for %s: %w", key, err)
			}
			annotated++
		}
		fmt.Printf("Annotated batch %d of %d\n", i+1, len(batches))
	}
	return annotated, failed, nil
}
