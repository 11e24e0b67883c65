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
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ademuri/lastfm-go/lastfm"
	"github.com/ademuri/taste-tools/internal/store"
)

var validPeriods = []string{"overall", "7day", "1month", "3month", "6month", "12month"}

const topTracksPageSize = 200

type UpdateConfig struct {
	DbPath string
	User   string
	Period string
	Limit  int
	Force  bool
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches top tracks from last.fm",
	Long:  `Stores the user's top tracks for a period in a local SQLite database.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags("user", "api_key", "secret"); err != nil {
			return err
		}
		if period := viper.GetString("period"); !slices.Contains(validPeriods, period) {
			return fmt.Errorf("invalid --period %q, want one of %s", period, strings.Join(validPeriods, ", "))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := UpdateConfig{
			DbPath: viper.GetString("database"),
			User:   viper.GetString("user"),
			Period: viper.GetString("period"),
			Limit:  viper.GetInt("limit"),
			Force:  viper.GetBool("force"),
		}

		err := updateDatabase(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var period string
	updateCmd.Flags().StringVar(&period, "period", "overall", "Chart period: "+strings.Join(validPeriods, ", "))
	viper.BindPFlag("period", updateCmd.Flags().Lookup("period"))

	var limit int
	updateCmd.Flags().IntVar(&limit, "limit", 500, "Maximum number of top tracks to fetch")
	viper.BindPFlag("limit", updateCmd.Flags().Lookup("limit"))

	var force bool
	updateCmd.Flags().BoolVarP(&force, "force", "f", false, "Fetch even if the data was updated in the past 24 hours")
	viper.BindPFlag("force", updateCmd.Flags().Lookup("force"))
}

func updateDatabase(config UpdateConfig) error {
	user := strings.ToLower(config.User)
	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.CreateUser(user)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	lastUpdated, err := db.GetLastUpdated(user)
	if err != nil {
		return err
	}
	now := time.Now()
	if !lastUpdated.IsZero() && now.Sub(lastUpdated).Hours() < 24 && !config.Force {
		fmt.Printf("User data was already updated in the past 24 hours\n")
		return nil
	}
	if !lastUpdated.IsZero() {
		fmt.Printf("User data was last updated: %s\n", lastUpdated.Format("2006-01-02"))
	}

	lastfmClient := lastfm.New(viper.GetString("api_key"), viper.GetString("secret"))
	lastfmClient.SetUserAgent("taste-tools/1.0")

	fmt.Printf("Fetching %s top tracks for %q\n", config.Period, user)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)
	tracks, err := fetchTopTracks(context.Background(), lastfmTopTracks(lastfmClient, user, config.Period), limiter, config.Limit)
	if err != nil {
		return err
	}

	err = db.SaveTopTracks(user, config.Period, tracks)
	if err != nil {
		return fmt.Errorf("saving top tracks: %w", err)
	}
	fmt.Printf("Stored %d tracks\n", len(tracks))

	return db.SetLastUpdated(user, now)
}

// topTracksPage is one page of a top-tracks chart.
type topTracksPage struct {
	Tracks     []store.TopTrack
	TotalPages int
}

type topTracksFetcher func(page int) (topTracksPage, error)

// lastfmTopTracks fetches chart pages with user.getTopTracks, retrying
// last.fm server errors.
func lastfmTopTracks(client *lastfm.Api, user, period string) topTracksFetcher {
	return func(page int) (topTracksPage, error) {
		var topTracks lastfm.UserGetTopTracks
		err := retry.Do(
			func() error {
				var err error
				topTracks, err = client.User.GetTopTracks(lastfm.P{
					"user":   user,
					"period": period,
					"limit":  topTracksPageSize,
					"page":   page,
				})
				return err
			},
			retry.RetryIf(func(err error) bool {
				if lerr, ok := err.(*lastfm.LastfmError); ok {
					if lerr.Code/100 == 5 {
						fmt.Printf("last.fm errored, retrying: %v\n", lerr)
						return true
					}
				}
				return false
			}),
		)
		if err != nil {
			return topTracksPage{}, fmt.Errorf("fetching top tracks (page %d): %w", page, err)
		}

		result := topTracksPage{TotalPages: topTracks.TotalPages}
		for _, t := range topTracks.Tracks {
			rank, _ := strconv.Atoi(t.Rank)
			playCount, _ := strconv.Atoi(t.PlayCount)
			result.Tracks = append(result.Tracks, store.TopTrack{
				TrackKey:  store.TrackKey{Artist: t.Artist.Name, Name: t.Name},
				Rank:      rank,
				PlayCount: playCount,
			})
		}
		return result, nil
	}
}

// fetchTopTracks pages through a chart until limit tracks were read or the
// chart ends. A limit <= 0 reads the whole chart.
func fetchTopTracks(ctx context.Context, fetch topTracksFetcher, limiter *rate.Limiter, limit int) ([]store.TopTrack, error) {
	var tracks []store.TopTrack
	page := 1 // First page is 1
	pages := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		result, err := fetch(page)
		if err != nil {
			return nil, err
		}
		if pages == 0 {
			pages = result.TotalPages
		}
		tracks = append(tracks, result.Tracks...)
		fmt.Printf("Downloaded page %v of %v\n", page, pages)

		if limit > 0 && len(tracks) >= limit {
			return tracks[:limit], nil
		}
		page += 1
		if page > pages || len(result.Tracks) == 0 {
			return tracks, nil
		}
	}
}
