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
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/taste-tools/internal/store"
	"github.com/ademuri/taste-tools/internal/taste"
)

type EmailProfileConfig struct {
	DbPath string
	User   string
	From   string
	To     string
	DryRun bool
}

var emailProfileCmd = &cobra.Command{
	Use:   "email-profile <address>",
	Short: "Emails the latest saved taste profile",
	Long: `Emails the most recent profile stored with "profile --save" to the
given address, rendered as HTML tables.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return requireFlags("user", "from")
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := EmailProfileConfig{
			DbPath: viper.GetString("database"),
			User:   viper.GetString("user"),
			From:   viper.GetString("from"),
			To:     args[0],
			DryRun: viper.GetBool("dryRun"),
		}
		err := emailProfile(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailProfileCmd)

	var dryRun bool
	emailProfileCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailProfileCmd.Flags().Lookup("dry_run"))
}

func emailProfile(config EmailProfileConfig) error {
	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	user := strings.ToLower(config.User)
	stored, err := db.GetLatestProfile(user)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no saved profile for %q, run profile --save first", user)
	}
	if err != nil {
		return err
	}

	var profile taste.TasteProfile
	if err := json.Unmarshal(stored.Body, &profile); err != nil {
		return fmt.Errorf("decoding profile %s: %w", stored.ID, err)
	}

	subject, body, err := generateProfileEmail(user, stored.Created, profile)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	apiKey := viper.GetString("sendgrid_api_key")
	if apiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}
	from := mail.NewEmail("taste-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, subject, body)
	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendEmail: status %d: %s", response.StatusCode, response.Body)
	}
	fmt.Printf("Sent profile to %s\n", config.To)
	return nil
}

func generateProfileEmail(user string, created time.Time, p taste.TasteProfile) (subject string, body string, err error) {
	var out strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	for _, name := range []string{"summary", "intents", "genres", "artists"} {
		action, err := getActionFromName(name)
		if err != nil {
			return "", "", err
		}
		analysis, err := action.GetResults(p)
		if err != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		out.WriteString("<div>\n")
		fmt.Fprintf(&out, "<h2>%s:</h2>\n", html.EscapeString(action.GetName()))
		if len(analysis.results) > 1 {
			out.WriteString("<table>\n<thead>\n<tr>\n")
			for _, header := range analysis.results[0] {
				fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
			}
			out.WriteString("</tr>\n</thead>\n<tbody>\n")
			for _, row := range analysis.results[1:] {
				out.WriteString("<tr>\n")
				for _, column := range row {
					fmt.Fprintf(&out, "<td>%s</td>\n", html.EscapeString(column))
				}
				out.WriteString("</tr>\n")
			}
			out.WriteString("</tbody>\n</table>\n")
		}
		fmt.Fprintf(&out, "<div>%s</div>\n</div>\n", html.EscapeString(analysis.summary))
	}
	out.WriteString("  </body>\n</html>\n")

	subject = fmt.Sprintf("Taste profile for %s %s", user, created.Format("2006-01-02"))
	return subject, out.String(), nil
}
