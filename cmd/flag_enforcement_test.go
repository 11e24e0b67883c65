package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestCommandsRequireUser(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		args []string
		set  map[string]string
	}{
		{cmd: updateCmd, set: map[string]string{"api_key": "key", "secret": "secret", "period": "overall"}},
		{cmd: annotateCmd, set: map[string]string{"openai_api_key": "key"}},
		{cmd: profileCmd, set: map[string]string{"format": "yaml"}},
		{cmd: intentsCmd},
		{cmd: emailProfileCmd, args: []string{"to@example.com"}, set: map[string]string{"from": "from@example.com"}},
	}

	for _, test := range tests {
		t.Run(test.cmd.Name(), func(t *testing.T) {
			viper.Reset()
			for k, v := range test.set {
				viper.Set(k, v)
			}

			// Ensure user is empty
			viper.Set("user", "")
			err := test.cmd.PreRunE(test.cmd, test.args)
			if err == nil {
				t.Error("Expected error when user is missing, got nil")
			} else if err.Error() != "required flag(s) \"user\" not set" {
				t.Errorf("Expected 'required flag(s) \"user\" not set', got %v", err)
			}

			// Set user and check success
			viper.Set("user", "testuser")
			err = test.cmd.PreRunE(test.cmd, test.args)
			if err != nil {
				t.Errorf("Expected nil when user is set, got %v", err)
			}
		})
	}
}

func TestUpdateRequiresCredentials(t *testing.T) {
	viper.Reset()
	viper.Set("user", "testuser")
	viper.Set("period", "overall")

	err := updateCmd.PreRunE(updateCmd, nil)
	if err == nil || err.Error() != "required flag(s) \"api_key\" not set" {
		t.Errorf("Expected missing api_key error, got %v", err)
	}

	viper.Set("api_key", "key")
	err = updateCmd.PreRunE(updateCmd, nil)
	if err == nil || err.Error() != "required flag(s) \"secret\" not set" {
		t.Errorf("Expected missing secret error, got %v", err)
	}
}

func TestInvalidChoicesRejected(t *testing.T) {
	viper.Reset()
	viper.Set("user", "testuser")
	viper.Set("api_key", "key")
	viper.Set("secret", "secret")

	viper.Set("period", "decade")
	if err := updateCmd.PreRunE(updateCmd, nil); err == nil {
		t.Error("Expected error for invalid period, got nil")
	}

	viper.Set("format", "xml")
	if err := profileCmd.PreRunE(profileCmd, nil); err == nil {
		t.Error("Expected error for invalid format, got nil")
	}
}
