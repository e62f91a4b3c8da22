package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want flags
	}{
		{name: "defaults", args: nil, want: flags{transport: "stdio", addr: "127.0.0.1:8088"}},
		{name: "help", args: []string{"-help"}, want: flags{showHelp: true, transport: "stdio", addr: "127.0.0.1:8088"}},
		{name: "version shorthand", args: []string{"-v"}, want: flags{showVersion: true, transport: "stdio", addr: "127.0.0.1:8088"}},
		{name: "sse transport", args: []string{"-transport", "sse", "-addr", ":9000"}, want: flags{transport: "sse", addr: ":9000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	validBot := "xoxb-" + strings.Repeat("0", 50)
	validUser := "xoxp-" + strings.Repeat("0", 50)

	tests := []struct {
		name       string
		botToken   string
		userToken  string
		wantErrMsg string
	}{
		{name: "valid bot token only", botToken: validBot},
		{name: "valid bot and user tokens", botToken: validBot, userToken: validUser},
		{name: "missing bot token", wantErrMsg: "SLACK_BOT_TOKEN environment variable is required"},
		{name: "wrong bot prefix", botToken: "xoxp-" + strings.Repeat("0", 50), wantErrMsg: "must start with 'xoxb-'"},
		{name: "bot token too short", botToken: "xoxb-short", wantErrMsg: "too short"},
		{name: "wrong user prefix", botToken: validBot, userToken: validBot, wantErrMsg: "must start with 'xoxp-'"},
		{name: "user token too short", botToken: validBot, userToken: "xoxp-short", wantErrMsg: "too short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envSlackBotToken, tt.botToken)
			t.Setenv(envSlackUserToken, tt.userToken)

			config, err := validateConfig()
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.botToken, config.botToken)
			assert.Equal(t, tt.userToken, config.userToken)
		})
	}
}

func TestRun_UnknownTransport(t *testing.T) {
	t.Setenv(envSlackBotToken, "xoxb-"+strings.Repeat("0", 50))
	t.Setenv(envSlackUserToken, "")

	err := run([]string{"-transport", "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}
