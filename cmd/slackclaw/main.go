package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stellarlinkco/slackclaw/internal/config"
	"github.com/stellarlinkco/slackclaw/internal/gateway"
	"github.com/stellarlinkco/slackclaw/internal/version"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "slackclaw",
	Short: "slackclaw - Slack mention gateway for Claude agent workflows",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway (Slack events endpoint + dispatcher)",
	RunE:  runServe,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Write a default config file",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show config and readiness",
	RunE:  runStatus,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("slackclaw " + version.Version)
	},
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if debugFlag {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger()

	gw, err := gateway.New(cfg, log)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}
	return gw.Run(context.Background())
}

func runOnboard(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		fmt.Printf("config already exists at %s\n", config.ConfigPath())
		return nil
	}

	if err := config.SaveConfig(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", config.ConfigPath())
	fmt.Println("fill in slack.signingSecret, slack.botToken, github.token, github.owner, github.repo and github.workflowFile")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("config:    %s\n", config.ConfigPath())
	fmt.Printf("listen:    %s:%d\n", cfg.Gateway.Host, cfg.Gateway.Port)
	fmt.Printf("workflow:  %s/%s/%s@%s\n", cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.WorkflowFile, cfg.GitHub.Ref)
	fmt.Printf("operator:  %s\n", orUnset(cfg.GitHub.Username))
	if err := cfg.Validate(); err != nil {
		fmt.Printf("readiness: NOT READY (%v)\n", err)
	} else {
		fmt.Println("readiness: ok")
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, onboardCmd, statusCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
