// Command morsechat is a morse-code chat handset for the terminal. Peers on
// the same multicast group (or the same process, with the stub radio)
// hear each other.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ystepanoff/morsechat/app"
	"github.com/ystepanoff/morsechat/config"
)

var version = "dev"

var (
	configPath   string
	verbose      bool
	headless     bool
	scriptPath   string
	capturePath  string
	driverKind   string
	channel      uint8
	recoveryHold time.Duration
	writePath    string
)

var rootCmd = &cobra.Command{
	Use:   "morsechat",
	Short: "Morse-code chat over a broadcast radio link",
	Long: `morsechat turns key presses into morse, morse into text and text into
broadcast frames. Every handset on the channel sees every message.

Keys: '.' dot, '-' dash, → next letter / send, ← erase, q quit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "morsechat", version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if writePath != "" {
			return cfg.Save(writePath)
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <capture.pcap>",
	Short: "Decode frames from a capture file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: search morsechat.yaml, .morsechat.yaml, ~/.config/morsechat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&driverKind, "driver", "", "Radio stand-in: udp or stub")
	rootCmd.PersistentFlags().Uint8Var(&channel, "channel", 0, "Radio channel (0-125)")
	rootCmd.PersistentFlags().DurationVar(&recoveryHold, "recovery-hold", 0, "How long Up must be held to enter recovery")

	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run without the terminal UI; the screen is logged")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "Lua script that presses the buttons")
	rootCmd.Flags().StringVar(&capturePath, "capture", "", "Record every frame to this pcap file")

	configCmd.Flags().StringVar(&writePath, "write", "", "Write the configuration to this file instead of printing it")

	rootCmd.AddCommand(versionCmd, configCmd, dumpCmd)
}

// loadConfig applies explicitly set flags over the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if verbose {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("driver") {
		cfg.Radio.Driver = driverKind
	}
	if flags.Changed("channel") {
		cfg.Radio.Channel = channel
	}
	if flags.Changed("recovery-hold") {
		cfg.Input.RecoveryHold.Duration = recoveryHold
	}
	if flags.Lookup("capture") != nil && flags.Changed("capture") {
		cfg.Capture.Path = capturePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func main() {
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, app.ErrRecoveryEntered):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
