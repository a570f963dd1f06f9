// Command nvmemi-profile captures (or inspects) a device profile: `profile
// --port <str> --slot <1..8> --output <path> [--skip-vpd] [--skip-admin]
// [--timeout <sec>] [--delay <ms>]` runs the curated sweep against real
// hardware; `profile --load <file> [--summary|--verify|--compare
// <other>|--mock-test]` inspects one already captured.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sphinxmi/nvmemi/internal/cliutil"
	"github.com/sphinxmi/nvmemi/internal/nvmemi/decoders"
	"github.com/sphinxmi/nvmemi/internal/profile"
	"github.com/sphinxmi/nvmemi/internal/registry"
	"github.com/sphinxmi/nvmemi/internal/session"
	"github.com/sphinxmi/nvmemi/internal/transport"
)

// Exit codes per spec.md §6.
const (
	exitOK          = 0
	exitUsage       = 1
	exitDeviceError = 2
	exitIntegrity   = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		port      string
		slot      uint8
		output    string
		skipVPD   bool
		skipAdmin bool
		timeoutS  int
		delayMS   int
		verbose   bool

		loadPath string
		summary  bool
		verify   bool
		compare  string
		mockTest bool
	)

	exitCode := exitOK

	cmd := &cobra.Command{
		Use:          "nvmemi-profile",
		Short:        "Capture or inspect an NVMe-MI device profile",
		SilenceUsage: true,
		RunE: func(c *cobra.Command, cliArgs []string) error {
			cliutil.NewLogger(verbose)

			if loadPath != "" {
				code, err := runLoad(loadPath, summary, verify, compare, mockTest, skipVPD, skipAdmin)
				exitCode = code
				return err
			}

			code, err := runCapture(port, slot, output, skipVPD, skipAdmin, timeoutS, delayMS)
			exitCode = code
			return err
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "serial device path for the hardware transport")
	cmd.Flags().Uint8Var(&slot, "slot", 1, "multiplexer slot (1-8)")
	cmd.Flags().StringVar(&output, "output", "", "profile JSON output path")
	cmd.Flags().BoolVar(&skipVPD, "skip-vpd", false, "skip the chunked VPD read sweep")
	cmd.Flags().BoolVar(&skipAdmin, "skip-admin", false, "skip admin-tunneled Identify/SMART reads")
	cmd.Flags().IntVar(&timeoutS, "timeout", 2, "per-command timeout in seconds")
	cmd.Flags().IntVar(&delayMS, "delay", 0, "delay between commands in milliseconds")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	cmd.Flags().StringVar(&loadPath, "load", "", "inspect an existing profile instead of capturing one")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a human-readable summary (with --load)")
	cmd.Flags().BoolVar(&verify, "verify", false, "verify schema version and internal consistency (with --load)")
	cmd.Flags().StringVar(&compare, "compare", "", "diff against another profile file (with --load)")
	cmd.Flags().BoolVar(&mockTest, "mock-test", false, "replay the profile against a mock device (with --load)")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == exitOK {
			exitCode = exitUsage
		}
		return exitCode
	}
	return exitCode
}

func runCapture(port string, slot uint8, output string, skipVPD, skipAdmin bool, timeoutS, delayMS int) (int, error) {
	if port == "" || output == "" {
		return exitUsage, fmt.Errorf("--port and --output are required")
	}

	tr, err := transport.OpenHardware(port, slot, 115200,
		transport.WithDefaultTimeout(time.Duration(timeoutS)*time.Second))
	if err != nil {
		return exitDeviceError, err
	}
	defer tr.Close()

	reg := registry.New(0)
	decoders.RegisterAll(reg)
	sess := session.New(tr, reg, session.WithTransportConfig(transport.NewConfig(
		transport.WithDefaultTimeout(time.Duration(timeoutS)*time.Second))))

	prof := profile.New(sess, profile.Config{
		SkipVPD:   skipVPD,
		SkipAdmin: skipAdmin,
		Delay:     time.Duration(delayMS) * time.Millisecond,
	})

	captured, err := prof.Run(output, profile.Metadata{})
	if err != nil {
		return exitDeviceError, err
	}

	if err := (profile.JSONFileSink{Path: output}).Write(captured); err != nil {
		return exitDeviceError, err
	}
	fmt.Printf("wrote %s (%d commands, %.2f ms avg latency)\n",
		output, captured.Metadata.TotalCommands, captured.Metadata.AvgLatencyMs)
	return exitOK, nil
}

func runLoad(loadPath string, summary, verify bool, compare string, mockTest bool, skipVPD, skipAdmin bool) (int, error) {
	p, err := profile.Load(loadPath)
	if err != nil {
		if _, ok := err.(*profile.VersionError); ok {
			return exitIntegrity, err
		}
		return exitDeviceError, err
	}

	switch {
	case summary:
		fmt.Println(profile.Summary(p))
	case verify:
		if err := profile.Verify(p); err != nil {
			return exitIntegrity, err
		}
		fmt.Println("ok")
	case compare != "":
		other, err := profile.Load(compare)
		if err != nil {
			return exitDeviceError, err
		}
		result := profile.Compare(p, other)
		fmt.Printf("added=%d removed=%d changed=%d\n", len(result.Added), len(result.Removed), len(result.Changed))
		for category, delta := range result.LatencyDeltaMs {
			fmt.Printf("  %s latency delta: %+.2f ms\n", category, delta)
		}
	case mockTest:
		result, err := profile.MockTest(p, profile.Config{SkipVPD: skipVPD, SkipAdmin: skipAdmin})
		if err != nil {
			return exitDeviceError, err
		}
		if !result.Passed {
			fmt.Printf("FAIL at %s\n", result.FailedAt)
			return exitDeviceError, fmt.Errorf("mock-test failed")
		}
		fmt.Printf("PASS (%d commands replayed)\n", result.CommandsReplayed)
	default:
		fmt.Println(profile.Summary(p))
	}
	return exitOK, nil
}
