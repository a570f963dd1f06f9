// Command nvmemi-decode decodes one captured NVMe-MI/MCTP/SMBus wire frame
// from the command line: `nvmemi-decode --opcode <u8> [--vendor-id <u16>]
// [--json] <hex-bytes>`. The opcode (and, for an admin-tunneled response,
// whether it was an admin command) must be supplied by the caller — a
// standalone response frame carries no record of which request produced it
// beyond the NMIMT/opcode bytes already in its own header, and even those
// are ambiguous between the MI and admin command namespaces (see
// internal/nvmemi.DispatchKey).
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sphinxmi/nvmemi/internal/cliutil"
	"github.com/sphinxmi/nvmemi/internal/mctp"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
	"github.com/sphinxmi/nvmemi/internal/nvmemi/decoders"
	"github.com/sphinxmi/nvmemi/internal/registry"
)

// Exit codes per spec.md §6.
const (
	exitOK            = 0
	exitDecodeError   = 2
	exitChecksumError = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opcode uint8
	var vendorID uint16
	var hasVendor bool
	var asJSON bool
	var admin bool
	var verbose bool

	exitCode := exitOK

	cmd := &cobra.Command{
		Use:          "nvmemi-decode <hex-bytes>",
		Short:        "Decode one captured NVMe-MI/MCTP/SMBus wire frame",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, cliArgs []string) error {
			cliutil.NewLogger(verbose)

			raw, err := hex.DecodeString(cliArgs[0])
			if err != nil {
				exitCode = exitDecodeError
				return fmt.Errorf("invalid hex: %w", err)
			}

			pf, perr := mctp.Parse(raw)
			if perr != nil {
				exitCode = exitDecodeError
				return perr
			}
			if !pf.PECOk {
				exitCode = exitChecksumError
				return fmt.Errorf("PEC check failed")
			}
			if pf.IC && !pf.MICOk {
				exitCode = exitChecksumError
				return fmt.Errorf("MIC check failed")
			}

			reg := registry.New(0)
			decoders.RegisterAll(reg)

			key := opcode
			if admin {
				key = nvmemi.DispatchKey(nvmemi.NMIMTAdminCommand, opcode)
			}

			var vendorPtr *uint16
			if hasVendor {
				vendorPtr = &vendorID
			}

			resp, derr := nvmemi.Decode(pf.Payload, key, vendorPtr, reg, false)
			if derr != nil {
				exitCode = exitDecodeError
				return derr
			}

			printResult(resp, asJSON)
			return nil
		},
	}

	cmd.Flags().Uint8Var(&opcode, "opcode", 0, "opcode the response belongs to (required)")
	cmd.Flags().Uint16Var(&vendorID, "vendor-id", 0, "vendor id for vendor-specific decoding")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print fields as JSON instead of text")
	cmd.Flags().BoolVar(&admin, "admin", false, "opcode is an admin-tunneled opcode, not an MI command opcode")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.MarkFlagRequired("opcode")

	cmd.PreRunE = func(c *cobra.Command, cliArgs []string) error {
		hasVendor = c.Flags().Changed("vendor-id")
		return nil
	}

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == exitOK {
			exitCode = 1
		}
		return exitCode
	}
	return exitCode
}

func printResult(resp *nvmemi.DecodedResponse, asJSON bool) {
	if asJSON {
		out := map[string]interface{}{
			"success":     resp.Success,
			"status_code": resp.StatusCode,
			"opcode":      resp.Opcode,
			"partial":     resp.Partial,
			"fields":      resp.Fields.Map(),
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("success=%v status=0x%02x opcode=0x%02x partial=%v\n",
		resp.Success, resp.StatusCode, resp.Opcode, resp.Partial)
	for _, f := range resp.Fields.List() {
		fmt.Printf("  %-32s %s\n", f.Name, f.Value)
	}
}
