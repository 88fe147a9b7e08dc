package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/publicsuffix"

	"rrguard.io/internal/config"
	"rrguard.io/internal/models"
	"rrguard.io/internal/validation"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rrguard",
		Short: "DNS record validation engine",
		Long: `Validates DNS resource record candidates against the records already
held in a PowerDNS style record store.`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
	}

	rootCmd.AddCommand(newValidateCmd(), newTypesCmd(), newCheckConfigCmd())
	return rootCmd
}

type validateFlags struct {
	candidate models.Candidate
	guessZone bool
}

func newValidateCmd() *cobra.Command {
	var f validateFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate one record candidate",
		Example: `  rrguard validate --type CNAME --name www.example.com --content web.example.net
  rrguard validate --type MX --name example.com --content mail.example.com --prio 5 --zone example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			defer a.Close()

			c := f.candidate
			if c.DefaultTTL == 0 {
				c.DefaultTTL = a.cfg.DefaultTTL
			}
			if c.ZoneName == "" && f.guessZone {
				c.ZoneName = guessZone(c.Name)
			}

			result, err := a.engine.Validate(cmd.Context(), c)
			if err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			if !result.IsValid() {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", result.Message())
				return &exitError{code: exitInvalid}
			}

			printRecord(cmd.OutOrStdout(), models.ParseRecordType(c.Type), result.Data())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.candidate.Type, "type", "t", "", "record type")
	flags.StringVarP(&f.candidate.Name, "name", "n", "", "owner name")
	flags.StringVarP(&f.candidate.Content, "content", "c", "", "record content")
	flags.StringVar(&f.candidate.Priority, "prio", "", "priority, empty for the type default")
	flags.StringVar(&f.candidate.TTL, "ttl", "", "TTL in seconds, empty for the default TTL")
	flags.IntVar(&f.candidate.DefaultTTL, "default-ttl", 0, "TTL applied when --ttl is empty (default DEFAULT_TTL)")
	flags.IntVar(&f.candidate.RecordID, "id", 0, "ID of the record being updated, 0 when creating")
	flags.StringVar(&f.candidate.ZoneName, "zone", "", "zone the record belongs to")
	flags.BoolVar(&f.guessZone, "guess-zone", false, "derive --zone from the public suffix list when it is not given")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the enabled record types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			defer a.Close()

			for _, t := range a.engine.Types() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration and engine settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				var ve *config.ValidationError
				if errors.As(err, &ve) {
					scope := "environment"
					if errors.Is(err, validation.ErrInvalidConfiguration) {
						scope = "settings"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "invalid %s: %s %s\n", scope, ve.Field, ve.Message)
				}
				return &exitError{code: exitFailure, err: err}
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok: driver=%s types=%d\n",
				a.cfg.Database.Driver, len(a.engine.Types()))
			return nil
		},
	}
}

// guessZone returns the registrable domain of name, or "" when the public
// suffix list cannot place it
func guessZone(name string) string {
	name = models.NormalizeDomainName(name)
	if name == "" || name == "." {
		return ""
	}
	zone, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return ""
	}
	return zone
}

// printRecord writes a validated record in zone file order
func printRecord(w io.Writer, rtype models.RecordType, r models.ValidatedRecord) {
	fields := []string{r.Name, fmt.Sprint(r.TTL), "IN", rtype.String()}
	if r.Priority > 0 || rtype == models.RecordTypeMX {
		fields = append(fields, fmt.Sprint(r.Priority))
	}
	fields = append(fields, r.Content)
	fmt.Fprintln(w, strings.Join(fields, "\t"))
}
