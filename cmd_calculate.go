package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lease-engine/domain"
	"lease-engine/repository"
	"lease-engine/service"
)

var errInvalidContract = errors.New("contract is invalid")

// contractFile is the on-disk shape read by the CLI. JSON files are
// accepted too since JSON is valid YAML.
type contractFile struct {
	Contract domain.LeaseContractInput `yaml:"contract"`
	Market   domain.MarketParameters   `yaml:"market"`
}

func readContractFile(path string) (contractFile, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return contractFile{}, fmt.Errorf("failed to open contract file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var cf contractFile
	if err := yaml.NewDecoder(in).Decode(&cf); err != nil {
		return contractFile{}, fmt.Errorf("failed to parse contract file: %w", err)
	}
	return cf, nil
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (use json or yaml)", format)
	}
}

func newCLIService() (*service.LeaseService, error) {
	cache, err := repository.NewMemoryCache(cfg.Memory.TTL, cfg.Memory.MaxBytes)
	if err != nil {
		return nil, err
	}
	return service.NewLeaseService(
		repository.NewLeaseRepositoryMemory(),
		cache,
		service.NewDiscountRateResolver(cfg.Market.MarketDefaults()),
	), nil
}

func addFileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "-", "contract file (YAML or JSON), - for stdin")
	cmd.Flags().StringP("output", "o", "json", "output format: json or yaml")
}

func fileFlags(cmd *cobra.Command) (string, string) {
	file, _ := cmd.Flags().GetString("file")
	output, _ := cmd.Flags().GetString("output")
	return file, output
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate lease liability, right-of-use asset and amortization schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, output := fileFlags(cmd)
		cf, err := readContractFile(file)
		if err != nil {
			return err
		}

		svc, err := newCLIService()
		if err != nil {
			return err
		}
		assessment, err := svc.Assess(cmd.Context(), cf.Contract, cf.Market)
		if err != nil {
			return err
		}
		if err := writeOutput(cmd.OutOrStdout(), output, assessment.Rounded()); err != nil {
			return err
		}
		if !assessment.Validation.IsValid {
			return errInvalidContract
		}
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Check the short-term and low-value exemptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, output := fileFlags(cmd)
		cf, err := readContractFile(file)
		if err != nil {
			return err
		}

		svc, err := newCLIService()
		if err != nil {
			return err
		}
		validation, analysis := svc.ClassifyException(cf.Contract)
		out := struct {
			Validation domain.ValidationResult   `json:"validation" yaml:"validation"`
			Exception  *domain.ExceptionAnalysis `json:"exception,omitempty" yaml:"exception,omitempty"`
		}{validation, analysis}
		if err := writeOutput(cmd.OutOrStdout(), output, out); err != nil {
			return err
		}
		if !validation.IsValid {
			return errInvalidContract
		}
		return nil
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Resolve the discount rate for a contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, output := fileFlags(cmd)
		cf, err := readContractFile(file)
		if err != nil {
			return err
		}

		svc, err := newCLIService()
		if err != nil {
			return err
		}
		validation, rate := svc.ResolveDiscountRate(cf.Contract, cf.Market)
		out := struct {
			Validation   domain.ValidationResult    `json:"validation" yaml:"validation"`
			DiscountRate *domain.DiscountRateResult `json:"discount_rate,omitempty" yaml:"discount_rate,omitempty"`
		}{validation, rate}
		if err := writeOutput(cmd.OutOrStdout(), output, out); err != nil {
			return err
		}
		if !validation.IsValid {
			return errInvalidContract
		}
		return nil
	},
}

func init() {
	addFileFlags(calculateCmd)
	addFileFlags(classifyCmd)
	addFileFlags(rateCmd)
}
