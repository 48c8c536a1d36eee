package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/emontilla/taller/internal/config"
	"github.com/emontilla/taller/internal/db"
	"github.com/emontilla/taller/internal/device"
	"github.com/emontilla/taller/internal/models"
	"github.com/emontilla/taller/internal/printout"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Device management commands",
	}

	cmd.AddCommand(newDeviceIntakeCmd())
	cmd.AddCommand(newDeviceShowCmd())
	cmd.AddCommand(newDeviceListCmd())
	cmd.AddCommand(newDeviceSearchCmd())
	return cmd
}

func newDeviceIntakeCmd() *cobra.Command {
	var (
		configPath string
		opts       device.CreateOpts
		status     string
		printOrder bool
		printLabel bool
	)

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Register a newly received device",
		Long:  "Registers a device at reception with the customer's details and the reported problem.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				opts.InitialStatus = st
			}
			return runDeviceIntake(cmd, configPath, opts, printOrder, printLabel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	cmd.Flags().StringVar(&opts.Type, "type", "", "device type (required)")
	cmd.Flags().StringVar(&opts.Brand, "brand", "", "brand")
	cmd.Flags().StringVar(&opts.Model, "model", "", "model")
	cmd.Flags().StringVar(&opts.SerialNumber, "serial", "", "serial number")
	cmd.Flags().StringVar(&opts.Problem, "problem", "", "reported problem")
	cmd.Flags().StringVar(&opts.CustomerName, "customer", "", "customer name")
	cmd.Flags().StringVar(&opts.CustomerPhone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&status, "status", "", "reception status (default Received)")
	cmd.Flags().BoolVar(&printOrder, "print-order", false, "print the intake order after registering")
	cmd.Flags().BoolVar(&printLabel, "print-label", false, "print the identification label after registering")
	cmd.MarkFlagRequired("type")
	return cmd
}

func runDeviceIntake(cmd *cobra.Command, configPath string, opts device.CreateOpts, printOrder, printLabel bool) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	dev, err := device.Create(gormDB, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Registered device %d (%s)\n", dev.ID, dev.Status)

	if printOrder {
		order, err := printout.IntakeOrder(shopFromConfig(cfg), *dev)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, order)
	}
	if printLabel {
		label, err := printout.Label(*dev)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, label)
	}
	return nil
}

func newDeviceShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show device details",
		Long:  "Displays the full device record plus the latest diagnosis when one exists.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeviceID(args[0])
			if err != nil {
				return err
			}
			return runDeviceShow(cmd, configPath, id)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	return cmd
}

func runDeviceShow(cmd *cobra.Command, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	dev, err := device.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %d\n", dev.ID)
	fmt.Fprintf(out, "Type:     %s\n", dev.Type)
	fmt.Fprintf(out, "Brand:    %s\n", dev.Brand)
	fmt.Fprintf(out, "Model:    %s\n", dev.Model)
	fmt.Fprintf(out, "Serial:   %s\n", dev.SerialNumber)
	fmt.Fprintf(out, "Status:   %s\n", dev.Status)
	fmt.Fprintf(out, "Problem:  %s\n", dev.Problem)
	fmt.Fprintf(out, "Customer: %s\n", dev.CustomerName)
	fmt.Fprintf(out, "Phone:    %s\n", dev.CustomerPhone)
	if dev.Notes != "" {
		fmt.Fprintf(out, "Notes:    %s\n", dev.Notes)
	}

	diag, err := device.LatestDiagnosis(gormDB, id)
	if errors.Is(err, device.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Diagnosis: %s ($%.2f)\n", diag.DiagnosisText, diag.Value)
	return nil
}

func newDeviceListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices",
		Long:  "Lists all devices in intake order. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceList(cmd, configPath, "")
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	return cmd
}

func newDeviceSearchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search devices",
		Long:  "Lists devices whose id, type or brand contains the query, case-insensitively.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceList(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	return cmd
}

func runDeviceList(cmd *cobra.Command, configPath, query string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	summaries, err := device.Search(gormDB, query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No devices found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tBRAND")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Type, s.Brand)
	}
	w.Flush()
	return nil
}

// parseDeviceID converts a CLI argument into a device ID.
func parseDeviceID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid device id %q", arg)
	}
	return uint(id), nil
}

// shopFromConfig maps the configured shop identity onto the printout header.
func shopFromConfig(cfg *config.Config) printout.Shop {
	return printout.Shop{Name: cfg.Shop.Name, Phone: cfg.Shop.Phone}
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist so a bare `taller` works against a local SQLite file.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// connectFromConfig loads config and returns a GORM DB connection.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return cfg, gormDB, nil
}
