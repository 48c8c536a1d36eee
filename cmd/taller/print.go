package main

import (
	"errors"
	"fmt"

	"github.com/emontilla/taller/internal/device"
	"github.com/emontilla/taller/internal/printout"
	"github.com/spf13/cobra"
)

func newPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print plain-text documents for a device",
	}

	cmd.AddCommand(newPrintOrderCmd())
	cmd.AddCommand(newPrintLabelCmd())
	cmd.AddCommand(newPrintInvoiceCmd())
	return cmd
}

func newPrintOrderCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "order <id>",
		Short: "Print the intake order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, configPath, args[0], "order")
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	return cmd
}

func newPrintLabelCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "label <id>",
		Short: "Print the identification label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, configPath, args[0], "label")
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	return cmd
}

func newPrintInvoiceCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "invoice <id>",
		Short: "Print the invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, configPath, args[0], "invoice")
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	return cmd
}

func runPrint(cmd *cobra.Command, configPath, arg, kind string) error {
	id, err := parseDeviceID(arg)
	if err != nil {
		return err
	}

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	dev, err := device.Get(gormDB, id)
	if err != nil {
		return err
	}

	var text string
	switch kind {
	case "order":
		text, err = printout.IntakeOrder(shopFromConfig(cfg), *dev)
	case "label":
		text, err = printout.Label(*dev)
	case "invoice":
		diag, derr := device.LatestDiagnosis(gormDB, id)
		if derr != nil && !errors.Is(derr, device.ErrNotFound) {
			return derr
		}
		// A missing diagnosis reaches the assembler as nil so it reports
		// the gap instead of printing a blank invoice.
		text, err = printout.Invoice(shopFromConfig(cfg), *dev, diag)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
