package main

import (
	"fmt"

	"github.com/emontilla/taller/internal/device"
	"github.com/emontilla/taller/internal/models"
	"github.com/emontilla/taller/internal/printout"
	"github.com/emontilla/taller/internal/workflow"
	"github.com/spf13/cobra"
)

func newDiagnoseCmd() *cobra.Command {
	var (
		configPath string
		text       string
		value      float64
	)

	cmd := &cobra.Command{
		Use:   "diagnose <id>",
		Short: "Record a diagnosis and price quote",
		Long:  "Records the technician's assessment and quote for a device and moves it to Diagnosed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeviceID(args[0])
			if err != nil {
				return err
			}
			return runDiagnose(cmd, configPath, id, text, value)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	cmd.Flags().StringVar(&text, "text", "", "diagnosis text (required)")
	cmd.Flags().Float64Var(&value, "value", 0, "repair price quote")
	cmd.MarkFlagRequired("text")
	return cmd
}

func runDiagnose(cmd *cobra.Command, configPath string, id uint, text string, value float64) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	diag, err := workflow.RecordDiagnosis(gormDB, id, text, value)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded diagnosis %d for device %d (quote $%.2f)\n", diag.ID, id, diag.Value)
	return nil
}

func newApproveCmd() *cobra.Command {
	var (
		configPath string
		state      string
	)

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Record the customer's approval decision",
		Long:  "Moves a diagnosed device into one of the approval substates: reviewed, approved or in_repair.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeviceID(args[0])
			if err != nil {
				return err
			}
			return runApprove(cmd, configPath, id, state)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	cmd.Flags().StringVar(&state, "state", "approved", "approval substate (reviewed, approved, in_repair)")
	return cmd
}

func runApprove(cmd *cobra.Command, configPath string, id uint, state string) error {
	target, err := models.ParseStatus(state)
	if err != nil {
		return err
	}
	if !target.ApprovalSubstate() {
		return fmt.Errorf("%q is not an approval substate (use reviewed, approved or in_repair)", state)
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := workflow.Advance(gormDB, id, target); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Device %d is now %s\n", id, target)
	return nil
}

func newReadyCmd() *cobra.Command {
	var (
		configPath string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "ready <id>",
		Short: "Mark a repair as complete",
		Long:  "Records final repair notes and moves the device to Ready for pickup.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeviceID(args[0])
			if err != nil {
				return err
			}
			return runReady(cmd, configPath, id, notes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	cmd.Flags().StringVar(&notes, "notes", "", "final repair notes")
	return cmd
}

func runReady(cmd *cobra.Command, configPath string, id uint, notes string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := workflow.MarkReady(gormDB, id, notes); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Device %d is ready for pickup\n", id)
	return nil
}

func newDeliverCmd() *cobra.Command {
	var (
		configPath string
		invoice    bool
		printAfter bool
	)

	cmd := &cobra.Command{
		Use:   "deliver <id>",
		Short: "Hand a repaired device back to the customer",
		Long:  "Closes a Ready device as Delivered, or as Invoiced with --invoice.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeviceID(args[0])
			if err != nil {
				return err
			}
			return runDeliver(cmd, configPath, id, invoice, printAfter)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taller.yaml", "path to Taller config file")
	cmd.Flags().BoolVar(&invoice, "invoice", false, "close as Invoiced instead of Delivered")
	cmd.Flags().BoolVar(&printAfter, "print", false, "print the invoice after closing")
	return cmd
}

func runDeliver(cmd *cobra.Command, configPath string, id uint, invoice, printAfter bool) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	finalize := workflow.Finalize
	if invoice {
		finalize = workflow.FinalizeInvoiced
	}
	if err := finalize(gormDB, id); err != nil {
		return err
	}

	dev, err := device.Get(gormDB, id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Device %d closed as %s\n", id, dev.Status)

	if printAfter {
		diag, err := device.LatestDiagnosis(gormDB, id)
		if err != nil {
			return err
		}
		text, err := printout.Invoice(shopFromConfig(cfg), *dev, diag)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, text)
	}
	return nil
}
