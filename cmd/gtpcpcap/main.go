// SPDX-License-Identifier: GPL-3.0-or-later

// Command gtpcpcap generates a pcap file containing two realistic
// GTP-C signalling flows:
//
//   - LTE (GTPv2-C) on the S11 interface between an MME and an SGW:
//     path management, initial attach, eNB handover, dedicated bearer
//     setup and teardown, idle mode with downlink data notification,
//     and detach.
//
//   - 3G GPRS (GTPv1-C) on the Gn interface between an SGSN and a
//     GGSN: path management and the PDP context lifecycle.
//
// The subscriber identity and output path are configurable via flags
// or GTPCPCAP_* environment variables.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("gtpcpcap failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "gtpcpcap",
		Short:         "Generate a pcap with LTE S11 and GPRS Gn signalling flows",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}
	flags := cmd.Flags()
	flags.StringP("output", "o", "gtpc_example.pcap", "output pcap path")
	flags.String("imsi", "001011234567890", "subscriber IMSI")
	flags.String("msisdn", "447700900001", "subscriber MSISDN")
	flags.String("mei", "3569870129304757", "mobile equipment identity")
	flags.String("apn", "internet.epc.mnc001.mcc001.gprs", "access point name")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	v.SetEnvPrefix("GTPCPCAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	return cmd
}

func run(v *viper.Viper) error {
	log := logrus.New()
	if v.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	params := scenarioParams{
		IMSI:   v.GetString("imsi"),
		MSISDN: v.GetString("msisdn"),
		MEI:    v.GetString("mei"),
		APN:    v.GetString("apn"),
	}
	path := v.GetString("output")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	count, err := writeCapture(file, log, params)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"packets": count,
		"path":    path,
	}).Info("capture written")
	return nil
}
