package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/classifier"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/openflow"
	"firestige.xyz/strix/internal/pipeline"
	"firestige.xyz/strix/internal/source/file"
)

var (
	inspectInPort     uint32
	inspectMaxPackets int
	inspectHexFrame   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [pcap-file]",
	Short: "Classify captured frames and print their bound fields",
	Long: `Inspect replays the frames of a pcap capture through the classifier
and prints, for every frame, the canonical fields the layered parse bound
together with their values. Alternatively a single frame can be given as a
hex string with --hex.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("failed to load config", err)
		}
		log.Init(cfg.Logger)

		if inspectInPort == 0 {
			inspectInPort = cfg.Inspect.InPort
		}
		if inspectMaxPackets == 0 {
			inspectMaxPackets = cfg.Inspect.MaxPackets
		}

		if inspectHexFrame != "" {
			if err := inspectHex(inspectHexFrame); err != nil {
				exitWithError("failed to classify frame", err)
			}
			return
		}

		if len(args) != 1 {
			exitWithError("a pcap file or --hex frame is required", nil)
		}
		if err := inspectFile(args[0]); err != nil {
			exitWithError("inspect failed", err)
		}
	},
}

func init() {
	inspectCmd.Flags().Uint32Var(&inspectInPort, "in-port", 0,
		"ingress port attributed to replayed frames")
	inspectCmd.Flags().IntVar(&inspectMaxPackets, "max-packets", 0,
		"stop after this many frames (0 = all)")
	inspectCmd.Flags().StringVar(&inspectHexFrame, "hex", "",
		"classify a single hex-encoded frame instead of a capture file")
}

func inspectFile(path string) error {
	src, err := file.NewSource(path, inspectInPort)
	if err != nil {
		return err
	}
	if err := src.Start(); err != nil {
		return err
	}
	defer src.Stop()

	var index int
	pl := pipeline.New(pipeline.Config{
		Source:     src,
		MaxPackets: inspectMaxPackets,
		Handler: func(p *classifier.Parser, raw core.RawPacket) {
			index++
			printClassification(index, p)
		},
	})

	if err := pl.Run(context.Background()); err != nil {
		return err
	}

	m := pl.Metrics()
	log.GetLogger().WithFields(map[string]interface{}{
		"received":   m.Received.Load(),
		"classified": m.Classified.Load(),
		"aborted":    m.Aborted.Load(),
	}).Info("inspect finished")
	return nil
}

func inspectHex(frame string) error {
	data, err := hex.DecodeString(strings.ReplaceAll(frame, " ", ""))
	if err != nil {
		return fmt.Errorf("invalid hex frame: %w", err)
	}
	printClassification(1, classifier.NewParser(data, inspectInPort))
	return nil
}

func printClassification(index int, p *classifier.Parser) {
	fmt.Printf("packet %d: %d bytes, vlan=%v\n", index, p.TotalBytes(), p.VLANTagged())
	for _, id := range p.BoundFields() {
		t := openflow.BasicType(id)
		f := p.Load(openflow.ExactMask(t))
		fmt.Printf("  %-12s = 0x%0*x\n", t, (int(t.Bits())+3)/4, f.Value)
	}
}
