package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"artnetnode/internal/artnet"
	"artnetnode/internal/logger"
	"artnetnode/internal/node"
	"github.com/spf13/cobra"
)

var (
	encodeUniverses []uint
	encodeRaw       bool
	encodePages     bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the ArtPollReply for the configured universes",
	Long: `Build the registry from the configuration (plus --universe flags),
allocate the ports and print the encoded ArtPollReply as a hex dump.

With --pages one reply per net/subnet group is printed, each with a
header that is valid for all of its ports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(configFile, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		extra := make([]uint16, 0, len(encodeUniverses))
		for _, u := range encodeUniverses {
			if u > 0x7FFF {
				return fmt.Errorf("universe %d is not a 15-bit port-address", u)
			}
			extra = append(extra, uint16(u))
		}

		n, err := buildNode(cfg, log, extra)
		if err != nil {
			return err
		}
		return writeReplies(cmd.OutOrStdout(), log, n, encodeRaw, encodePages)
	},
}

func writeReplies(w io.Writer, log logger.Logger, n *node.Node, raw, pages bool) error {
	replies := [][]byte{n.Reply()}
	if pages {
		replies = n.PagedReplies()
	}

	for i, b := range replies {
		r, err := artnet.DecodePollReply(b)
		if err != nil {
			return fmt.Errorf("encoded reply %d does not decode: %w", i, err)
		}
		log.With(logger.Fields{"module": "encode"}).Debugf("reply %d: net=%d subnet=%d ports=%d", i, r.NetSwitch, r.SubSwitch, r.NumPorts)

		if raw {
			if _, err := w.Write(b); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "# reply %d: net=%d subnet=%d ports=%d\n", i, r.NetSwitch, r.SubSwitch, r.NumPorts); err != nil {
			return err
		}
		if _, err := io.WriteString(w, hex.Dump(b)); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	encodeCmd.Flags().UintSliceVarP(&encodeUniverses, "universe", "u", nil, "Additional 15-bit universe to subscribe (repeatable)")
	encodeCmd.Flags().BoolVar(&encodeRaw, "raw", false, "Write raw bytes instead of a hex dump")
	encodeCmd.Flags().BoolVar(&encodePages, "pages", false, "Print one reply per net/subnet group")
	rootCmd.AddCommand(encodeCmd)
}
