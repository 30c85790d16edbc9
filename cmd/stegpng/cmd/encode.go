/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ssargent/stegpng/pkg/compress"
	"github.com/ssargent/stegpng/pkg/config"
	"github.com/ssargent/stegpng/pkg/metrics"
	"github.com/ssargent/stegpng/pkg/steg"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:     "encode <source.png>",
	Aliases: []string{"e", "enc"},
	Short:   "Embed a payload into a PNG image",
	Long: `Embed a payload into the low-order bits of a PNG image.

The payload is taken from --message, or read from stdin until EOF. The
resulting PNG is written to stdout unless --output names a file. Use "-" as
the source to read the image from stdin; the payload must then come from
--message.

Examples:
  stegpng encode cat.png -m "Such Message, much wow" -o hidden.png
  tar cz notes/ | stegpng encode photo.png --bits 2 --compress zstd > out.png
  stegpng encode photo.png -m "fits anywhere" --bits auto -o out.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return instrument(metrics.OpEncode, func(logger *slog.Logger) error {
			return runEncode(cmd, args[0], logger)
		})
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringP("message", "m", "", "Payload text (default: read stdin)")
	encodeCmd.Flags().StringP("output", "o", stdio, "Output PNG path, - for stdout")
	encodeCmd.Flags().StringP("bits", "b", "1", "Low-order bits used per channel, or auto for the smallest that fits")
	encodeCmd.Flags().Bool("alpha", false, "Also embed into the alpha channel")
	encodeCmd.Flags().StringP("compress", "c", "none", "Payload compression: none, zstd, s2 or lz4")
	encodeCmd.Flags().Bool("random-offset", false, "Start the payload at a random pixel")
	encodeCmd.Flags().String("png-compression", "default", "PNG compression: default, none, fast or best")
}

func runEncode(cmd *cobra.Command, source string, logger *slog.Logger) error {
	opts, err := encodeOptions(cmd, container.GetConfig())
	if err != nil {
		return err
	}

	codec, err := imageCodec(cmd)
	if err != nil {
		return err
	}

	payload, err := readPayload(cmd, source == stdio)
	if err != nil {
		return err
	}

	buf, err := readImage(cmd, codec, source)
	if err != nil {
		return err
	}
	logger.Debug("carrier loaded",
		"width", buf.Width, "height", buf.Height, "model", buf.Model.String(), "depth", buf.Depth)

	report, err := steg.Encode(buf, payload, opts)
	if err != nil {
		return fmt.Errorf("failed to embed payload: %w", err)
	}

	m := container.GetMetrics()
	m.UpdatePayloadStats(report.PayloadBytes, report.StoredBytes, report.CapacityBytes)
	m.UpdateBitsWritten(report.BitsWritten)

	output, _ := cmd.Flags().GetString("output")
	if err := writeImage(cmd, codec, output, buf); err != nil {
		return err
	}

	logger.Info("payload embedded",
		"payload_bytes", report.PayloadBytes,
		"stored_bytes", report.StoredBytes,
		"capacity_bytes", report.CapacityBytes,
		"start_pixel", report.StartPixel,
		"bits_per_channel", report.Header.BitsPerChannel,
		"compression", opts.Compression.String())
	return nil
}

// encodeOptions merges the config with explicitly set flags
func encodeOptions(cmd *cobra.Command, cfg *config.Config) (steg.Options, error) {
	opts := steg.Options{
		BitsPerChannel: int(cfg.Embedding.BitsPerChannel),
		UseAlpha:       cfg.Embedding.UseAlpha,
		RandomOffset:   cfg.Embedding.RandomOffset,
	}
	compression := cfg.Compression

	flags := cmd.Flags()
	if flags.Changed("bits") {
		raw, _ := flags.GetString("bits")
		bits, err := config.ParseBits(raw)
		if err != nil {
			return opts, err
		}
		opts.BitsPerChannel = int(bits)
	}
	if flags.Changed("alpha") {
		opts.UseAlpha, _ = flags.GetBool("alpha")
	}
	if flags.Changed("random-offset") {
		opts.RandomOffset, _ = flags.GetBool("random-offset")
	}
	if flags.Changed("compress") {
		compression, _ = flags.GetString("compress")
	}

	t, err := compress.ParseType(compression)
	if err != nil {
		return opts, err
	}
	opts.Compression = t
	return opts, nil
}
