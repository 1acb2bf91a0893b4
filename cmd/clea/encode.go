package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/core/util/qrcode"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

type encodeOptions struct {
	*rootOptions

	saPub       string
	mctaPub     string
	secret      string
	prefix      string
	periodStart uint32
	qrStart     uint32
	qrFile      string
	qrSize      int
	asJSON      bool
}

type encodeOutput struct {
	Token string                   `json:"token"`
	LSP   lsp.LocationSpecificPart `json:"lsp"`
	QR    string                   `json:"qr,omitempty"`
}

func newEncodeCmd(root *rootOptions) *cobra.Command {
	o := &encodeOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Generate the location token of the configured venue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.load(); err != nil {
				return err
			}
			defer o.close()

			out, err := o.run()
			if err != nil {
				return err
			}
			if o.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Token)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.saPub, "sa-pub", "", "server authority public key, hex (overrides keys.server_authority_public_key)")
	f.StringVar(&o.mctaPub, "mcta-pub", "", "manual contact tracing authority public key, hex")
	f.StringVar(&o.secret, "secret", "", "permanent location secret key, hex")
	f.StringVar(&o.prefix, "prefix", "", "deep link prefix (overrides prefix)")
	f.Uint32Var(&o.periodStart, "period-start", 0, "hour aligned NTP period start (default current hour)")
	f.Uint32Var(&o.qrStart, "qr-start", 0, "NTP start of the QR code validity (default period start)")
	f.StringVar(&o.qrFile, "qr", "", "also write the token as a PNG QR code to this file")
	f.IntVar(&o.qrSize, "qr-size", 0, "QR code size in pixels (default qrcode.size)")
	f.BoolVar(&o.asJSON, "json", false, "print the token with its clear content")
	return cmd
}

func (o *encodeOptions) run() (encodeOutput, error) {
	keys := &o.cfg.Keys
	override(&keys.ServerAuthorityPublicKey, o.saPub)
	override(&keys.ManualContactTracingAuthorityPublicKey, o.mctaPub)
	override(&keys.PermanentSecretKey, o.secret)
	override(&o.cfg.Prefix, o.prefix)

	enc, err := o.cfg.encoder()
	if err != nil {
		return encodeOutput{}, err
	}
	loc, err := o.cfg.location(enc)
	if err != nil {
		return encodeOutput{}, err
	}

	var p lsp.LocationSpecificPart
	if o.periodStart == 0 {
		p, err = loc.StartNewPeriod()
	} else {
		p, err = loc.StartPeriod(o.periodStart)
	}
	if err != nil {
		return encodeOutput{}, err
	}
	if o.qrStart != 0 && o.qrStart != p.QRCodeValidityStartTime {
		if p, err = loc.Renew(p, o.qrStart); err != nil {
			return encodeOutput{}, err
		}
	}

	token, err := loc.DeepLink(p)
	if err != nil {
		return encodeOutput{}, err
	}
	out := encodeOutput{Token: token, LSP: p}

	if o.qrFile != "" {
		size := o.qrSize
		if size == 0 {
			size = o.cfg.QRCode.Size
		}
		if err := qrcode.GenerateToFile(token, size, o.qrFile); err != nil {
			return encodeOutput{}, err
		}
		out.QR = o.qrFile
		log.Info().Str("file", o.qrFile).Int("size", size).Msg("qr code written")
	}
	return out, nil
}
