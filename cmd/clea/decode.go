package main

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/util/desensitize"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/lsp"
)

type decodeOptions struct {
	*rootOptions

	saPriv   string
	mctaPriv string
	scalar   bool
	reveal   bool
}

// decodeRecord is one line of output per token.
type decodeRecord struct {
	Index        int                       `json:"index"`
	Header       *lsp.Header               `json:"header,omitempty"`
	LSP          *lsp.LocationSpecificPart `json:"lsp,omitempty"`
	Contact      *lsp.ContactMessage       `json:"contact,omitempty"`
	ContactError string                    `json:"contact_error,omitempty"`
	Error        string                    `json:"error,omitempty"`
	Code         int                       `json:"code,omitempty"`
}

func newDecodeCmd(root *rootOptions) *cobra.Command {
	o := &decodeOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "decode [token...]",
		Short: "Decode location tokens, read from stdin when none or - is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.load(); err != nil {
				return err
			}
			defer o.close()

			tokens, err := readTokens(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return o.run(cmd, tokens)
		},
	}
	cmd.Flags().StringVar(&o.saPriv, "sa-priv", "", "server authority private key, hex (overrides keys.server_authority_private_key)")
	cmd.Flags().StringVar(&o.mctaPriv, "mcta-priv", "", "manual contact tracing authority private key, hex")
	cmd.Flags().BoolVar(&o.scalar, "scalar", false, "compute the shared secret with the curve arithmetic of this module")
	cmd.Flags().BoolVar(&o.reveal, "reveal", false, "print phone numbers and PINs in clear")
	return cmd
}

func readTokens(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return args, nil
	}

	var tokens []string
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		if t := strings.TrimSpace(sc.Text()); t != "" {
			tokens = append(tokens, t)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.InvalidInput("read tokens").WithCause(err)
	}
	if len(tokens) == 0 {
		return nil, errors.InvalidInput("no token to decode")
	}
	return tokens, nil
}

func (o *decodeOptions) run(cmd *cobra.Command, tokens []string) error {
	override(&o.cfg.Keys.ServerAuthorityPrivateKey, o.saPriv)
	override(&o.cfg.Keys.ManualContactTracingAuthorityPrivateKey, o.mctaPriv)

	var opts []lsp.Option
	if o.scalar {
		opts = append(opts, lsp.WithAgreement(ecies.ScalarAgreement))
	}
	dec, err := o.cfg.decoder(opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	failed := 0
	for _, res := range dec.DecodeAll(cmd.Context(), tokens) {
		rec := o.record(res)
		if rec.Error != "" {
			failed++
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errors.MalformedToken("%d of %d tokens could not be decoded", failed, len(tokens))
	}
	return nil
}

func (o *decodeOptions) record(res lsp.Result) decodeRecord {
	rec := decodeRecord{Index: res.Index}
	if res.Err != nil {
		rec.Error = res.Err.Error()
		rec.Code = errors.Code(res.Err)
		return rec
	}

	d := res.Decoded
	rec.Header, rec.LSP = &d.Header, &d.LSP
	if d.ContactErr != nil {
		rec.ContactError = d.ContactErr.Error()
	}
	if d.Contact != nil {
		c := *d.Contact
		if !o.reveal {
			c.Phone = desensitize.Phone(c.Phone)
			c.PIN = desensitize.PIN(c.PIN)
		}
		rec.Contact = &c
	}
	return rec
}
