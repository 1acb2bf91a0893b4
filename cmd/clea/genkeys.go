package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/errors"
)

// secretKeySize matches the permanent keys issued to venues.
const secretKeySize = 51

type genKeysOptions struct {
	dir string
}

func newGenKeysCmd() *cobra.Command {
	o := &genKeysOptions{}
	cmd := &cobra.Command{
		Use:   "gen-keys",
		Short: "Generate authority key pairs and a permanent location secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := o.run()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(keys)
		},
	}
	cmd.Flags().StringVarP(&o.dir, "dir", "d", "keys", "directory receiving the PEM files")
	return cmd
}

func (o *genKeysOptions) run() (KeysConfig, error) {
	sa, err := ecies.GenerateKeyPair(
		ecies.WithDirpath(o.dir),
		ecies.WithPrivateKeyFilename("server_authority.pem"),
		ecies.WithPublicKeyFilename("server_authority.pub.pem"),
	)
	if err != nil {
		return KeysConfig{}, err
	}
	mcta, err := ecies.GenerateKeyPair(
		ecies.WithDirpath(o.dir),
		ecies.WithPrivateKeyFilename("manual_contact_tracing_authority.pem"),
		ecies.WithPublicKeyFilename("manual_contact_tracing_authority.pub.pem"),
	)
	if err != nil {
		return KeysConfig{}, err
	}

	secret := make([]byte, secretKeySize)
	if _, err := rand.Read(secret); err != nil {
		return KeysConfig{}, errors.Internal("generate permanent secret key").WithCause(err)
	}

	return KeysConfig{
		ServerAuthorityPublicKey:                sa.Public().Hex(false),
		ServerAuthorityPrivateKey:               sa.Hex(),
		ManualContactTracingAuthorityPublicKey:  mcta.Public().Hex(false),
		ManualContactTracingAuthorityPrivateKey: mcta.Hex(),
		PermanentSecretKey:                      hex.EncodeToString(secret),
	}, nil
}
